package auth

import "time"

// Config is the session token section of the application config.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"720h"`
}
