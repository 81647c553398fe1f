package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/listingdesk/backend/internal/api"
	"github.com/listingdesk/backend/internal/auth"
	"github.com/listingdesk/backend/internal/config"
	"github.com/listingdesk/backend/internal/httpserver"
	"github.com/listingdesk/backend/internal/listing"
	"github.com/listingdesk/backend/internal/logger"
	"github.com/listingdesk/backend/internal/mailer"
	"github.com/listingdesk/backend/internal/mongodb"
	"github.com/listingdesk/backend/internal/ratelimit"
	"github.com/listingdesk/backend/internal/redisconn"
	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/sweeper"
	"github.com/listingdesk/backend/internal/user"
	"github.com/listingdesk/backend/internal/webhook"
)

type appConfig struct {
	Env           string        `env:"APP_ENV" envDefault:"development"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		appCfg   appConfig
		logCfg   logger.Config
		httpCfg  httpserver.Config
		mongoCfg mongodb.Config
		redisCfg redisconn.Config
		authCfg  auth.Config
		mailCfg  mailer.Config
		limitCfg ratelimit.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&mailCfg)
	config.MustLoad(&limitCfg)

	log := logger.NewFromConfig(logCfg, logger.WithService("listingdesk-api"))
	slog.SetDefault(log)

	db, err := mongodb.ConnectDatabase(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Client().Disconnect(context.Background())
	}()

	users := user.NewMongoStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	listings := listing.NewMongoStore(db)
	if err := listings.EnsureIndexes(ctx); err != nil {
		return err
	}

	// The rate limiter falls back to the in-memory window when Redis is
	// unreachable; single-instance deployments don't need the shared store.
	var limitStore ratelimit.Store
	var redisClient *redis.Client
	if redisClient, err = redisconn.Connect(ctx, redisCfg); err != nil {
		log.Warn("redis unavailable, using in-memory rate limit store", "error", err)
		limitStore = ratelimit.NewMemoryStore()
	} else {
		defer func() { _ = redisClient.Close() }()
		limitStore = ratelimit.NewRedisStore(redisClient)
	}
	webhookLimit, err := ratelimit.New(limitStore, limitCfg)
	if err != nil {
		return err
	}

	var emailSender mailer.EmailSender
	if mailCfg.PostmarkServerToken != "" {
		emailSender, err = mailer.NewPostmarkClient(mailCfg)
		if err != nil {
			return err
		}
	} else {
		log.Info("postmark token not set, welcome emails are log-only")
		emailSender = mailer.NewDevSender(log)
	}
	welcome := mailer.NewWelcomeMailer(emailSender, mailCfg.LoginURL)

	tokens, err := auth.NewTokenService(authCfg.SigningKey, authCfg.TokenTTL)
	if err != nil {
		return err
	}

	subscriptions := subscription.NewService(users, subscription.WithLogger(log))
	processor := webhook.NewProcessor(users,
		webhook.WithWelcomeSender(welcome),
		webhook.WithLogger(log),
	)
	authService := auth.NewService(users, tokens, log)

	sweep := sweeper.New(subscriptions,
		sweeper.WithInterval(appCfg.SweepInterval),
		sweeper.WithLogger(log),
	)
	go func() {
		if err := sweep.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("sweeper stopped", "error", err)
		}
	}()

	app := api.New(api.Deps{
		Processor:     processor,
		Subscriptions: subscriptions,
		Auth:          authService,
		Tokens:        tokens,
		Users:         users,
		Listings:      listings,
		WebhookLimit:  webhookLimit,
		Logger:        log,
	})

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, app.Router())
}
