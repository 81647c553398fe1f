package user

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the original records were hashed with, so
// existing credentials keep validating after migration.
const bcryptCost = 12

// HashPassword hashes a plaintext password for storage. The core never
// persists plaintext; stores call this before writing a new user.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidatePassword reports whether the candidate matches the stored hash.
func (u *User) ValidatePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}
