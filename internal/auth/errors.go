package auth

import "errors"

var (
	ErrMissingSigningKey  = errors.New("token signing key is required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrEmailTaken         = errors.New("this email is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMissingFields      = errors.New("name, email and password are required")
)
