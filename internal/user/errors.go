package user

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrEmailRequired = errors.New("email is required")
	ErrStoreFailure  = errors.New("user store operation failed")
)
