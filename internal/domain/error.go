package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupportedKey  = errors.New("unsupported settings key")
	ErrNotInteger      = errors.New("value must be an integer")
	ErrUserBusy        = errors.New("another request for this user is in progress")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
