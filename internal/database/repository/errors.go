package repository

import "errors"

// Repository errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrListingNotFound    = errors.New("listing not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrFriendshipExists   = errors.New("friendship already exists")
)
