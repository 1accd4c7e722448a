package service

import (
	"errors"
	"fmt"
	"strings"
)

// Service errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUserNotFound        = errors.New("user not found")
	ErrListingNotFound     = errors.New("listing not found")
	ErrNotListingOwner     = errors.New("you do not have permission to modify this listing")
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrSelfMessage         = errors.New("you cannot send a message to yourself")
	ErrSelfFriendship      = errors.New("you cannot add yourself as a friend")
	ErrFriendshipExists    = errors.New("a friendship or pending request already exists")
	ErrFriendshipNotFound  = errors.New("friend request not found")
	ErrNotRequestAddressee = errors.New("only the recipient can accept this request")
	ErrRequestNotPending   = errors.New("friend request is not pending")
)

// invalidInput wraps ErrInvalidInput with a message safe to show to clients
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidationMessage returns the client-facing part of an ErrInvalidInput error
func ValidationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
}
