package errors

import "errors"

// Sentinel errors returned by repositories and services.
// The HTTP layer maps each family to a status code; nothing here is retried.
var (
	ErrValidation = errors.New("invalid input")

	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username taken")

	ErrSelfReference    = errors.New("cannot befriend yourself")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrDuplicateRequest = errors.New("friend request already pending")

	ErrChatNotFound  = errors.New("chat not found")
	ErrNotChatMember = errors.New("user is not a chat participant")

	ErrInvalidMessageType = errors.New("invalid message type")

	ErrSinkFull = errors.New("connection buffer full")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenGeneration    = errors.New("token generation failed")
)
