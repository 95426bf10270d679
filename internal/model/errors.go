package model

import "errors"

var (
	// Session/credential related errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrSessionExpired = errors.New("session expired")

	// Directory related errors
	ErrUserNotFound   = errors.New("user not found")
	ErrRoleNotFound   = errors.New("role not found")
	ErrPageOutOfRange = errors.New("page out of range")

	// Mutation related errors
	ErrDuplicateUser = errors.New("user already exists")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
