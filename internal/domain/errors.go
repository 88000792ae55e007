package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidAmount    = errors.New("credit amount must be positive")
	ErrPermissionDenied = errors.New("permission denied")
)
