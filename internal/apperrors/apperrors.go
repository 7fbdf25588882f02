package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the stable error kinds the API surfaces. Callers
// branch with errors.Is; the kinds never change even if messages do.
var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidTitle     = errors.New("invalid title")
	ErrInvalidBlurb     = errors.New("invalid blurb")
	ErrInvalidLink      = errors.New("invalid link")
	ErrInvalidGenre     = errors.New("invalid genre")
)

// AppError carries a kind (one of the sentinels above), a human-readable
// message, and for validation failures the field that caused it.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func AuthRequired() *AppError {
	return &AppError{
		Err:     ErrAuthRequired,
		Message: "Authentication required",
	}
}

func PermissionDenied() *AppError {
	return &AppError{
		Err:     ErrPermissionDenied,
		Message: "You don't have permission to perform this action",
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func InvalidTitle(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidTitle,
		Message: message,
		Field:   "title",
	}
}

func InvalidBlurb(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidBlurb,
		Message: message,
		Field:   "blurb",
	}
}

func InvalidLink(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidLink,
		Message: message,
		Field:   "link",
	}
}

func InvalidGenre(genre string) *AppError {
	return &AppError{
		Err:     ErrInvalidGenre,
		Message: fmt.Sprintf("Invalid genre selected: %s", genre),
		Field:   "genre",
	}
}
