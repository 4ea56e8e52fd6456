package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidPage      = errors.New("invalid page")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrExpedientMissing = errors.New("expedient does not exist")
)

// isNotFound reports whether err wraps ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
