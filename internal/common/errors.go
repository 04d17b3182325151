package common

import "errors"

// Error taxonomy shared by the backend packages. Call sites wrap these with
// fmt.Errorf("...: %w", ...) and the HTTP layer maps them with errors.Is.
var (
	// ErrValidation marks missing or empty required input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown question id or a missing file.
	ErrNotFound = errors.New("not found")
	// ErrDataSource marks a malformed or missing catalog source. Fatal at startup.
	ErrDataSource = errors.New("data source error")
	// ErrNotification marks a failed best-effort notification.
	ErrNotification = errors.New("notification error")
)
