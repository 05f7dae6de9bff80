package ports

import "errors"

var (
	// ErrInvalidInput is returned when a required field is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when no order matches the requested id.
	ErrNotFound = errors.New("order not found")
	// ErrUnavailable is returned when the underlying store fails.
	ErrUnavailable = errors.New("store unavailable")
)

// ErrorKind classifies failures surfaced by the order operations.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindNotFound     ErrorKind = "not_found"
	KindUnavailable  ErrorKind = "unavailable"
	KindUnknown      ErrorKind = "unknown"
)

// Kind reports which taxonomy bucket err belongs to.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindUnknown
	}
}
