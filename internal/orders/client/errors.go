package client

import (
	"fmt"
	"net/http"

	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

// APIError is a non-success answer from the list API. It unwraps to the
// ports sentinel matching its status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("orders api: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ports.ErrInvalidInput
	case http.StatusNotFound:
		return ports.ErrNotFound
	default:
		return ports.ErrUnavailable
	}
}
