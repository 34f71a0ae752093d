package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/learnjournal/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a non-success response. Message is the server's {"error"}
// text, or the status line when the body carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap lets callers match the common sentinels with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusBadRequest:
		return common.ErrValidation
	}
	return nil
}
