package cli

import (
	"errors"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/services"
	"github.com/dmitrijs2005/bankcli/internal/client/session"
)

// userError presents err in terms a terminal user can act on while keeping
// it matchable with errors.Is.
type userError struct {
	err error
}

func (e *userError) Error() string { return describe(e.err) }
func (e *userError) Unwrap() error { return e.err }

func friendly(err error) error {
	if err == nil {
		return nil
	}
	return &userError{err: err}
}

func describe(err error) string {
	var te *client.TransportError
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		return "your session has expired, please log in again"
	case errors.Is(err, session.ErrNotAuthenticated):
		return "not logged in, use 'login' first"
	case errors.Is(err, client.ErrUnavailable):
		return "the bank is unreachable, try again later"
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrUserNotFound):
		return err.Error()
	case errors.As(err, &te) && te.Message != "":
		return te.Message
	}
	return err.Error()
}
