// Package services contains the application services of the bank client.
// Each service checks that a session exists before touching the network and
// issues its calls through the authenticated transport.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/bankcli/internal/client/session"
)

var (
	// ErrInvalidInput is returned before any I/O when arguments are unusable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserNotFound is returned when a user lookup comes back empty.
	ErrUserNotFound = errors.New("user not found")
)

// Requester issues API calls. The client built with the auth interceptor
// satisfies it.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// SessionGate reports whether a session exists, expired or not.
type SessionGate interface {
	HasSession() bool
}

func checkSession(g SessionGate) error {
	if !g.HasSession() {
		return session.ErrNotAuthenticated
	}
	return nil
}
