package session

import (
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/bankcli/internal/logging"
	"github.com/jonboulle/clockwork"
)

const (
	defaultRefreshTries  = 3
	defaultLogoutTimeout = 5 * time.Second
)

type Option func(*Manager)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithRefreshMargin sets how long before expiry the token is refreshed.
func WithRefreshMargin(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.margin = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithOnLogout registers f to run after every logout, whether the user asked
// for it or a refresh failed. It runs without the Manager lock held. After a
// failed refresh it runs before any waiting caller gets the error. Replacing
// a session with a new Login does not count as a logout.
func WithOnLogout(f func()) Option {
	return func(m *Manager) {
		m.onLogout = f
	}
}

// WithRefreshBackOff sets the retry policy for refresh calls that fail with
// a connection error. f is called once per refresh.
func WithRefreshBackOff(f func() backoff.BackOff) Option {
	return func(m *Manager) {
		m.newBackOff = f
	}
}

// WithRefreshTries caps the attempts of one refresh, the first one included.
func WithRefreshTries(n uint) Option {
	return func(m *Manager) {
		if n > 0 {
			m.refreshTries = n
		}
	}
}

// WithLogoutTimeout bounds the background logout notification.
func WithLogoutTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.logoutTimeout = d
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
