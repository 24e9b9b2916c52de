package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/logging"
	"github.com/jonboulle/clockwork"
)

type State int

const (
	Anonymous State = iota
	Authenticated
	RefreshInFlight
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case RefreshInFlight:
		return "refreshing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Authenticator is the part of the auth API the Manager calls. It must not
// go through the auth interceptor.
type Authenticator interface {
	Login(ctx context.Context, username string, password []byte) (*models.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

// Manager owns the session. It is safe for concurrent use.
//
// All state lives behind mu. Network calls never run under mu; store writes
// do, so memory and the Store change together.
type Manager struct {
	auth          Authenticator
	store         Store
	clock         clockwork.Clock
	margin        time.Duration
	logger        logging.Logger
	onLogout      func()
	newBackOff    func() backoff.BackOff
	refreshTries  uint
	logoutTimeout time.Duration

	mu         sync.Mutex
	session    *models.Session
	gen        uint64 // bumped whenever session is replaced or cleared
	refreshing bool
	queue      RefreshQueue
	timer      clockwork.Timer
	closed     bool

	wg sync.WaitGroup
}

func NewManager(auth Authenticator, store Store, opts ...Option) *Manager {
	m := &Manager{
		auth:          auth,
		store:         store,
		clock:         clockwork.NewRealClock(),
		margin:        DefaultRefreshMargin,
		logger:        logging.Nop(),
		newBackOff:    defaultBackOff,
		refreshTries:  defaultRefreshTries,
		logoutTimeout: defaultLogoutTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login authenticates, persists the new session and schedules its refresh.
func (m *Manager) Login(ctx context.Context, username string, password []byte) (*models.UserProfile, error) {
	resp, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	s, err := m.newSession(resp, nil)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if err := m.store.Save(ctx, s); err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("save session: %w", err)
	}
	var replaced string
	if m.session != nil && m.session.AccessToken != s.AccessToken {
		replaced = m.session.AccessToken
	}
	m.installLocked(s)
	user := s.Clone().User
	m.mu.Unlock()

	m.logger.Info(ctx, "logged in", "user", username, "expires_at", s.ExpiresAt)
	if replaced != "" {
		// The old session is gone but was never logged out on the server.
		m.notifyInBackground(replaced)
	}
	return user, nil
}

// Logout ends the session. Local state is cleared first; the server is told
// in the background and its answer is ignored. Logging out while anonymous
// does nothing.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil
	}
	token, err := m.clearLocked(ctx)
	m.mu.Unlock()

	m.logger.Info(ctx, "logged out")
	m.afterLogout(token)
	return err
}

// Restore loads a persisted session, if any, and reports whether one was found.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	m.installLocked(s)

	m.logger.Debug(ctx, "session restored", "expires_at", s.ExpiresAt)
	return true, nil
}

// RefreshToken returns a new access token. If a refresh is already running
// the caller waits for it instead of starting another one. The refresh itself
// is not cancelled by ctx; only this caller's wait is.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	done := make(chan refreshResult, 1)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}
	if m.session == nil {
		m.mu.Unlock()
		return "", ErrNotAuthenticated
	}
	m.queue.Push(func(token string, err error) {
		done <- refreshResult{token: token, err: err}
	})
	if !m.refreshing {
		m.refreshing = true
		m.wg.Add(1)
		go m.refresh(context.WithoutCancel(ctx), m.session.Clone(), m.gen)
	} else {
		m.logger.Debug(ctx, "waiting for refresh in flight", "queued", m.queue.Len())
	}
	m.mu.Unlock()

	select {
	case r := <-done:
		return r.token, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type refreshResult struct {
	token string
	err   error
}

func (m *Manager) refresh(ctx context.Context, prev *models.Session, gen uint64) {
	defer m.wg.Done()

	s, err := m.requestRefresh(ctx, prev)

	m.mu.Lock()

	if gen != m.gen {
		// Login or logout won the race; the result belongs to a session that is gone.
		token, qerr := "", error(ErrNotAuthenticated)
		if m.session != nil {
			token, qerr = m.session.AccessToken, nil
		}
		m.finishRefreshLocked(token, qerr)
		m.mu.Unlock()
		return
	}

	if err == nil {
		if serr := m.store.Save(ctx, s); serr != nil {
			err = fmt.Errorf("save session: %w", serr)
		}
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		// Waiters resume only after onLogout has run.
		waiters := m.queue.Detach()
		m.refreshing = false
		token, cerr := m.clearLocked(ctx)
		m.mu.Unlock()

		m.logger.Warn(ctx, "session ended after failed refresh", "error", err.Error())
		if cerr != nil {
			m.logger.Error(ctx, "failed to clear stored session", "error", cerr.Error())
		}
		m.afterLogout(token)
		waiters.Drain("", err)
		return
	}

	m.installLocked(s)
	m.finishRefreshLocked(s.AccessToken, nil)
	m.mu.Unlock()

	m.logger.Debug(ctx, "access token refreshed", "expires_at", s.ExpiresAt)
}

func (m *Manager) requestRefresh(ctx context.Context, prev *models.Session) (*models.Session, error) {
	if prev.RefreshToken == "" {
		return nil, errNoRefreshToken
	}

	resp, err := retryUnavailable(ctx, m.newBackOff(), m.refreshTries, func() (*models.LoginResponse, error) {
		return m.auth.Refresh(ctx, prev.RefreshToken)
	})
	if err != nil {
		return nil, err
	}
	return m.newSession(resp, prev)
}

// retryUnavailable retries op while it fails with a connection error.
// Any other error stops the retries at once.
func retryUnavailable[T any](ctx context.Context, b backoff.BackOff, tries uint, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		res, err := op()
		if err != nil && !errors.Is(err, client.ErrUnavailable) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(tries))
}

func (m *Manager) finishRefreshLocked(token string, err error) {
	m.queue.Drain(token, err)
	m.refreshing = false
}

func (m *Manager) newSession(resp *models.LoginResponse, prev *models.Session) (*models.Session, error) {
	var expiresAt time.Time
	if resp.ExpiresIn > 0 {
		expiresAt = m.clock.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	} else {
		exp, err := tokenExpiry(resp.Token)
		if err != nil {
			return nil, err
		}
		expiresAt = exp
	}

	s := &models.Session{
		AccessToken:  resp.Token,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         resp.User,
	}
	if prev != nil {
		if s.RefreshToken == "" {
			s.RefreshToken = prev.RefreshToken
		}
		if s.User == nil {
			s.User = prev.User
		}
	}
	return s, nil
}

func (m *Manager) installLocked(s *models.Session) {
	m.session = s
	m.gen++
	m.armTimerLocked()
}

func (m *Manager) clearLocked(ctx context.Context) (string, error) {
	token := m.session.AccessToken
	m.stopTimerLocked()
	m.session = nil
	m.gen++

	if err := m.store.Clear(ctx); err != nil {
		return token, fmt.Errorf("clear session: %w", err)
	}
	return token, nil
}

func (m *Manager) afterLogout(token string) {
	m.notifyInBackground(token)
	if m.onLogout != nil {
		m.onLogout()
	}
}

// notifyInBackground tells the server that token is no longer in use.
// Nothing is sent once the Manager is closed.
func (m *Manager) notifyInBackground(token string) {
	m.mu.Lock()
	notify := !m.closed
	if notify {
		m.wg.Add(1)
	}
	m.mu.Unlock()

	if notify {
		go m.notifyLogout(token)
	}
}

func (m *Manager) notifyLogout(token string) {
	defer m.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), m.logoutTimeout)
	defer cancel()

	_, err := retryUnavailable(ctx, m.newBackOff(), 2, func() (struct{}, error) {
		return struct{}{}, m.auth.Logout(ctx, token)
	})
	if err != nil {
		m.logger.Debug(ctx, "logout notification failed", "error", err.Error())
	}
}

func (m *Manager) armTimerLocked() {
	m.stopTimerLocked()
	if m.session == nil || m.closed {
		return
	}

	d, ok := refreshDelay(m.clock.Now(), m.session.ExpiresAt, m.margin)
	if !ok {
		return
	}
	gen := m.gen
	m.timer = m.clock.AfterFunc(d, func() { m.proactiveRefresh(gen) })
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) proactiveRefresh(gen uint64) {
	m.mu.Lock()
	current := gen == m.gen && m.session != nil && !m.closed
	m.mu.Unlock()
	if !current {
		return
	}

	ctx := context.Background()
	if _, err := m.RefreshToken(ctx); err != nil {
		m.logger.Warn(ctx, "proactive refresh failed", "error", err.Error())
	}
}

// ValidateSession returns the cached user when the session is valid and not
// near expiry. Near expiry it refreshes first; if that fails the user has
// been logged out and (nil, false) is returned.
func (m *Manager) ValidateSession(ctx context.Context) (*models.UserProfile, bool) {
	m.mu.Lock()
	s := m.session
	if s == nil {
		m.mu.Unlock()
		return nil, false
	}
	near := IsNearExpiry(m.clock.Now(), s.ExpiresAt, m.margin)
	user := s.Clone().User
	m.mu.Unlock()

	if !near {
		return user, true
	}

	if _, err := m.RefreshToken(ctx); err != nil {
		m.logger.Debug(ctx, "session validation failed", "error", err.Error())
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, false
	}
	return m.session.Clone().User, true
}

// IsLoggedIn reports whether a token is present and not expired. No I/O.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && !IsExpired(m.clock.Now(), m.session.ExpiresAt)
}

// HasSession reports whether a token is present, expired or not. Domain
// calls gate on this so that an expired token still reaches the server and
// gets refreshed on 401.
func (m *Manager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// AccessToken returns the current token or "". No I/O.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// CurrentUser returns a copy of the cached profile, or nil when anonymous.
func (m *Manager) CurrentUser() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	return m.session.Clone().User
}

// Session returns a copy of the current session, or nil.
func (m *Manager) Session() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Clone()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.session == nil:
		return Anonymous
	case m.refreshing:
		return RefreshInFlight
	default:
		return Authenticated
	}
}

// Close stops the refresh timer and waits for background work: running
// refreshes and logout notifications.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.stopTimerLocked()
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
