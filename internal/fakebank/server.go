// Package fakebank is an in-memory bank API speaking the same JSON contract
// as the real server. Tests and the demo binary run it on a local port.
package fakebank

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/logging"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour

	shutdownTimeout = 5 * time.Second

	// Seeded demo users are hashed on every start; the minimum cost keeps
	// that fast.
	passwordCost = bcrypt.MinCost
)

// Stats counts calls by kind. Tests use it to assert how often the client
// reached the server.
type Stats struct {
	Logins        int
	Refreshes     int
	Logouts       int
	Registrations int
	Validations   int
	RateLookups   int
	Unauthorized  int
}

type userRecord struct {
	profile      models.UserProfile
	passwordHash []byte
}

type accountRecord struct {
	account models.Account
	ownerID int64
}

// refreshGrant is bound to the access token it was issued with, so logging
// out one session leaves the user's other sessions alone.
type refreshGrant struct {
	userID      int64
	accessToken string
	expiresAt   time.Time
}

type Server struct {
	secret        []byte
	clock         clockwork.Clock
	accessTTL     time.Duration
	refreshTTL    time.Duration
	sendExpiresIn bool
	logger        logging.Logger

	mu       sync.Mutex
	users    map[int64]*userRecord
	accounts map[string]*accountRecord
	order    []string
	txs      []models.Transaction
	refresh  map[string]refreshGrant
	gen      uint64
	nextID   int64
	stats    Stats

	router *mux.Router
}

type Option func(*Server)

func WithClock(c clockwork.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

func WithSecret(secret string) Option {
	return func(s *Server) {
		s.secret = []byte(secret)
	}
}

func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = d
	}
}

func WithRefreshTTL(d time.Duration) Option {
	return func(s *Server) {
		s.refreshTTL = d
	}
}

// WithoutExpiresIn leaves expiresIn out of token responses, so clients
// have to read the expiry from the token itself.
func WithoutExpiresIn() Option {
	return func(s *Server) {
		s.sendExpiresIn = false
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New returns an empty bank. Call Seed for the demo data set.
func New(opts ...Option) *Server {
	s := &Server{
		secret:        []byte("fakebank-secret"),
		clock:         clockwork.NewRealClock(),
		accessTTL:     DefaultAccessTTL,
		refreshTTL:    DefaultRefreshTTL,
		sendExpiresIn: true,
		logger:        logging.Nop(),
		users:         make(map[int64]*userRecord),
		accounts:      make(map[string]*accountRecord),
		refresh:       make(map[string]refreshGrant),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "fakebank")
	s.router = s.routes()
	return s
}

// Handler serves the API under /api.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	listen, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping fake bank server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting fake bank server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ExpireAccessTokens makes every access token issued so far fail with 401.
// Refresh tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

// RevokeRefreshTokens forgets every refresh token, as after a server restart.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = make(map[string]refreshGrant)
}

var (
	errUsernameTaken = errors.New("username already exists")
	errEmailTaken    = errors.New("email already exists")
)

// AddUser registers a user and returns its id. The password is stored as a
// bcrypt hash.
func (s *Server) AddUser(username, password, name, role string, enabled bool) (int64, error) {
	return s.createUser(models.UserProfile{
		Username:  username,
		Name:      name,
		Email:     username + "@fakebank.test",
		Role:      role,
		Enabled:   enabled,
		CreatedAt: models.NewTimestamp(s.clock.Now().Add(-30 * 24 * time.Hour)),
	}, password)
}

// createUser stores p under a new id. Usernames and emails are unique.
func (s *Server) createUser(p models.UserProfile, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return 0, fmt.Errorf("hash password for %s: %w", p.Username, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.profile.Username == p.Username {
			return 0, fmt.Errorf("%w: %s", errUsernameTaken, p.Username)
		}
		if strings.EqualFold(u.profile.Email, p.Email) {
			return 0, fmt.Errorf("%w: %s", errEmailTaken, p.Email)
		}
	}

	s.nextID++
	p.ID = s.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = models.NewTimestamp(s.clock.Now())
	}
	s.users[p.ID] = &userRecord{profile: p, passwordHash: hash}
	return p.ID, nil
}

// AddAccount opens an account for ownerID with the default limits.
func (s *Server) AddAccount(ownerID int64, number, name, accountType, currency string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := models.NewTimestamp(s.clock.Now())
	s.accounts[number] = &accountRecord{
		ownerID: ownerID,
		account: models.Account{
			ID:                    s.nextID,
			AccountNumber:         number,
			AccountName:           name,
			AccountType:           accountType,
			Balance:               balance,
			Currency:              currency,
			DailyTransferLimit:    decimal.NewFromInt(5000),
			DailyWithdrawalLimit:  decimal.NewFromInt(1000),
			SingleTransferLimit:   decimal.NewFromInt(2000),
			SingleWithdrawalLimit: decimal.NewFromInt(500),
			LastLimitResetDate:    now,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
	}
	s.order = append(s.order, number)
}

// Balance returns the balance of an account, for assertions.
func (s *Server) Balance(number string) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[number]
	if !ok {
		return decimal.Zero, false
	}
	return a.account.Balance, true
}
