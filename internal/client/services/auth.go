package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
)

// Sessions is the part of the session manager the auth service drives.
type Sessions interface {
	SessionGate
	Login(ctx context.Context, username string, password []byte) (*models.UserProfile, error)
	Logout(ctx context.Context) error
	ValidateSession(ctx context.Context) (*models.UserProfile, bool)
	IsLoggedIn() bool
	CurrentUser() *models.UserProfile
	Close(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a customer; it does not log in.
//   - Login: authenticate and persist the session; returns the user.
//   - Logout: end the session locally and tell the server; idempotent.
//   - Validate: the cached user if the session is usable, refreshing first
//     when it is about to expire.
//   - Profile: the server's view of the current user.
//   - IsLoggedIn / CurrentUser: local checks, no I/O.
//   - Close: stop background work of the session.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	Login(ctx context.Context, username string, password []byte) (*models.UserProfile, error)
	Logout(ctx context.Context) error
	Validate(ctx context.Context) (*models.UserProfile, bool)
	Profile(ctx context.Context) (*models.UserProfile, error)
	IsLoggedIn() bool
	CurrentUser() *models.UserProfile
	Close(ctx context.Context) error
}

type authService struct {
	sessions Sessions
	api      Requester
}

// NewAuthService binds the service to the session manager and the
// authenticated transport.
func NewAuthService(sessions Sessions, api Requester) AuthService {
	return &authService{sessions: sessions, api: api}
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Username == "" || req.Password == "":
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	case req.Name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !strings.Contains(req.Email, "@"):
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	var u models.UserProfile
	if err := a.api.Post(ctx, client.PathRegister, req, &u); err != nil {
		return nil, fmt.Errorf("register %s: %w", req.Username, err)
	}
	return &u, nil
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.UserProfile, error) {
	if username == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	return a.sessions.Login(ctx, username, password)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx)
}

func (a *authService) Validate(ctx context.Context) (*models.UserProfile, bool) {
	return a.sessions.ValidateSession(ctx)
}

// Profile asks the server who the token belongs to. The session's cached
// user is left alone.
func (a *authService) Profile(ctx context.Context) (*models.UserProfile, error) {
	if err := checkSession(a.sessions); err != nil {
		return nil, err
	}
	var u models.UserProfile
	if err := a.api.Get(ctx, client.PathValidate, &u); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &u, nil
}

func (a *authService) IsLoggedIn() bool {
	return a.sessions.IsLoggedIn()
}

func (a *authService) CurrentUser() *models.UserProfile {
	return a.sessions.CurrentUser()
}

func (a *authService) Close(ctx context.Context) error {
	return a.sessions.Close(ctx)
}
