package fakebank

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/common"
	"golang.org/x/crypto/bcrypt"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, u *userRecord)

// authenticated resolves the bearer token to a user or answers 401.
// The wrapped handler runs with s.mu held.
func (s *Server) authenticated(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))

		s.mu.Lock()
		defer s.mu.Unlock()

		if token == "" {
			s.unauthorizedLocked(w, r, "Full authentication is required to access this resource")
			return
		}

		claims, err := parseToken(token, s.secret, s.clock.Now)
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			s.unauthorizedLocked(w, r, "JWT token has expired")
			return
		case err != nil:
			s.unauthorizedLocked(w, r, "Invalid JWT token")
			return
		case claims.Gen < s.gen:
			s.unauthorizedLocked(w, r, "JWT token has expired")
			return
		}

		u, ok := s.users[claims.UserID]
		if !ok || !u.profile.Enabled {
			s.unauthorizedLocked(w, r, "User account is disabled or missing")
			return
		}

		h(w, r, u)
	}
}

func (s *Server) unauthorizedLocked(w http.ResponseWriter, r *http.Request, message string) {
	s.stats.Unauthorized++
	s.writeError(w, r, http.StatusUnauthorized, message)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Logins++

	u := s.userByNameLocked(req.Username)
	if u == nil || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		s.unauthorizedLocked(w, r, "Invalid username or password")
		return
	}
	if !u.profile.Enabled {
		s.unauthorizedLocked(w, r, "User account is disabled")
		return
	}

	s.issueTokensLocked(w, r, u)
}

// register creates an enabled customer. Registering does not log in.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Username == "" || req.Password == "" || req.Name == "" || !strings.Contains(req.Email, "@") {
		s.writeError(w, r, http.StatusBadRequest, "Validation failed")
		return
	}

	id, err := s.createUser(models.UserProfile{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Role:     models.RoleUser,
		Enabled:  true,
	}, req.Password)
	switch {
	case errors.Is(err, errUsernameTaken):
		s.writeError(w, r, http.StatusConflict, "Username already exists: "+req.Username)
		return
	case errors.Is(err, errEmailTaken):
		s.writeError(w, r, http.StatusConflict, "Email already exists: "+req.Email)
		return
	case err != nil:
		s.writeError(w, r, http.StatusBadRequest, "Validation failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Registrations++
	writeJSON(w, http.StatusCreated, s.profileLocked(s.users[id], false))
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		s.writeError(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Refreshes++

	grant, ok := s.refresh[req.RefreshToken]
	// Refresh tokens are single use.
	delete(s.refresh, req.RefreshToken)
	if !ok || !s.clock.Now().Before(grant.expiresAt) {
		s.unauthorizedLocked(w, r, "Invalid or expired refresh token")
		return
	}

	u, ok := s.users[grant.userID]
	if !ok || !u.profile.Enabled {
		s.unauthorizedLocked(w, r, "User account is disabled or missing")
		return
	}

	s.issueTokensLocked(w, r, u)
}

func (s *Server) issueTokensLocked(w http.ResponseWriter, r *http.Request, u *userRecord) {
	now := s.clock.Now()

	access, err := generateToken(u.profile.ID, u.profile.Username, s.gen, s.secret, now, s.accessTTL)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Could not issue token")
		return
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Could not issue token")
		return
	}
	s.refresh[refresh] = refreshGrant{userID: u.profile.ID, accessToken: access, expiresAt: now.Add(s.refreshTTL)}

	resp := models.LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         s.profileLocked(u, true),
	}
	if s.sendExpiresIn {
		resp.ExpiresIn = int64(s.accessTTL / time.Second)
	}
	writeJSON(w, http.StatusOK, resp)
}

// logout drops the refresh token issued together with the caller's access
// token. It always succeeds, even for a token that is expired or unknown.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Logouts++

	if token != "" {
		for k, g := range s.refresh {
			if g.accessToken == token {
				delete(s.refresh, k)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) validate(w http.ResponseWriter, _ *http.Request, u *userRecord) {
	s.stats.Validations++
	writeJSON(w, http.StatusOK, s.profileLocked(u, true))
}

func (s *Server) userByNameLocked(username string) *userRecord {
	for _, u := range s.users {
		if u.profile.Username == username {
			return u
		}
	}
	return nil
}

// profileLocked copies the profile, optionally with the user's accounts.
func (s *Server) profileLocked(u *userRecord, withAccounts bool) *models.UserProfile {
	p := u.profile
	p.Accounts = nil
	if withAccounts {
		p.Accounts = s.accountsOfLocked(u.profile.ID)
	}
	return &p
}

func (s *Server) accountsOfLocked(userID int64) []models.Account {
	var out []models.Account
	for _, n := range s.order {
		if a := s.accounts[n]; a.ownerID == userID {
			out = append(out, a.account)
		}
	}
	return out
}
