package models

import "time"

// Session is the authenticated state of the client.
//
// AccessToken and ExpiresAt are always set together. User is a cache of the
// profile returned at login and is never authoritative.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *UserProfile
}

// Complete reports whether the session carries both a token and its expiry.
func (s *Session) Complete() bool {
	return s != nil && s.AccessToken != "" && !s.ExpiresAt.IsZero()
}

// Clone returns a deep copy so callers cannot mutate the manager's state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		u.Accounts = append([]Account(nil), s.User.Accounts...)
		c.User = &u
	}
	return &c
}
