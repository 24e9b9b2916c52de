package session

import "errors"

var (
	// ErrNotAuthenticated means there is no session to use or refresh.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is joined with the original 401 when the session
	// could not be recovered and the user has been logged out.
	ErrSessionExpired = errors.New("session expired")

	// ErrRefreshFailed wraps the cause of a failed token refresh.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNoExpiry means the server gave neither expiresIn nor a token exp claim.
	ErrNoExpiry = errors.New("token has no expiry")
)

var (
	// ErrClosed is returned by operations started after Manager.Close.
	ErrClosed = errors.New("session manager closed")

	errNoRefreshToken = errors.New("no refresh token")
)
