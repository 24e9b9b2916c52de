package models

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of the registration call. New users get the
// USER role and start enabled.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of the refresh call.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is returned by login and refresh. ExpiresIn is in seconds;
// zero means the server did not say and the token's own expiry applies.
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	ExpiresIn    int64        `json:"expiresIn,omitempty"`
	User         *UserProfile `json:"user,omitempty"`
}

// APIError is the error body produced by the bank API.
type APIError struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp,omitzero"`
	Path      string    `json:"path,omitempty"`
}
