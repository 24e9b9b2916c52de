package models

// Role values assigned by the bank.
const (
	RoleUser     = "USER"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// UserProfile is the authenticated user as returned by login and validate.
// The session keeps a cached copy; the server stays authoritative.
type UserProfile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt Timestamp `json:"createdAt,omitzero"`
	Accounts  []Account `json:"accounts,omitempty"`
}

// DisplayName returns Name, falling back to Username.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// IsStaff reports whether the user may browse other users.
func (u *UserProfile) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleEmployee)
}

// UsersPage is the envelope of the user listing endpoints.
type UsersPage struct {
	Users []UserProfile `json:"users"`
}
