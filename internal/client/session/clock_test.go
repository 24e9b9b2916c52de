package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"missing expiry", time.Time{}, true},
		{"in the past", now.Add(-time.Second), true},
		{"exactly now", now, true},
		{"in the future", now.Add(time.Nanosecond), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsExpired(now, tc.expiresAt))
		})
	}
}

func TestIsNearExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	margin := DefaultRefreshMargin
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"missing expiry", time.Time{}, true},
		{"30s left", now.Add(30 * time.Second), true},
		{"exactly margin", now.Add(margin), true},
		{"just beyond margin", now.Add(margin + time.Second), false},
		{"an hour left", now.Add(time.Hour), false},
		{"expired", now.Add(-time.Minute), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsNearExpiry(now, tc.expiresAt, margin))
		})
	}
}

func TestRefreshDelay(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		expiresAt time.Time
		wantDelay time.Duration
		wantOK    bool
	}{
		{"hour token", now.Add(time.Hour), time.Hour - time.Minute, true},
		{"short token", now.Add(30 * time.Second), 15 * time.Second, true},
		{"expired", now.Add(-time.Second), 0, false},
		{"expires now", now, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := refreshDelay(now, tc.expiresAt, time.Minute)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantDelay, d)
		})
	}
}

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "alice"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := tokenExpiry(signedToken(t, &exp))
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))

	_, err = tokenExpiry(signedToken(t, nil))
	require.ErrorIs(t, err, ErrNoExpiry)

	_, err = tokenExpiry("opaque-token")
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "refreshing", RefreshInFlight.String())
	assert.Equal(t, "State(9)", State(9).String())
}
