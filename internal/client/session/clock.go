package session

import "time"

// DefaultRefreshMargin is how long before expiry a token counts as near expiry.
const DefaultRefreshMargin = 60 * time.Second

// IsExpired reports whether a token expiring at expiresAt is unusable at now.
// A missing expiry counts as expired.
func IsExpired(now, expiresAt time.Time) bool {
	return expiresAt.IsZero() || !now.Before(expiresAt)
}

// IsNearExpiry reports whether expiresAt is within margin of now.
func IsNearExpiry(now, expiresAt time.Time, margin time.Duration) bool {
	return expiresAt.IsZero() || expiresAt.Sub(now) <= margin
}

// refreshDelay returns when the proactive refresh should fire, or false when
// the token is already expired and recovery is left to the 401 path. Tokens
// that live shorter than margin refresh at half their remaining lifetime so a
// short-lived token cannot cause back-to-back refreshes.
func refreshDelay(now, expiresAt time.Time, margin time.Duration) (time.Duration, bool) {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return 0, false
	}
	if d := remaining - margin; d > 0 {
		return d, true
	}
	return remaining / 2, true
}
