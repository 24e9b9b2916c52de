// Package common contains shared constants and helpers used by both the
// bank client and the fake bank server.
package common

// HTTP header names and values used on every API call.
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
	RequestIDHeaderName     = "X-Request-ID"
	ContentTypeHeaderName   = "Content-Type"
	AcceptHeaderName        = "Accept"
	JSONContentType         = "application/json"
)

// BearerValue formats token as an Authorization header value.
func BearerValue(token string) string {
	return BearerScheme + " " + token
}
