package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bankcli/internal/common"
)

// Call is one logical API request as seen by interceptors. Body is encoded
// on every attempt, so a retried call sends the same payload again.
type Call struct {
	Method string
	Path   string
	Body   any
	Header http.Header

	// Retried is set by interceptors that re-issue the call, so that a call
	// is never retried twice.
	Retried bool
}

func newCall(method, path string, body any, header http.Header) *Call {
	h := http.Header{}
	for k, v := range header {
		h[k] = append([]string(nil), v...)
	}
	return &Call{Method: method, Path: path, Body: body, Header: h}
}

// SetBearer replaces the Authorization header with the given token.
func (c *Call) SetBearer(token string) {
	c.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
}

// Bearer returns the token currently attached to the call.
func (c *Call) Bearer() string {
	return common.BearerToken(c.Header.Get(common.AuthorizationHeaderName))
}

// Invoker performs a call and returns the raw response body.
type Invoker func(ctx context.Context, call *Call) (json.RawMessage, error)

// Interceptor wraps an Invoker. It may inspect or modify the call before
// invoking next, and inspect, replace or retry after it returns.
type Interceptor func(ctx context.Context, call *Call, next Invoker) (json.RawMessage, error)

func chain(final Invoker, interceptors []Interceptor) Invoker {
	invoker := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], invoker
		invoker = func(ctx context.Context, call *Call) (json.RawMessage, error) {
			return ic(ctx, call, next)
		}
	}
	return invoker
}
