package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/logging"
)

// TokenSource is what the interceptor needs from the Manager.
type TokenSource interface {
	AccessToken() string
	RefreshToken(ctx context.Context) (string, error)
}

// AuthInterceptor attaches the bearer token to outgoing calls and recovers
// from 401 responses by refreshing the token and retrying once.
type AuthInterceptor struct {
	tokens TokenSource
	logger logging.Logger
}

func NewAuthInterceptor(tokens TokenSource, logger logging.Logger) *AuthInterceptor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AuthInterceptor{tokens: tokens, logger: logger}
}

// PrepareRequest sets the Authorization header when a token is present.
func (a *AuthInterceptor) PrepareRequest(call *client.Call) {
	if token := a.tokens.AccessToken(); token != "" {
		call.SetBearer(token)
	}
}

// HandleResponse inspects the outcome of a call. Anything but a 401 passes
// through. A 401 on a call that was already retried is returned as is.
// Otherwise the call is re-issued once with a fresh token, refreshing first
// unless another call already did; when the refresh fails the 401 is
// returned joined with ErrSessionExpired.
func (a *AuthInterceptor) HandleResponse(ctx context.Context, call *client.Call, raw json.RawMessage, err error, next client.Invoker) (json.RawMessage, error) {
	if err == nil || !errors.Is(err, client.ErrUnauthorized) {
		return raw, err
	}
	if call.Retried {
		return nil, err
	}

	// A refresh finished while this call was in flight; its token is enough.
	if current := a.tokens.AccessToken(); current != "" && current != call.Bearer() {
		call.Retried = true
		call.SetBearer(current)
		return next(ctx, call)
	}

	token, rerr := a.tokens.RefreshToken(ctx)
	if rerr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a.logger.Warn(ctx, "request unauthorized and session not recoverable",
			"method", call.Method, "path", call.Path, "error", rerr.Error())
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	call.Retried = true
	call.SetBearer(token)
	return next(ctx, call)
}

// Intercept combines both hooks into a client.Interceptor.
func (a *AuthInterceptor) Intercept(ctx context.Context, call *client.Call, next client.Invoker) (json.RawMessage, error) {
	a.PrepareRequest(call)
	raw, err := next(ctx, call)
	return a.HandleResponse(ctx, call, raw, err, next)
}
