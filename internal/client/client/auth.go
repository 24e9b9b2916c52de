package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/common"
)

// ErrEmptyToken is returned when login or refresh succeeds without a token.
var ErrEmptyToken = errors.New("server returned no access token")

// AuthAPI calls the authentication endpoints. It must be built on a client
// without the auth interceptor.
type AuthAPI struct {
	c *HTTPClient
}

func NewAuthAPI(c *HTTPClient) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login exchanges credentials for a token pair.
func (a *AuthAPI) Login(ctx context.Context, username string, password []byte) (*models.LoginResponse, error) {
	req := models.LoginRequest{Username: username, Password: string(password)}

	var resp models.LoginResponse
	if err := a.c.Post(ctx, PathLogin, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrEmptyToken
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.c.Post(ctx, PathRefresh, models.RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrEmptyToken
	}
	return &resp, nil
}

// Logout tells the server that accessToken is no longer used.
func (a *AuthAPI) Logout(ctx context.Context, accessToken string) error {
	h := http.Header{}
	h.Set(common.AuthorizationHeaderName, common.BearerValue(accessToken))
	if _, err := a.c.Request(ctx, http.MethodPost, PathLogout, nil, h); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
