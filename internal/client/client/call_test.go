package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_RunsInterceptorsInOrder(t *testing.T) {
	var order []string

	mk := func(name string) Interceptor {
		return func(ctx context.Context, call *Call, next Invoker) (json.RawMessage, error) {
			order = append(order, name+":before")
			raw, err := next(ctx, call)
			order = append(order, name+":after")
			return raw, err
		}
	}
	final := func(ctx context.Context, call *Call) (json.RawMessage, error) {
		order = append(order, "send")
		return json.RawMessage(`{}`), nil
	}

	_, err := chain(final, []Interceptor{mk("a"), mk("b")})(context.Background(), newCall(http.MethodGet, "/x", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a:before", "b:before", "send", "b:after", "a:after"}, order)
}

func TestChain_NoInterceptors(t *testing.T) {
	called := false
	final := func(ctx context.Context, call *Call) (json.RawMessage, error) {
		called = true
		return nil, nil
	}
	_, err := chain(final, nil)(context.Background(), newCall(http.MethodGet, "/x", nil, nil))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestCall_Bearer(t *testing.T) {
	c := newCall(http.MethodGet, "/x", nil, nil)
	assert.Equal(t, "", c.Bearer())

	c.SetBearer("T1")
	assert.Equal(t, "Bearer T1", c.Header.Get("Authorization"))
	c.SetBearer("T2")
	assert.Equal(t, "T2", c.Bearer())
	assert.Len(t, c.Header.Values("Authorization"), 1)
}

func TestNewCall_CopiesHeader(t *testing.T) {
	h := http.Header{}
	h.Set("X-Test", "1")
	c := newCall(http.MethodGet, "/x", nil, h)
	c.Header.Set("X-Test", "2")
	assert.Equal(t, "1", h.Get("X-Test"))
}
