package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingTransport_ServesCacheableResponses(t *testing.T) {
	for _, dir := range []string{"", t.TempDir()} {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Cache-Control", "max-age=300")
			_, _ = w.Write([]byte(`{"rate":"0.93"}`))
		}))

		c := NewHTTPClient(srv.URL, WithTransport(NewCachingTransport(dir)))
		for i := 0; i < 3; i++ {
			var out map[string]string
			require.NoError(t, c.Get(context.Background(), ExchangeRatePath("USD", "EUR", "1"), &out))
			assert.Equal(t, "0.93", out["rate"])
		}
		assert.EqualValues(t, 1, hits.Load(), "dir=%q", dir)
		srv.Close()
	}
}

func TestCachingTransport_SkipsUncacheable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithTransport(NewCachingTransport("")))
	require.NoError(t, c.Get(context.Background(), PathAccounts, nil))
	require.NoError(t, c.Get(context.Background(), PathAccounts, nil))
	assert.EqualValues(t, 2, hits.Load())
}

func TestFromCache(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.False(t, FromCache(resp))
	resp.Header.Set("X-From-Cache", "1")
	assert.True(t, FromCache(resp))
}
