package client

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingTransport returns a round tripper that honors HTTP caching headers.
// Responses are kept in memory, or under dir when it is not empty. Only
// responses the server marks cacheable are stored, which for the bank API
// means exchange rates.
func NewCachingTransport(dir string) http.RoundTripper {
	var cache httpcache.Cache
	if dir != "" {
		cache = diskcache.New(dir)
	} else {
		cache = httpcache.NewMemoryCache()
	}

	t := httpcache.NewTransport(cache)
	t.MarkCachedResponses = true
	return t
}

// FromCache reports whether resp was served by NewCachingTransport.
func FromCache(resp *http.Response) bool {
	return resp.Header.Get(httpcache.XFromCache) == "1"
}
