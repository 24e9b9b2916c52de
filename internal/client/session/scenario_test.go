package session

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/fakebank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liveStack struct {
	bank    *fakebank.Server
	ts      *httptest.Server
	m       *Manager
	api     *client.HTTPClient
	store   Store
	logouts atomic.Int32
}

func newLiveStack(t *testing.T, store Store, bankOpts []fakebank.Option, opts ...Option) *liveStack {
	t.Helper()

	st := &liveStack{bank: fakebank.New(bankOpts...), store: store}
	st.bank.Seed()
	st.ts = httptest.NewServer(st.bank.Handler())
	t.Cleanup(st.ts.Close)

	if st.store == nil {
		st.store = NewMemoryStore()
	}
	st.m = st.newManager(t, opts...)
	st.api = client.NewHTTPClient(st.ts.URL+"/api", client.WithTimeout(2*time.Second)).
		WithInterceptors(NewAuthInterceptor(st.m, nil).Intercept)
	return st
}

func (st *liveStack) newManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	raw := client.NewHTTPClient(st.ts.URL+"/api", client.WithTimeout(2*time.Second))
	base := []Option{
		WithRefreshBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
		WithOnLogout(func() { st.logouts.Add(1) }),
	}
	m := NewManager(client.NewAuthAPI(raw), st.store, append(base, opts...)...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, m.Close(ctx))
	})
	return m
}

func (st *liveStack) login(t *testing.T) {
	t.Helper()
	_, err := st.m.Login(context.Background(), fakebank.DemoUser, []byte(fakebank.DemoPassword))
	require.NoError(t, err)
}

func TestScenario_LoginPersistsSession(t *testing.T) {
	db := newTestDB(t)
	st := newLiveStack(t, NewMetadataStore(db), nil)

	before := time.Now()
	user, err := st.m.Login(context.Background(), fakebank.DemoUser, []byte(fakebank.DemoPassword))
	require.NoError(t, err)
	assert.Equal(t, fakebank.DemoUser, user.Username)
	assert.True(t, st.m.IsLoggedIn())

	s := st.m.Session()
	assert.WithinDuration(t, before.Add(fakebank.DefaultAccessTTL), s.ExpiresAt, 5*time.Second)

	// A second process on the same database picks the session up.
	next := st.newManager(t)
	found, err := next.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, s.AccessToken, next.AccessToken())
	assert.Equal(t, fakebank.DemoUser, next.CurrentUser().Username)
}

func TestScenario_ExpiryFromTokenClaim(t *testing.T) {
	st := newLiveStack(t, nil, []fakebank.Option{fakebank.WithoutExpiresIn()})

	before := time.Now()
	st.login(t)
	assert.WithinDuration(t, before.Add(fakebank.DefaultAccessTTL), st.m.Session().ExpiresAt, 5*time.Second)
}

func TestScenario_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	st := newLiveStack(t, nil, nil)
	st.login(t)
	old := st.m.AccessToken()
	st.bank.ExpireAccessTokens()

	const requests = 5
	var wg sync.WaitGroup
	errs := make([]error, requests)
	pages := make([]models.AccountsPage, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.api.Get(context.Background(), client.PathAccounts, &pages[i])
		}(i)
	}
	wg.Wait()

	for i := 0; i < requests; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, pages[i].Accounts, 2)
	}
	stats := st.bank.Stats()
	assert.Equal(t, 1, stats.Refreshes)
	assert.GreaterOrEqual(t, stats.Unauthorized, 1)
	assert.NotEqual(t, old, st.m.AccessToken())
}

func TestScenario_RevokedRefreshTokenLogsOut(t *testing.T) {
	st := newLiveStack(t, nil, nil)
	st.login(t)
	st.bank.ExpireAccessTokens()
	st.bank.RevokeRefreshTokens()

	var page models.AccountsPage
	err := st.api.Get(context.Background(), client.PathAccounts, &page)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	assert.Equal(t, Anonymous, st.m.State())
	assert.False(t, st.m.IsLoggedIn())
	assert.EqualValues(t, 1, st.logouts.Load())

	stored, err := st.store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestScenario_ValidateNearExpiryRefreshes(t *testing.T) {
	st := newLiveStack(t, nil, []fakebank.Option{fakebank.WithAccessTTL(30 * time.Second)})
	st.login(t)
	old := st.m.AccessToken()

	user, ok := st.m.ValidateSession(context.Background())
	require.True(t, ok)
	assert.Equal(t, fakebank.DemoUser, user.Username)
	assert.Equal(t, 1, st.bank.Stats().Refreshes)
	assert.NotEqual(t, old, st.m.AccessToken())
}

func TestScenario_UnreachableServerKeepsSession(t *testing.T) {
	st := newLiveStack(t, nil, nil)
	st.login(t)
	token := st.m.AccessToken()
	st.ts.Close()

	var page models.AccountsPage
	err := st.api.Get(context.Background(), client.PathAccounts, &page)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, 0, client.StatusCode(err))

	assert.True(t, st.m.IsLoggedIn())
	assert.Equal(t, token, st.m.AccessToken())
	assert.Equal(t, Authenticated, st.m.State())
}

func TestScenario_LogoutNotifiesServer(t *testing.T) {
	st := newLiveStack(t, nil, nil)
	st.login(t)
	refreshToken := st.m.Session().RefreshToken

	require.NoError(t, st.m.Logout(context.Background()))
	assert.Equal(t, Anonymous, st.m.State())
	require.Eventually(t, func() bool { return st.bank.Stats().Logouts == 1 }, 2*time.Second, 5*time.Millisecond)

	// The server forgot the refresh token.
	auth := client.NewAuthAPI(client.NewHTTPClient(st.ts.URL + "/api"))
	_, err := auth.Refresh(context.Background(), refreshToken)
	require.ErrorIs(t, err, client.ErrUnauthorized)
}
