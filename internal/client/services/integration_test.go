package services

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/client/session"
	"github.com/dmitrijs2005/bankcli/internal/fakebank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wired struct {
	bank     *fakebank.Server
	auth     AuthService
	accounts AccountService
	txs      TransactionService
	users    UserService
}

func newWired(t *testing.T) *wired {
	t.Helper()
	bank := fakebank.New()
	bank.Seed()
	ts := httptest.NewServer(bank.Handler())
	t.Cleanup(ts.Close)

	raw := client.NewHTTPClient(ts.URL+"/api", client.WithTimeout(2*time.Second))
	m := session.NewManager(client.NewAuthAPI(raw), session.NewMemoryStore())
	api := raw.WithInterceptors(session.NewAuthInterceptor(m, nil).Intercept)

	w := &wired{
		bank:     bank,
		auth:     NewAuthService(m, api),
		accounts: NewAccountService(api, m),
		txs:      NewTransactionService(api, m),
		users:    NewUserService(api, m, 0),
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, w.auth.Close(ctx))
	})
	return w
}

func TestWired_CustomerJourney(t *testing.T) {
	ctx := context.Background()
	w := newWired(t)

	_, err := w.accounts.GetAll(ctx)
	require.ErrorIs(t, err, session.ErrNotAuthenticated)

	_, err = w.auth.Login(ctx, fakebank.DemoUser, []byte(fakebank.DemoPassword))
	require.NoError(t, err)

	accounts, err := w.accounts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	// The token goes stale mid-session; the next call recovers on its own.
	w.bank.ExpireAccessTokens()

	resp, err := w.txs.Transfer(ctx, models.TransferRequest{
		FromAccount: fakebank.AliceMain,
		ToAccount:   fakebank.BobMain,
		Amount:      decimal.NewFromInt(25),
		Description: "Coffee",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, 1, w.bank.Stats().Refreshes)

	history, err := w.txs.ByAccount(ctx, fakebank.AliceMain)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", history[0].Description)

	profile, err := w.auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, fakebank.DemoUser, profile.Username)

	_, err = w.users.FirstPage(ctx)
	require.ErrorIs(t, err, client.ErrForbidden)

	require.NoError(t, w.auth.Logout(ctx))
	_, err = w.accounts.GetAll(ctx)
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestWired_StaffJourney(t *testing.T) {
	ctx := context.Background()
	w := newWired(t)

	_, err := w.auth.Login(ctx, fakebank.StaffUser, []byte(fakebank.StaffPassword))
	require.NoError(t, err)

	users, err := w.users.FirstPage(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	disabled, err := w.users.DisabledByPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, disabled, 1)

	enabled, err := w.users.Enable(ctx, disabled[0].ID)
	require.NoError(t, err)
	assert.True(t, enabled.Enabled)

	u, err := w.users.ByID(ctx, enabled.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
}
