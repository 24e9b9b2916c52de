package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dmitrijs2005/bankcli/internal/client/client"
	"github.com/dmitrijs2005/bankcli/internal/client/config"
	"github.com/dmitrijs2005/bankcli/internal/client/currency"
	"github.com/dmitrijs2005/bankcli/internal/client/services"
	"github.com/dmitrijs2005/bankcli/internal/client/session"
	"github.com/dmitrijs2005/bankcli/internal/logging"
)

// App holds everything a command needs: the session, the services built on
// the authenticated transport and the terminal streams.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *session.Manager

	auth     services.AuthService
	accounts services.AccountService
	txs      services.TransactionService
	users    services.UserService
	rates    *currency.Service

	reader *bufio.Reader
	out    io.Writer

	// loggingOut is set while the user's own logout runs so the session
	// ended notice is only shown for involuntary logouts.
	loggingOut atomic.Bool
}

type AppOption func(*App)

func WithInput(r io.Reader) AppOption {
	return func(a *App) {
		a.reader = bufio.NewReader(r)
	}
}

func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		a.out = w
	}
}

func WithLogger(l logging.Logger) AppOption {
	return func(a *App) {
		a.logger = l
	}
}

// NewApp wires the client from c and restores a persisted session, if any.
// The returned App must be closed.
func NewApp(ctx context.Context, c *config.Config, opts ...AppOption) (*App, error) {
	a := &App{
		config: c,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.Setup(os.Stderr, c.Debug)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	clientOpts := []client.Option{
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(a.logger),
	}
	if c.HTTPCache {
		clientOpts = append(clientOpts, client.WithTransport(client.NewCachingTransport(c.HTTPCacheDir)))
	}
	raw := client.NewHTTPClient(c.BaseURL, clientOpts...)

	a.sessions = session.NewManager(client.NewAuthAPI(raw), store,
		session.WithRefreshMargin(c.RefreshMargin),
		session.WithLogger(a.logger),
		session.WithOnLogout(a.sessionEnded),
	)
	api := raw.WithInterceptors(session.NewAuthInterceptor(a.sessions, a.logger).Intercept)

	a.auth = services.NewAuthService(a.sessions, api)
	a.accounts = services.NewAccountService(api, a.sessions)
	a.txs = services.NewTransactionService(api, a.sessions)
	a.users = services.NewUserService(api, a.sessions, c.UsersPerPage)
	a.rates = currency.New(api,
		currency.WithTTL(c.RateCacheTTL),
		currency.WithLookupTimeout(c.RequestTimeout),
		currency.WithLogger(a.logger),
	)

	if _, err := a.sessions.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "stored session ignored", "error", err.Error())
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) (session.Store, error) {
	if a.config.Ephemeral {
		return session.NewMemoryStore(), nil
	}

	if err := os.MkdirAll(filepath.Dir(a.config.StorePath), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := client.InitDatabase(ctx, a.config.StorePath)
	if err != nil {
		a.logger.Error(ctx, "error initializing database", "error", err.Error())
		return nil, err
	}
	a.db = db
	return session.NewMetadataStore(db), nil
}

// Close waits for background session work and closes the store.
func (a *App) Close(ctx context.Context) error {
	err := a.auth.Close(ctx)
	if a.db != nil {
		err = errors.Join(err, a.db.Close())
	}
	return err
}

func (a *App) sessionEnded() {
	if a.loggingOut.Load() {
		return
	}
	printlnFn("Your session has ended. Please log in again.")
}

func (a *App) isLoggedIn() bool {
	return a.sessions.HasSession()
}

// status is the REPL prompt annotation: the user and the session state.
func (a *App) status() string {
	state := a.sessions.State()
	if u := a.sessions.CurrentUser(); u != nil {
		return fmt.Sprintf("(%s %s)", u.Username, state)
	}
	return fmt.Sprintf("(%s)", state)
}
