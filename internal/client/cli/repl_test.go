package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/client/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	err      error

	calls []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(_ context.Context, username string) error {
	return f.record("register %s", username)
}
func (f *fakeExec) Login(_ context.Context, username string) error {
	f.loggedIn = true
	return f.record("login %s", username)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(_ context.Context, remote bool) error { return f.record("whoami %t", remote) }
func (f *fakeExec) Accounts(context.Context) error              { return f.record("accounts") }
func (f *fakeExec) Account(_ context.Context, n string) error   { return f.record("account %s", n) }
func (f *fakeExec) Search(_ context.Context, term string) error { return f.record("search %s", term) }
func (f *fakeExec) AccountNumbers(_ context.Context, username string) error {
	return f.record("ibans %s", username)
}
func (f *fakeExec) Transactions(_ context.Context, n string) error {
	return f.record("transactions %s", n)
}
func (f *fakeExec) Transfer(_ context.Context, req models.TransferRequest, preview bool) error {
	return f.record("transfer %s %s %s %q %t", req.FromAccount, req.ToAccount, req.Amount, req.Description, preview)
}
func (f *fakeExec) promptTransfer(args []string) (models.TransferRequest, error) {
	if len(args) < 3 {
		return models.TransferRequest{}, errors.New("incomplete")
	}
	return models.TransferRequest{
		FromAccount: args[0],
		ToAccount:   args[1],
		Amount:      decimal.RequireFromString(args[2]),
		Description: strings.Join(args[3:], " "),
	}, nil
}
func (f *fakeExec) Users(_ context.Context, page int, disabled bool) error {
	return f.record("users %d %t", page, disabled)
}
func (f *fakeExec) User(_ context.Context, id int64) error   { return f.record("user %d", id) }
func (f *fakeExec) Enable(_ context.Context, id int64) error { return f.record("enable %d", id) }
func (f *fakeExec) Rate(_ context.Context, from, to string, amount decimal.Decimal) error {
	return f.record("rate %s %s %s", from, to, amount)
}
func (f *fakeExec) Total(context.Context) error { return f.record("total") }

// printed collects what printlnFn writes. The session-ended notice is
// printed from the refresh goroutine, so access is locked.
type printed struct {
	mu    sync.Mutex
	lines []string
}

func (p *printed) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strings.Join(p.lines, "")
}

func capturePrints(t *testing.T) *printed {
	t.Helper()
	p := &printed{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.lines = append(p.lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return p
}

func TestRunREPL_DispatchesWithArguments(t *testing.T) {
	capturePrints(t)

	input := strings.Join([]string{
		"",
		"register",
		"register dave",
		"login alice",
		"whoami",
		"whoami remote",
		"accounts",
		"account LV01",
		"search main account",
		"ibans bob",
		"tx",
		"transactions LV01",
		"transfer LV01 LV02 12.50 rent share",
		"preview LV01 LV02 5",
		"users",
		"users 3",
		"disabled 2",
		"user 7",
		"enable 3",
		"rate usd",
		"rate GBP USD 10",
		"total",
		"logout",
		"exit",
		"accounts",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"register ",
		"register dave",
		"login alice",
		"whoami false",
		"whoami true",
		"accounts",
		"account LV01",
		"search main account",
		"ibans bob",
		"transactions ",
		"transactions LV01",
		`transfer LV01 LV02 12.5 "rent share" false`,
		`transfer LV01 LV02 5 "" true`,
		"users 1 false",
		"users 3 false",
		"users 2 true",
		"user 7",
		"enable 3",
		"rate usd  1",
		"rate GBP USD 10",
		"total",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := capturePrints(t)

	input := strings.Join([]string{
		"account",
		"search",
		"ibans",
		"user",
		"user abc",
		"enable -1",
		"users x",
		"rate",
		"rate USD EUR lots",
		"foobar",
		"quit",
	}, "\n")
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "s" }, rdr(input))

	assert.Empty(t, exec.calls)
	out := lines.String()
	assert.Contains(t, out, "Usage: account <number>")
	assert.Contains(t, out, "Usage: ibans <username>")
	assert.Contains(t, out, "Usage: user <id>")
	assert.Contains(t, out, "Usage: enable <id>")
	assert.Contains(t, out, "Usage: users [page]")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_HelpFollowsLoginState(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("help\nlogin bob\nhelp\n"))

	out := lines.String()
	require.Contains(t, out, helpAnonymous)
	require.Contains(t, out, helpLoggedIn)
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{err: fmt.Errorf("accounts: %w", session.ErrNotAuthenticated)}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("accounts\ntransfer LV01\ntotal\n"))

	assert.Equal(t, []string{"accounts", "total"}, exec.calls)
	out := lines.String()
	assert.Contains(t, out, "Error: not logged in, use 'login' first")
	assert.Contains(t, out, "Error: incomplete")
}
