package cli

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dmitrijs2005/bankcli/internal/client/config"
	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/shopspring/decimal"
)

// Globals are the flags shared by every command. Unset flags leave the
// configured value alone.
type Globals struct {
	Config    string           `help:"Config file (yaml, json or toml)." short:"c" type:"path"`
	BaseURL   string           `help:"API base URL." name:"base-url"`
	Timeout   time.Duration    `help:"Request timeout."`
	Ephemeral bool             `help:"Keep the session in memory only."`
	Debug     bool             `help:"Enable debug logging."`
	Version   kong.VersionFlag `help:"Print version and exit."`
}

// Overrides returns the config keys set on the command line.
func (g *Globals) Overrides() map[string]any {
	o := make(map[string]any)
	if g.BaseURL != "" {
		o[config.KeyBaseURL] = g.BaseURL
	}
	if g.Timeout != 0 {
		o[config.KeyRequestTimeout] = g.Timeout
	}
	if g.Ephemeral {
		o[config.KeyEphemeral] = true
	}
	if g.Debug {
		o[config.KeyDebug] = true
	}
	return o
}

// CLI is the kong grammar of bankcli.
type CLI struct {
	Globals `embed:""`

	Register     RegisterCmd     `cmd:"" help:"Create a customer account."`
	Login        LoginCmd        `cmd:"" help:"Log in."`
	Logout       LogoutCmd       `cmd:"" help:"Log out."`
	Whoami       WhoamiCmd       `cmd:"" help:"Show the logged in user."`
	Accounts     AccountsCmd     `cmd:"" help:"List your accounts."`
	Account      AccountCmd      `cmd:"" help:"Show one account."`
	Search       SearchCmd       `cmd:"" help:"Search accounts by number or name."`
	Ibans        IbansCmd        `cmd:"" help:"List another customer's account numbers."`
	Transactions TransactionsCmd `cmd:"" help:"List transactions, newest first."`
	Transfer     TransferCmd     `cmd:"" help:"Transfer money between accounts."`
	Users        UsersCmd        `cmd:"" help:"List bank users (staff only)."`
	User         UserCmd         `cmd:"" help:"Show one user."`
	Enable       EnableCmd       `cmd:"" help:"Enable a disabled user (staff only)."`
	Rate         RateCmd         `cmd:"" help:"Show an exchange rate."`
	Total        TotalCmd        `cmd:"" help:"Show your total balance in EUR."`
	Repl         ReplCmd         `cmd:"" default:"1" help:"Start the interactive shell."`
}

type RegisterCmd struct {
	Username string `arg:"" optional:"" help:"User name; prompted when omitted."`
}

func (c *RegisterCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Register(ctx, c.Username))
}

type LoginCmd struct {
	Username string `arg:"" optional:"" help:"User name; prompted when omitted."`
}

func (c *LoginCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Login(ctx, c.Username))
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Logout(ctx))
}

type WhoamiCmd struct {
	Remote bool `help:"Ask the server instead of using the cached profile."`
}

func (c *WhoamiCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.WhoAmI(ctx, c.Remote))
}

type AccountsCmd struct{}

func (c *AccountsCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Accounts(ctx))
}

type AccountCmd struct {
	Number string `arg:"" help:"Account number."`
}

func (c *AccountCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Account(ctx, c.Number))
}

type SearchCmd struct {
	Term string `arg:"" help:"Search term."`
}

func (c *SearchCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Search(ctx, c.Term))
}

type IbansCmd struct {
	Username string `arg:"" help:"Customer user name."`
}

func (c *IbansCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.AccountNumbers(ctx, c.Username))
}

type TransactionsCmd struct {
	Account string `help:"Only this account." short:"a"`
}

func (c *TransactionsCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Transactions(ctx, c.Account))
}

type TransferCmd struct {
	From        string          `arg:"" help:"Source account number."`
	To          string          `arg:"" help:"Destination account number."`
	Amount      decimal.Decimal `arg:"" help:"Amount in the source account currency."`
	Description string          `help:"Transfer description." short:"d"`
	Preview     bool            `help:"Only show what would be booked."`
}

func (c *TransferCmd) Run(ctx context.Context, app *App) error {
	req := models.TransferRequest{
		FromAccount: c.From,
		ToAccount:   c.To,
		Amount:      c.Amount,
		Description: c.Description,
	}
	return friendly(app.Transfer(ctx, req, c.Preview))
}

type UsersCmd struct {
	Page     int  `help:"Page number, from 1." default:"1"`
	Disabled bool `help:"Only disabled users."`
}

func (c *UsersCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Users(ctx, c.Page, c.Disabled))
}

type UserCmd struct {
	ID int64 `arg:"" help:"User id."`
}

func (c *UserCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.User(ctx, c.ID))
}

type EnableCmd struct {
	ID int64 `arg:"" help:"User id."`
}

func (c *EnableCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Enable(ctx, c.ID))
}

type RateCmd struct {
	From   string          `arg:"" help:"Source currency."`
	To     string          `arg:"" optional:"" help:"Target currency, EUR by default."`
	Amount decimal.Decimal `default:"1" help:"Amount to convert."`
}

func (c *RateCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Rate(ctx, c.From, c.To, c.Amount))
}

type TotalCmd struct{}

func (c *TotalCmd) Run(ctx context.Context, app *App) error {
	return friendly(app.Total(ctx))
}

type ReplCmd struct{}

func (c *ReplCmd) Run(ctx context.Context, app *App) error {
	app.REPL(ctx)
	return nil
}
