package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dmitrijs2005/bankcli/internal/client/cli"
	"github.com/dmitrijs2005/bankcli/internal/client/config"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var c cli.CLI
	kctx := kong.Parse(&c,
		kong.Name("bankcli"),
		kong.Description("Command-line client for the bank API."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	cfg, err := config.Load(c.Config, c.Overrides())
	kctx.FatalIfErrorf(err)

	app, err := cli.NewApp(ctx, cfg, cli.WithInput(os.Stdin), cli.WithOutput(os.Stdout))
	kctx.FatalIfErrorf(err)

	runErr := kctx.Run(app)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kctx.FatalIfErrorf(errors.Join(runErr, app.Close(closeCtx)))
}
