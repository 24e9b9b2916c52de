package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dmitrijs2005/bankcli/internal/fakebank"
	"github.com/dmitrijs2005/bankcli/internal/logging"
)

var cli struct {
	Address     string        `help:"Listen address." short:"a" default:"localhost:8080" env:"FAKEBANK_ADDRESS"`
	AccessTTL   time.Duration `help:"Access token lifetime." default:"15m" name:"access-ttl"`
	RefreshTTL  time.Duration `help:"Refresh token lifetime." default:"24h" name:"refresh-ttl"`
	NoExpiresIn bool          `help:"Omit expiresIn from token responses."`
	Debug       bool          `help:"Log every request."`
}

func main() {
	kctx := kong.Parse(&cli, kong.Name("fakebank"), kong.Description("In-memory bank API for demos and tests."))

	logger := logging.Setup(os.Stderr, cli.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	initSignalHandler(cancel)

	opts := []fakebank.Option{
		fakebank.WithLogger(logger),
		fakebank.WithAccessTTL(cli.AccessTTL),
		fakebank.WithRefreshTTL(cli.RefreshTTL),
	}
	if cli.NoExpiresIn {
		opts = append(opts, fakebank.WithoutExpiresIn())
	}
	s := fakebank.New(opts...)
	s.Seed()

	logger.Info(ctx, "demo users seeded",
		"user", fakebank.DemoUser, "staff", fakebank.StaffUser, "access_ttl", cli.AccessTTL.String())

	kctx.FatalIfErrorf(s.Run(ctx, cli.Address))
}

func initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
