package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/shopspring/decimal"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, username string) error
	Login(ctx context.Context, username string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context, remote bool) error
	Accounts(ctx context.Context) error
	Account(ctx context.Context, number string) error
	Search(ctx context.Context, term string) error
	AccountNumbers(ctx context.Context, username string) error
	Transactions(ctx context.Context, number string) error
	Transfer(ctx context.Context, req models.TransferRequest, preview bool) error
	promptTransfer(args []string) (models.TransferRequest, error)
	Users(ctx context.Context, page int, disabled bool) error
	User(ctx context.Context, id int64) error
	Enable(ctx context.Context, id int64) error
	Rate(ctx context.Context, from, to string, amount decimal.Decimal) error
	Total(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register [username], login [username], rate <from> [to] [amount], exit"
	helpLoggedIn  = "Available commands: whoami [remote], accounts, account <number>, search <term>, ibans <username>, " +
		"transactions [account], transfer [from to amount [description]], preview [from to amount], " +
		"total, rate <from> [to] [amount], users [page], disabled [page], user <id>, enable <id>, logout, exit"
)

// REPL runs the interactive loop until the user exits or input ends.
func (a *App) REPL(ctx context.Context) {
	printlnFn("Welcome to bankcli (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its arguments, and dispatches to methods on 'a'. Command
// errors are reported and the loop goes on. The loop exits on EOF or when
// the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bank %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			report(a.Register(ctx, arg(args, 0)))

		case "login":
			report(a.Login(ctx, arg(args, 0)))

		case "logout":
			report(a.Logout(ctx))

		case "whoami":
			report(a.WhoAmI(ctx, arg(args, 0) == "remote"))

		case "accounts":
			report(a.Accounts(ctx))

		case "account":
			if len(args) == 0 {
				printlnFn("Usage: account <number>")
				continue
			}
			report(a.Account(ctx, args[0]))

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <term>")
				continue
			}
			report(a.Search(ctx, strings.Join(args, " ")))

		case "ibans":
			if len(args) == 0 {
				printlnFn("Usage: ibans <username>")
				continue
			}
			report(a.AccountNumbers(ctx, args[0]))

		case "transactions", "tx":
			report(a.Transactions(ctx, arg(args, 0)))

		case "transfer", "preview":
			req, err := a.promptTransfer(args)
			if err != nil {
				report(err)
				continue
			}
			report(a.Transfer(ctx, req, cmd == "preview"))

		case "users", "disabled":
			page, ok := intArg(args, 0, 1)
			if !ok {
				printlnFn("Usage: " + cmd + " [page]")
				continue
			}
			report(a.Users(ctx, int(page), cmd == "disabled"))

		case "user", "enable":
			id, ok := intArg(args, 0, 0)
			if !ok || id <= 0 {
				printlnFn("Usage: " + cmd + " <id>")
				continue
			}
			if cmd == "enable" {
				report(a.Enable(ctx, id))
			} else {
				report(a.User(ctx, id))
			}

		case "rate":
			if len(args) == 0 {
				printlnFn("Usage: rate <from> [to] [amount]")
				continue
			}
			amount := decimal.NewFromInt(1)
			if v := arg(args, 2); v != "" {
				amount, err = decimal.NewFromString(v)
				if err != nil {
					printlnFn("Usage: rate <from> [to] [amount]")
					continue
				}
			}
			report(a.Rate(ctx, args[0], arg(args, 1), amount))

		case "total":
			report(a.Total(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", describe(err))
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// intArg parses args[i], returning def when it is absent.
func intArg(args []string, i int, def int64) (int64, bool) {
	v := arg(args, i)
	if v == "" {
		return def, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
