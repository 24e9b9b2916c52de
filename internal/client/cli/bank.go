package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/shopspring/decimal"
)

func (a *App) Accounts(ctx context.Context) error {
	accounts, err := a.accounts.GetAll(ctx)
	if err != nil {
		return err
	}
	printAccounts(a.out, accounts)
	return nil
}

func (a *App) Account(ctx context.Context, number string) error {
	acc, err := a.accounts.Details(ctx, number)
	if err != nil {
		return err
	}
	printAccount(a.out, acc)
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	accounts, err := a.accounts.Search(ctx, term)
	if err != nil {
		return err
	}
	printAccounts(a.out, accounts)
	return nil
}

// AccountNumbers lists the account numbers of another customer.
func (a *App) AccountNumbers(ctx context.Context, username string) error {
	numbers, err := a.accounts.NumbersByUsername(ctx, username)
	if err != nil {
		return err
	}
	if len(numbers) == 0 {
		fmt.Fprintf(a.out, "No accounts for %s.\n", username)
		return nil
	}
	for _, n := range numbers {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

// Transactions lists the history of one account, or of all accounts when
// number is empty.
func (a *App) Transactions(ctx context.Context, number string) error {
	var (
		txs []models.Transaction
		err error
	)
	if number == "" {
		txs, err = a.txs.GetAll(ctx)
	} else {
		txs, err = a.txs.ByAccount(ctx, number)
	}
	if err != nil {
		return err
	}
	printTransactions(a.out, txs)
	return nil
}

// Transfer books req, or only shows what would be booked when preview is set.
func (a *App) Transfer(ctx context.Context, req models.TransferRequest, preview bool) error {
	send := a.txs.Transfer
	if preview {
		send = a.txs.Preview
	}
	resp, err := send(ctx, req)
	if err != nil {
		return err
	}
	printTransfer(a.out, resp)
	return nil
}

// promptTransfer asks for the transfer fields the REPL line did not give.
func (a *App) promptTransfer(args []string) (models.TransferRequest, error) {
	fields := make([]string, 3)
	copy(fields, args)
	prompts := []string{"From account", "To account", "Amount"}

	for i, p := range prompts {
		if fields[i] != "" {
			continue
		}
		v, err := getSimpleText(a.reader, p, a.out)
		if err != nil {
			return models.TransferRequest{}, err
		}
		fields[i] = v
	}

	amount, err := decimal.NewFromString(fields[2])
	if err != nil {
		return models.TransferRequest{}, fmt.Errorf("invalid amount %q", fields[2])
	}

	desc := ""
	if len(args) > 3 {
		desc = strings.Join(args[3:], " ")
	} else {
		desc, err = getSimpleText(a.reader, "Description (optional)", a.out)
		if err != nil {
			return models.TransferRequest{}, err
		}
	}

	return models.TransferRequest{
		FromAccount: fields[0],
		ToAccount:   fields[1],
		Amount:      amount,
		Description: desc,
	}, nil
}

// Total shows the combined balance of the user's accounts in EUR.
func (a *App) Total(ctx context.Context) error {
	accounts, err := a.accounts.GetAll(ctx)
	if err != nil {
		return err
	}
	total, err := a.rates.TotalInEUR(ctx, accounts)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total balance: %s (%d accounts)\n", money(total, models.BaseCurrency), len(accounts))
	return nil
}

// Rate converts amount from one currency to another at the bank's rate.
func (a *App) Rate(ctx context.Context, from, to string, amount decimal.Decimal) error {
	if to == "" {
		to = models.BaseCurrency
	}
	q, err := a.rates.Quote(ctx, from, to, amount)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, q.RateInfo)
	fmt.Fprintf(a.out, "%s = %s\n", money(q.OriginalAmount, q.FromCurrency), money(q.ConvertedAmount, q.ToCurrency))
	return nil
}
