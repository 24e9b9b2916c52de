package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/shopspring/decimal"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

func printAccounts(w io.Writer, accounts []models.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No accounts.")
		return
	}
	tw := newTable(w, "NUMBER", "NAME", "TYPE", "BALANCE")
	for _, a := range accounts {
		row(tw, a.AccountNumber, a.AccountName, a.AccountType, money(a.Balance, a.Currency))
	}
	tw.Flush()
}

func printAccount(w io.Writer, a *models.Account) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row(tw, "Number:", a.AccountNumber)
	row(tw, "Name:", a.AccountName)
	row(tw, "Type:", a.AccountType)
	row(tw, "Balance:", money(a.Balance, a.Currency))
	row(tw, "Single transfer limit:", money(a.SingleTransferLimit, a.Currency))
	row(tw, "Daily transfer limit:", money(a.DailyTransferLimit, a.Currency))
	row(tw, "Left today:", money(a.RemainingTransferToday(), a.Currency))
	tw.Flush()
}

func accountNumber(ref *models.AccountRef) string {
	if ref == nil {
		return "-"
	}
	return ref.AccountNumber
}

func printTransactions(w io.Writer, txs []models.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	tw := newTable(w, "DATE", "TYPE", "FROM", "TO", "AMOUNT", "STATUS", "DESCRIPTION")
	for _, t := range txs {
		row(tw, t.CreatedAt, t.Type, accountNumber(t.SourceAccount), accountNumber(t.DestinationAccount),
			money(t.Amount, t.Currency), t.Status, t.Description)
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.UserProfile) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := newTable(w, "ID", "USERNAME", "NAME", "ROLE", "ENABLED")
	for _, u := range users {
		row(tw, u.ID, u.Username, u.Name, u.Role, u.Enabled)
	}
	tw.Flush()
}

func printUser(w io.Writer, u *models.UserProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row(tw, "ID:", u.ID)
	row(tw, "Username:", u.Username)
	row(tw, "Name:", u.Name)
	row(tw, "Email:", u.Email)
	row(tw, "Role:", u.Role)
	row(tw, "Enabled:", u.Enabled)
	tw.Flush()
	if len(u.Accounts) > 0 {
		fmt.Fprintln(w)
		printAccounts(w, u.Accounts)
	}
}

func printTransfer(w io.Writer, r *models.TransferResponse) {
	if r.Message != "" {
		fmt.Fprintln(w, r.Message)
	}
	if r.CurrencyExchangeApplied && r.ExchangeInfo != nil {
		x := r.ExchangeInfo
		fmt.Fprintf(w, "%s -> %s (%s)\n",
			money(x.OriginalAmount, x.FromCurrency), money(x.ConvertedAmount, x.ToCurrency), x.RateInfo)
	}
	if r.Transaction != nil {
		fmt.Fprintf(w, "Reference: %s\n", r.Transaction.TransactionReference)
	}
}
