package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	TransactionPending   = "PENDING"
	TransactionCompleted = "COMPLETED"
	TransactionFailed    = "FAILED"
	TransactionCancelled = "CANCELLED"

	TransactionTransfer   = "TRANSFER"
	TransactionDeposit    = "DEPOSIT"
	TransactionWithdrawal = "WITHDRAWAL"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID                   int64           `json:"id"`
	TransactionReference string          `json:"transactionReference"`
	SourceAccount        *AccountRef     `json:"sourceAccount,omitempty"`
	DestinationAccount   *AccountRef     `json:"destinationAccount,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Description          string          `json:"description,omitempty"`
	Status               string          `json:"status"`
	Type                 string          `json:"type"`
	CreatedAt            Timestamp       `json:"createAt,omitzero"`
	CompletedAt          *Timestamp      `json:"completedAt,omitempty"`
}

// TransactionsPage is the envelope of the transaction listing endpoints.
type TransactionsPage struct {
	Transactions []Transaction `json:"transactions"`
}

// SortNewestFirst orders transactions by creation time, newest first.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt.Time)
	})
}

// TransferRequest moves Amount from one account number to another.
type TransferRequest struct {
	FromAccount string          `json:"fromAccount"`
	ToAccount   string          `json:"toAccount"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// TransferResponse is returned by both the transfer and its preview.
// Transaction is nil for previews.
type TransferResponse struct {
	Transaction             *Transaction  `json:"transaction,omitempty"`
	CurrencyExchangeApplied bool          `json:"currencyExchangeApplied"`
	ExchangeInfo            *ExchangeRate `json:"exchangeInfo,omitempty"`
	Message                 string        `json:"message,omitempty"`
}
