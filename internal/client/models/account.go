package models

import "github.com/shopspring/decimal"

// Account is a read-only copy of a bank account with its limits.
type Account struct {
	ID                    int64           `json:"id"`
	AccountNumber         string          `json:"accountNumber"`
	AccountName           string          `json:"accountName,omitempty"`
	AccountType           string          `json:"accountType,omitempty"`
	Balance               decimal.Decimal `json:"balance"`
	Currency              string          `json:"currency"`
	DailyTransferLimit    decimal.Decimal `json:"dailyTransferLimit"`
	DailyWithdrawalLimit  decimal.Decimal `json:"dailyWithdrawalLimit"`
	SingleTransferLimit   decimal.Decimal `json:"singleTransferLimit"`
	SingleWithdrawalLimit decimal.Decimal `json:"singleWithdrawalLimit"`
	TransferUsedToday     decimal.Decimal `json:"transferUsedToday"`
	WithdrawalUsedToday   decimal.Decimal `json:"withdrawalUsedToday"`
	LastLimitResetDate    Timestamp       `json:"lastLimitResetDate,omitzero"`
	CreatedAt             Timestamp       `json:"createdAt,omitzero"`
	UpdatedAt             Timestamp       `json:"updatedAt,omitzero"`
}

// RemainingTransferToday is the part of the daily transfer limit still available.
func (a Account) RemainingTransferToday() decimal.Decimal {
	left := a.DailyTransferLimit.Sub(a.TransferUsedToday)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// AccountRef is the short account form embedded in transactions.
type AccountRef struct {
	ID            int64  `json:"id"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName,omitempty"`
	AccountType   string `json:"accountType,omitempty"`
}

// AccountsPage is the envelope of the account listing endpoints.
type AccountsPage struct {
	Accounts []Account `json:"accounts"`
}

// UsernameRequest names the user whose account numbers are looked up.
type UsernameRequest struct {
	Username string `json:"username"`
}
