package models

import "github.com/shopspring/decimal"

// BaseCurrency is the currency totals are reported in.
const BaseCurrency = "EUR"

// ExchangeRate describes a conversion between two currencies.
type ExchangeRate struct {
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Rate            decimal.Decimal `json:"rate"`
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	RateInfo        string          `json:"rateInfo,omitempty"`
}
