package fakebank

import "github.com/shopspring/decimal"

// eurValue is what one unit of each currency is worth in EUR.
var eurValue = map[string]decimal.Decimal{
	"EUR": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("1.17"),
	"CHF": decimal.RequireFromString("1.06"),
	"PLN": decimal.RequireFromString("0.23"),
	"SEK": decimal.RequireFromString("0.088"),
}

// crossRate returns how many units of to one unit of from buys. The second
// result names the first unsupported currency, if any.
func crossRate(from, to string) (decimal.Decimal, string) {
	f, ok := eurValue[from]
	if !ok {
		return decimal.Zero, from
	}
	t, ok := eurValue[to]
	if !ok {
		return decimal.Zero, to
	}
	return f.DivRound(t, 6), ""
}
