package client

import (
	"net/url"
	"strconv"
)

// API paths relative to the base URL.
const (
	PathLogin          = "/auth/login"
	PathRefresh        = "/auth/refresh-token"
	PathLogout         = "/auth/logout"
	PathRegister       = "/auth/register"
	PathValidate       = "/auth/validate"
	PathAccounts       = "/account/getall"
	PathAccountDetails = "/account/details/"
	PathAccountSearch  = "/account/search"
	PathAccountNumbers = "/account/getIBANByUsername"
	PathTransactions   = "/transaction/getall"
	PathTransactionsBy = "/transaction/byaccount/"
	PathTransfer       = "/transaction/transfer"
	PathTransferPre    = "/transaction/transfer/preview"
	PathUsers          = "/users"
	PathDisabledUsers  = "/users/disabled"
	PathExchangeRate   = "/currency/exchange-rate"
)

func AccountDetailsPath(accountNumber string) string {
	return PathAccountDetails + url.PathEscape(accountNumber)
}

func AccountSearchPath(term string) string {
	return PathAccountSearch + "?" + url.Values{"term": {term}}.Encode()
}

func TransactionsByAccountPath(accountNumber string) string {
	return PathTransactionsBy + url.PathEscape(accountNumber)
}

func UsersPagePath(page, limit int) string {
	return PathUsers + "?" + pageQuery(page, limit)
}

func DisabledUsersPagePath(page, limit int) string {
	return PathDisabledUsers + "?" + pageQuery(page, limit)
}

func pageQuery(page, limit int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q.Encode()
}

func UserPath(id int64) string {
	return PathUsers + "/" + strconv.FormatInt(id, 10)
}

func EnableUserPath(id int64) string {
	return UserPath(id) + "/enable"
}

func ExchangeRatePath(from, to string, amount string) string {
	q := url.Values{}
	q.Set("fromCurrency", from)
	q.Set("toCurrency", to)
	q.Set("amount", amount)
	return PathExchangeRate + "?" + q.Encode()
}
