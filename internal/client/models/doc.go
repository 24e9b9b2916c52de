// Package models defines the client-side data models of the bank API:
// the authenticated session, user profiles, accounts, transactions and
// currency exchange payloads. Field names follow the server's JSON wire
// format; money amounts use shopspring/decimal.
package models
