// Package cli provides the bankcli command-line client.
//
// It wires configuration, the persisted session, the authenticated API
// transport and the domain services, and exposes them both as one-shot
// kong commands and as an interactive REPL.
//
// Key features:
//   - Login / Logout with a session that survives restarts
//   - Accounts, account search and combined balance in EUR
//   - Transaction history and transfers, with a preview mode
//   - User administration for staff
//   - Exchange rate lookups
//
// The REPL is started via App.REPL(ctx) and blocks until the user exits.
package cli
