// Package client contains the HTTP building blocks of the bank client.
//
// # Overview
//
// The package provides:
//  1. HTTPClient, a JSON transport bound to the bank API base URL. It applies
//     default headers, a request timeout and a per-call X-Request-ID, and
//     normalizes every failure into a *TransportError.
//  2. An interceptor chain (Interceptor, Invoker, Call) modelled after unary
//     gRPC interceptors. WithInterceptors derives a client that runs the
//     chain around each call while sharing the connection pool.
//  3. AuthAPI, the raw authentication endpoints (login, refresh, logout).
//     It is meant to run on a client without the auth interceptor so that
//     refreshing a token can never recurse into another refresh.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses become *TransportError with the HTTP status, the server
// message and the raw error body. Failures without any response (dial errors,
// timeouts) use StatusCode 0 and the message "connection failed". Match them
// with errors.Is against ErrUnavailable, ErrUnauthorized, ErrForbidden or
// ErrNotFound, or with errors.As for the full value.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
