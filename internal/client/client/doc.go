// Package client contains client-side building blocks for blogkeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     account endpoints: Register, Login and Me.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) with a
//     per-request timeout and mapping of HTTP statuses to errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// A rejection by the server is returned as *AuthenticationError carrying the
// server's message verbatim. Transport failures are ErrUnavailable; a 401 on
// a protected call is ErrUnauthorized. Match with errors.Is / errors.As.
package client
