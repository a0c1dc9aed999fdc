// Package cli provides the interactive blogkeeper command-line client.
//
// It wires configuration, the local session database, the HTTP API client
// and a small REPL. The session survives restarts: it is stored in SQLite
// and hydrated when the App starts.
//
// Commands: register, login, whoami, status, logout, help, exit.
//
// The REPL is started via App.Run(ctx); App.Exec runs a single command.
package cli
