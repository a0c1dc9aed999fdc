package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
}

// dispatch runs the session command named cmd. handled is false for names
// that are not session commands.
func dispatch(ctx context.Context, a execIface, cmd string) (handled bool, err error) {
	switch cmd {
	case "register":
		return true, a.Register(ctx)
	case "login":
		return true, a.Login(ctx)
	case "logout":
		return true, a.Logout(ctx)
	case "whoami":
		return true, a.WhoAmI(ctx)
	case "status":
		return true, a.Status(ctx)
	}
	return false, nil
}

// runREPL reads commands line by line from reader and dispatches them to a.
//
//	help           show available commands
//	register       create an account and sign in
//	login          sign in
//	whoami         check the session with the server
//	status         show the local session state
//	logout         sign out
//	exit | quit    leave the program
//
// Command errors are reported and the loop continues. It returns on EOF,
// "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("blog%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			handled, err := dispatch(ctx, a, cmd)
			if !handled {
				printlnFn("Unknown command:", cmd)
				continue
			}
			if err != nil {
				printlnFn("Error:", describeError(err))
			}
		}
	}
}
