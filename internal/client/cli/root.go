package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := a.session.Session()
	if s.Loading {
		return " (...)"
	}
	if !s.Authenticated() {
		return ""
	}
	return fmt.Sprintf(" (%s)", displayName(s.User))
}

// Root prints the greeting and runs the REPL on a.reader.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to blogkeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
