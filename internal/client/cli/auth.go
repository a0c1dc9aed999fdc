package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/client/client"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/services"
	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates an account.
// A successful registration also signs the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, username, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and signed in as %s\n", displayName(u))
	return nil
}

// Login prompts for an email or username and a password.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Login(ctx, identifier, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", displayName(u))
	return nil
}

// Logout forgets the session locally. The server keeps no session state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// WhoAmI checks the stored token against the server and prints the identity.
// A rejected token ends the session.
func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.session.Verify(ctx); err != nil {
		return err
	}
	u := a.session.User()
	if u == nil {
		return services.ErrNotSignedIn
	}

	fmt.Fprintf(a.out, "id:       %s\n", u.ID)
	fmt.Fprintf(a.out, "email:    %s\n", u.Email)
	if u.Username != "" {
		fmt.Fprintf(a.out, "username: %s\n", u.Username)
	}
	return nil
}

// Status prints the local session state without contacting the server.
func (a *App) Status(ctx context.Context) error {
	s := a.session.Session()
	switch {
	case s.Loading:
		fmt.Fprintln(a.out, "Signing in...")
	case s.Authenticated():
		fmt.Fprintf(a.out, "Signed in as %s\n", displayName(s.User))
	default:
		fmt.Fprintln(a.out, "Not signed in")
	}
	return nil
}

func displayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// describeError turns a command error into the line shown to the user.
func describeError(err error) string {
	var authErr *client.AuthenticationError
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.Is(err, client.ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later"
	case errors.Is(err, services.ErrNotSignedIn):
		return "Not signed in"
	case errors.Is(err, services.ErrSessionSuperseded):
		return "Signed out before the request finished"
	default:
		return err.Error()
	}
}
