package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/client/client"
	"github.com/dmitrijs2005/blogkeeper/internal/client/config"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/blogkeeper/internal/client/services"
	"github.com/dmitrijs2005/blogkeeper/internal/filex"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

// sessionService is the part of services.SessionStore the CLI drives.
type sessionService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Verify(ctx context.Context) error
	Session() models.Session
	User() *models.User
}

type App struct {
	config  *config.Config
	session sessionService
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger
}

// NewApp opens the local session database, hydrates the session from it and
// returns an App talking to c.ServerURL.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	path, err := filex.ResolveDataFile(config.DefaultDataDir, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	store, err := services.NewSessionStore(ctx, api, localstore.NewSQLiteRepository(db), l)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:  c,
		session: store,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		logger:  l,
	}, nil
}

// Run starts the interactive loop and blocks until the user exits or stdin
// is closed.
func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

// Exec runs a single command without entering the REPL.
func (a *App) Exec(ctx context.Context, cmd string) error {
	handled, err := dispatch(ctx, a, cmd)
	if !handled {
		return fmt.Errorf("unknown command %q", cmd)
	}
	return err
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().Authenticated()
}
