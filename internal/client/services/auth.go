// Package services contains application services for the blogkeeper client.
// This file defines SessionStore: the signed-in user, persisted across
// restarts, plus the login, register and logout transitions.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/blogkeeper/internal/client/client"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

// ErrSessionSuperseded is returned by Login or Register when Logout ran while
// the call was in flight. The late result is dropped and nothing is stored.
var ErrSessionSuperseded = errors.New("session changed while request was in flight")

// ErrNotSignedIn is returned by Verify when there is no session to check.
var ErrNotSignedIn = errors.New("not signed in")

// SessionStore owns the client's authentication state.
//
// The mutex only protects the fields; remote calls run without it. A logout
// bumps generation so that any login still in flight cannot resurrect the
// session it started from.
type SessionStore struct {
	client  client.Client
	storage localstore.Repository
	logger  logging.Logger

	mu         sync.Mutex
	user       *models.User
	inFlight   int
	generation uint64
}

// NewSessionStore builds a store and hydrates it from storage.
func NewSessionStore(ctx context.Context, c client.Client, storage localstore.Repository, l logging.Logger) (*SessionStore, error) {
	s := &SessionStore{
		client:  c,
		storage: storage,
		logger:  l.With("module", "session_store"),
	}
	if err := s.Hydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Hydrate loads the persisted user, if any. An entry that is not a JSON
// object with a non-empty id is discarded. Only storage read failures are
// returned.
func (s *SessionStore) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.GetItem(ctx, common.UserStorageKey)
	if err != nil {
		return fmt.Errorf("read stored session: %w", err)
	}
	if !ok {
		s.user = nil
		return nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.logger.Warn(ctx, "discarding malformed stored session", "error", err)
		s.user = nil
		if err := s.storage.RemoveItem(ctx, common.UserStorageKey); err != nil {
			s.logger.Error(ctx, "remove malformed session", "error", err)
		}
		return nil
	}

	s.user = &u
	return nil
}

// Login authenticates with the server. On failure the current session is
// left as it was and the error is returned; a server rejection is a
// *client.AuthenticationError.
func (s *SessionStore) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	return s.authenticate(ctx, func(ctx context.Context) (*models.User, error) {
		return s.client.Login(ctx, identifier, password)
	})
}

// Register creates an account and signs in as it.
func (s *SessionStore) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.authenticate(ctx, func(ctx context.Context) (*models.User, error) {
		return s.client.Register(ctx, username, email, password)
	})
}

func (s *SessionStore) authenticate(ctx context.Context, call func(context.Context) (*models.User, error)) (*models.User, error) {
	s.mu.Lock()
	s.inFlight++
	started := s.generation
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	u, err := call(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != started {
		s.logger.Info(ctx, "dropping login result after logout", "user_id", u.ID)
		return nil, ErrSessionSuperseded
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SetItem(ctx, common.UserStorageKey, string(raw)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.user = u
	return cloneUser(u), nil
}

// Logout forgets the user locally. The server is not contacted.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutLocked(ctx)
}

func (s *SessionStore) logoutLocked(ctx context.Context) error {
	s.user = nil
	s.generation++

	if err := s.storage.RemoveItem(ctx, common.UserStorageKey); err != nil {
		return fmt.Errorf("remove stored session: %w", err)
	}
	return nil
}

// Verify asks the server whether the stored token is still accepted and
// signs out when it is not. Network failures leave the session alone.
func (s *SessionStore) Verify(ctx context.Context) error {
	s.mu.Lock()
	var token string
	if s.user != nil {
		token = s.user.Token
	}
	started := s.generation
	s.mu.Unlock()

	if token == "" {
		return ErrNotSignedIn
	}

	_, err := s.client.Me(ctx, token)
	if err == nil {
		return nil
	}
	if !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != started || s.user == nil || s.user.Token != token {
		return err
	}
	if lerr := s.logoutLocked(ctx); lerr != nil {
		return errors.Join(err, lerr)
	}
	return err
}

// Session returns a snapshot of the state.
func (s *SessionStore) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Session{User: cloneUser(s.user), Loading: s.inFlight > 0}
}

// User returns a copy of the signed-in user, or nil.
func (s *SessionStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.user)
}

// Token returns the bearer token of the signed-in user, or "".
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
