// Package services contains server-side business logic. This file implements
// UserService, which registers accounts, checks credentials and issues
// session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by Login for an unknown identifier or a
// wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Session is the result of a successful register or login.
type Session struct {
	User  *models.User
	Token string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	codec       *auth.Codec
	metrics     *metrics.Metrics
	logger      logging.Logger

	// dummyHash is verified against when the identifier is unknown so both
	// paths cost one argon2 derivation.
	dummyHash string
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, hasher *auth.Hasher, codec *auth.Codec,
	m *metrics.Metrics, l logging.Logger) (*UserService, error) {

	seed, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	dummy, err := hasher.Hash(seed)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: rm,
		hasher:      hasher,
		codec:       codec,
		metrics:     m,
		logger:      l.With("module", "user_service"),
		dummyHash:   dummy,
	}, nil
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*Session, error) {

	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	for _, err := range []error{validateUsername(username), validateEmail(email), validatePassword(password)} {
		if err != nil {
			s.metrics.ObserveCredential(metrics.OpRegister, metrics.OutcomeRejected)
			return nil, &ValidationError{Err: err}
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.ObserveCredential(metrics.OpRegister, metrics.OutcomeError)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.metrics.ObserveCredential(metrics.OpRegister, metrics.OutcomeConflict)
			return nil, common.ErrorAlreadyExists
		}
		s.metrics.ObserveCredential(metrics.OpRegister, metrics.OutcomeError)
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	return s.issue(ctx, metrics.OpRegister, user)
}

func (s *UserService) Login(ctx context.Context, identifier, password string) (*Session, error) {

	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = NormalizeEmail(identifier)
	}

	user, err := s.repomanager.Users(s.db).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.metrics.ObserveCredential(metrics.OpLogin, metrics.OutcomeRejected)
			return nil, ErrInvalidCredentials
		}
		s.metrics.ObserveCredential(metrics.OpLogin, metrics.OutcomeError)
		s.logger.Error(ctx, "find user failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.ObserveCredential(metrics.OpLogin, metrics.OutcomeRejected)
		return nil, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.logger.Info(ctx, "password hash uses outdated parameters", "user_id", user.ID)
	}

	return s.issue(ctx, metrics.OpLogin, user)
}

func (s *UserService) issue(ctx context.Context, op string, user *models.User) (*Session, error) {
	token, err := s.codec.Issue(s.codec.NewClaims(user.ID, user.Email, user.Username))
	if err != nil {
		s.metrics.ObserveCredential(op, metrics.OutcomeError)
		s.logger.Error(ctx, "issue token failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.metrics.ObserveCredential(op, metrics.OutcomeSuccess)
	return &Session{User: user, Token: token}, nil
}
