package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const goodPassword = "Password123"

// --- helpers ---

type fakeUsersRepo struct {
	createErr error
	findOut   *models.User
	findErr   error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

type fakeRepoManager struct {
	u usersrepo.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func testHasher() *auth.Hasher {
	return auth.NewHasher(auth.Argon2Params{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func newUserService(t *testing.T, rm repomanager.RepositoryManager) (*UserService, *auth.Codec, *metrics.Metrics) {
	t.Helper()
	codec, err := auth.NewCodec([]byte("k"))
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	s, err := NewUserService(nil, rm, testHasher(), codec, m, logging.NewNopLogger())
	require.NoError(t, err)
	return s, codec, m
}

func TestRegister_ThenLogin(t *testing.T) {
	ctx := context.Background()
	s, codec, _ := newUserService(t, repomanager.NewMemoryRepositoryManager())

	reg, err := s.Register(ctx, " alice ", " Alice@Example.COM ", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotEqual(t, goodPassword, reg.User.PasswordHash)
	assert.NotEmpty(t, reg.User.ID)

	claims, err := codec.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.SubjectID)
	assert.Equal(t, "alice", claims.Username)

	for _, id := range []string{"alice", "ALICE@example.com", "alice@example.com"} {
		got, err := s.Login(ctx, id, goodPassword)
		require.NoError(t, err, id)
		assert.Equal(t, reg.User.ID, got.User.ID)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	s, _, m := newUserService(t, repomanager.NewMemoryRepositoryManager())

	_, err := s.Register(ctx, "alice", "alice@example.com", goodPassword)
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice2", "ALICE@example.com", goodPassword)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter(m, metrics.OpRegister, metrics.OutcomeConflict)))
}

func TestRegister_Validation(t *testing.T) {
	s, _, _ := newUserService(t, repomanager.NewMemoryRepositoryManager())

	tests := []struct {
		name                      string
		username, email, password string
		want                      error
	}{
		{"short username", "al", "a@example.com", goodPassword, ErrInvalidUsername},
		{"bad username chars", "al ice", "a@example.com", goodPassword, ErrInvalidUsername},
		{"bad email", "alice", "alice@", goodPassword, ErrInvalidEmail},
		{"short password", "alice", "a@example.com", "Pa1", ErrWeakPassword},
		{"no digit", "alice", "a@example.com", "Password", ErrWeakPassword},
		{"no upper", "alice", "a@example.com", "password123", ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.username, tt.email, tt.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_RepoError(t *testing.T) {
	s, _, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: errors.New("db down")}})

	_, err := s.Register(context.Background(), "alice", "alice@example.com", goodPassword)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_UnknownAndWrongPasswordLookAlike(t *testing.T) {
	ctx := context.Background()
	s, _, m := newUserService(t, repomanager.NewMemoryRepositoryManager())

	_, err := s.Register(ctx, "alice", "alice@example.com", goodPassword)
	require.NoError(t, err)

	_, errUnknown := s.Login(ctx, "bob", goodPassword)
	_, errWrong := s.Login(ctx, "alice", "Password124")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.Equal(t, float64(2), testutil.ToFloat64(counter(m, metrics.OpLogin, metrics.OutcomeRejected)))
}

func TestLogin_LegacyBcryptHash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte(goodPassword), bcrypt.MinCost)
	require.NoError(t, err)
	s, _, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{
		findOut: &models.User{ID: "u-1", Username: "old", Email: "old@example.com", PasswordHash: string(legacy)},
	}})

	got, err := s.Login(context.Background(), "old", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.User.ID)

	_, err = s.Login(context.Background(), "old", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RepoError(t *testing.T) {
	s, _, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{findErr: errors.New("db down")}})

	_, err := s.Login(context.Background(), "alice", goodPassword)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.c", NormalizeEmail("  A@B.c\t"))
}

func counter(m *metrics.Metrics, op, outcome string) prometheus.Collector {
	return m.CredentialCounter(op, outcome)
}
