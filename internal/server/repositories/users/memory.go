package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// MemoryRepository keeps users in process memory. Used for local runs and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []models.User
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	user.CreatedAt = r.now().UTC()
	r.users = append(r.users, *user)
	return user, nil
}

func (r *MemoryRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == identifier || u.Username == identifier {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}
