package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

// UserRepository keeps users keyed by ID, with a lowercased-email index.
type UserRepository struct {
	mu      sync.Mutex
	users   *cache.Cache // user ID -> model.User
	byEmail *cache.Cache // lowercased email -> user ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   newStore(),
		byEmail: newStore(),
	}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	email := model.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail.Get(email); exists {
		return repository.ErrDuplicate
	}

	stored := *user.Clone()
	stored.Email = email
	r.users.Set(stored.ID.String(), stored, cache.NoExpiration)
	r.byEmail.Set(email, stored.ID.String(), cache.NoExpiration)
	return nil
}

func (r *UserRepository) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	v, ok := r.users.Get(id.String())
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := v.(model.User)
	return user.Clone(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	v, ok := r.byEmail.Get(model.NormalizeEmail(email))
	if !ok {
		return nil, repository.ErrNotFound
	}
	id, err := uuid.Parse(v.(string))
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.Get(ctx, id)
}
