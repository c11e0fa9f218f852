package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

// DoctorRepository is the doctor directory. The order slice preserves
// enrollment order for listings.
type DoctorRepository struct {
	mu      sync.Mutex
	doctors *cache.Cache // doctor ID -> model.User
	order   []uuid.UUID
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{doctors: newStore()}
}

func (r *DoctorRepository) Upsert(_ context.Context, doctor *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := doctor.ID.String()
	if _, exists := r.doctors.Get(key); !exists {
		r.order = append(r.order, doctor.ID)
	}
	r.doctors.Set(key, *doctor.Clone(), cache.NoExpiration)
	return nil
}

func (r *DoctorRepository) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	v, ok := r.doctors.Get(id.String())
	if !ok {
		return nil, repository.ErrNotFound
	}
	doctor := v.(model.User)
	return doctor.Clone(), nil
}

func (r *DoctorRepository) List(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.User, 0, len(r.order))
	for _, id := range r.order {
		if v, ok := r.doctors.Get(id.String()); ok {
			doctor := v.(model.User)
			out = append(out, doctor.Clone())
		}
	}
	return out, nil
}
