package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

// SlotRepository is the slot table.
type SlotRepository struct {
	mu    sync.Mutex
	slots *cache.Cache // slot ID -> model.TimeSlot
	order []uuid.UUID
}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{slots: newStore()}
}

func (r *SlotRepository) Upsert(_ context.Context, slot *model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slot.ID.String()
	if _, exists := r.slots.Get(key); !exists {
		r.order = append(r.order, slot.ID)
	}
	r.slots.Set(key, *slot, cache.NoExpiration)
	return nil
}

func (r *SlotRepository) Get(_ context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	v, ok := r.slots.Get(id.String())
	if !ok {
		return nil, repository.ErrNotFound
	}
	slot := v.(model.TimeSlot)
	return &slot, nil
}

func (r *SlotRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.TimeSlot, 0, len(all))
	for _, s := range all {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SlotRepository) ListAll(_ context.Context) ([]*model.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.TimeSlot, 0, len(r.order))
	for _, id := range r.order {
		if v, ok := r.slots.Get(id.String()); ok {
			slot := v.(model.TimeSlot)
			out = append(out, &slot)
		}
	}
	return out, nil
}
