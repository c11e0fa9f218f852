package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

// AppointmentRepository is the appointment table. Appointments are never
// deleted; status changes go through Update.
type AppointmentRepository struct {
	mu           sync.Mutex
	appointments *cache.Cache // appointment ID -> model.Appointment
	order        []uuid.UUID
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: newStore()}
}

func (r *AppointmentRepository) Create(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := apt.ID.String()
	if _, exists := r.appointments.Get(key); exists {
		return repository.ErrDuplicate
	}
	r.order = append(r.order, apt.ID)
	r.appointments.Set(key, *apt, cache.NoExpiration)
	return nil
}

func (r *AppointmentRepository) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	v, ok := r.appointments.Get(id.String())
	if !ok {
		return nil, repository.ErrNotFound
	}
	apt := v.(model.Appointment)
	return &apt, nil
}

func (r *AppointmentRepository) Update(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := apt.ID.String()
	if _, exists := r.appointments.Get(key); !exists {
		return repository.ErrNotFound
	}
	r.appointments.Set(key, *apt, cache.NoExpiration)
	return nil
}

func (r *AppointmentRepository) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, id := range r.order {
		if v, ok := r.appointments.Get(id.String()); ok {
			apt := v.(model.Appointment)
			if apt.PatientID == patientID {
				out = append(out, &apt)
			}
		}
	}
	return out, nil
}
