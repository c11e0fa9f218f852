package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
)

var (
	// ErrNotFound is returned by all repositories for missing entities.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("already exists")
)

// All repository interfaces in one file
type (
	// UserRepository owns the user-by-email index. Emails are stored
	// lowercased and are unique case-insensitively.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	// DoctorRepository is the doctor directory. List preserves insertion
	// order.
	DoctorRepository interface {
		Upsert(ctx context.Context, doctor *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
	}

	// SlotRepository is the slot table.
	SlotRepository interface {
		Upsert(ctx context.Context, slot *model.TimeSlot) error
		Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error)
		ListAll(ctx context.Context) ([]*model.TimeSlot, error)
	}

	// AppointmentRepository is the appointment table.
	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	}
)
