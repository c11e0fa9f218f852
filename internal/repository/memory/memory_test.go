package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &model.User{
		ID:    uuid.New(),
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  model.RolePatient,
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserEmailIsCaseInsensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{
		ID:    uuid.New(),
		Email: "Asha@Example.com",
		Role:  model.RolePatient,
	}))

	got, err := repo.GetByEmail(ctx, "ASHA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got.Email)

	err = repo.Create(ctx, &model.User{
		ID:    uuid.New(),
		Email: "asha@EXAMPLE.com",
		Role:  model.RolePatient,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserGetReturnsCopy(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &model.User{ID: uuid.New(), Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	first, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", second.Name)
}

func TestUserGetCopiesProfile(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &model.User{
		ID:      uuid.New(),
		Email:   "asha@example.com",
		Role:    model.RolePatient,
		Patient: &model.PatientProfile{Age: 30, PreferredSpeciality: "Cardiology"},
	}
	require.NoError(t, repo.Create(ctx, user))

	// Mutating the caller's profile after Create must not leak into the
	// store, and neither must mutating a returned one.
	user.Patient.Age = 99

	first, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, first.Patient.Age)
	first.Patient.PreferredSpeciality = "mutated"

	second, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", second.Patient.PreferredSpeciality)
}

func TestDoctorGetCopiesProfile(t *testing.T) {
	repo := NewDoctorRepository()
	ctx := context.Background()

	d := &model.User{
		ID:     uuid.New(),
		Role:   model.RoleDoctor,
		Doctor: &model.DoctorProfile{Speciality: "Cardiology"},
	}
	require.NoError(t, repo.Upsert(ctx, d))

	got, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	got.Doctor.Speciality = "mutated"

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Cardiology", listed[0].Doctor.Speciality)
}

func TestDoctorListPreservesInsertionOrder(t *testing.T) {
	repo := NewDoctorRepository()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		d := &model.User{ID: uuid.New(), Role: model.RoleDoctor, Doctor: &model.DoctorProfile{}}
		ids = append(ids, d.ID)
		require.NoError(t, repo.Upsert(ctx, d))
	}

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 5)
	for i, d := range listed {
		assert.Equal(t, ids[i], d.ID)
	}
}

func TestDoctorUpsertDoesNotDuplicate(t *testing.T) {
	repo := NewDoctorRepository()
	ctx := context.Background()

	d := &model.User{ID: uuid.New(), Name: "Dr. A", Role: model.RoleDoctor, Doctor: &model.DoctorProfile{}}
	require.NoError(t, repo.Upsert(ctx, d))

	d.Name = "Dr. A (updated)"
	require.NoError(t, repo.Upsert(ctx, d))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Dr. A (updated)", listed[0].Name)
}

func TestSlotListByDoctor(t *testing.T) {
	repo := NewSlotRepository()
	ctx := context.Background()

	docA, docB := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, &model.TimeSlot{ID: uuid.New(), DoctorID: docA}))
	}
	require.NoError(t, repo.Upsert(ctx, &model.TimeSlot{ID: uuid.New(), DoctorID: docB}))

	slots, err := repo.ListByDoctor(ctx, docA)
	require.NoError(t, err)
	assert.Len(t, slots, 3)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAppointmentCreateUpdateList(t *testing.T) {
	repo := NewAppointmentRepository()
	ctx := context.Background()

	patient := uuid.New()
	apt := &model.Appointment{
		ID:        uuid.New(),
		PatientID: patient,
		Status:    model.AppointmentStatusBooked,
	}
	require.NoError(t, repo.Create(ctx, apt))
	assert.ErrorIs(t, repo.Create(ctx, apt), repository.ErrDuplicate)

	apt.Status = model.AppointmentStatusCancelled
	require.NoError(t, repo.Update(ctx, apt))

	got, err := repo.Get(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)

	mine, err := repo.ListByPatient(ctx, patient)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := repo.ListByPatient(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)

	err = repo.Update(ctx, &model.Appointment{ID: uuid.New()})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
