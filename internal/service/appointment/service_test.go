package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type capturingEmail struct {
	mu            sync.Mutex
	confirmations []string
	cancellations []string
}

func (e *capturingEmail) SendBookingConfirmation(_ context.Context, to string, _ *model.User, _ *model.TimeSlot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmations = append(e.confirmations, to)
	return nil
}

func (e *capturingEmail) SendCancellationNotice(_ context.Context, to string, _ *model.User, _ *model.TimeSlot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancellations = append(e.cancellations, to)
	return nil
}

func newTestService(emailSvc *capturingEmail) *Service {
	if emailSvc == nil {
		emailSvc = &capturingEmail{}
	}
	return NewService(
		memory.NewDoctorRepository(),
		memory.NewSlotRepository(),
		memory.NewAppointmentRepository(),
		emailSvc,
		nil,
	)
}

func testDoctor(name, speciality string) *model.User {
	return &model.User{
		ID:   uuid.New(),
		Name: name,
		Role: model.RoleDoctor,
		Doctor: &model.DoctorProfile{
			Speciality:       speciality,
			ConsultationMode: "In-person",
		},
	}
}

func testPatient() *model.User {
	return &model.User{
		ID:    uuid.New(),
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  model.RolePatient,
		Patient: &model.PatientProfile{
			Age: 30,
		},
	}
}

func addSlotAt(t *testing.T, svc *Service, doctorID uuid.UUID, day time.Time, hour int) *model.TimeSlot {
	t.Helper()
	slot := &model.TimeSlot{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Date:      day,
		StartTime: day.Add(time.Duration(hour) * time.Hour),
		EndTime:   day.Add(time.Duration(hour+1) * time.Hour),
	}
	require.NoError(t, svc.AddSlot(context.Background(), slot))
	return slot
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func TestAddDoctorRejectsNonDoctors(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	err := svc.AddDoctor(ctx, testPatient())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	require.NoError(t, svc.AddDoctor(ctx, testDoctor("Dr. Rao", "Cardiologist")))
}

func TestListDoctorsFilters(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	require.NoError(t, svc.AddDoctor(ctx, testDoctor("Dr. Rao", "Cardiologist")))
	require.NoError(t, svc.AddDoctor(ctx, testDoctor("Dr. Chen", "Neurology")))
	require.NoError(t, svc.AddDoctor(ctx, testDoctor("Dr. Patel", "Cardiologist")))

	all, err := svc.ListDoctors(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cardio, err := svc.ListDoctors(ctx, &model.DoctorFilters{Speciality: "cardiologist"})
	require.NoError(t, err)
	require.Len(t, cardio, 2)
	assert.Equal(t, "Dr. Rao", cardio[0].Name, "enrollment order preserved")
	assert.Equal(t, "Dr. Patel", cardio[1].Name)

	byName, err := svc.ListDoctors(ctx, &model.DoctorFilters{Query: "chen"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Dr. Chen", byName[0].Name)

	bySpec, err := svc.ListDoctors(ctx, &model.DoctorFilters{Query: "neuro"})
	require.NoError(t, err)
	assert.Len(t, bySpec, 1)

	none, err := svc.ListDoctors(ctx, &model.DoctorFilters{Speciality: "Dermatology"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddSlotValidation(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	day := today()

	// Unknown doctor.
	err := svc.AddSlot(ctx, &model.TimeSlot{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		Date:      day,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	addSlotAt(t, svc, doctor.ID, day, 10)

	// Same doctor, same date and start.
	err = svc.AddSlot(ctx, &model.TimeSlot{
		ID:        uuid.New(),
		DoctorID:  doctor.ID,
		Date:      day,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestGetDoctorSlotsSortedAndFiltered(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))

	day := today()
	tomorrow := day.AddDate(0, 0, 1)

	// Insert out of order.
	addSlotAt(t, svc, doctor.ID, tomorrow, 9)
	addSlotAt(t, svc, doctor.ID, day, 16)
	addSlotAt(t, svc, doctor.ID, day, 10)

	slots, err := svc.GetDoctorSlots(ctx, doctor.ID, nil)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.True(t, slots[0].StartTime.Equal(day.Add(10*time.Hour)))
	assert.True(t, slots[1].StartTime.Equal(day.Add(16*time.Hour)))
	assert.True(t, slots[2].StartTime.Equal(tomorrow.Add(9*time.Hour)))

	// Date filter ignores time-of-day.
	noon := day.Add(12*time.Hour + 30*time.Minute)
	todayOnly, err := svc.GetDoctorSlots(ctx, doctor.ID, &noon)
	require.NoError(t, err)
	assert.Len(t, todayOnly, 2)
}

func TestBook(t *testing.T) {
	emails := &capturingEmail{}
	svc := newTestService(emails)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	slot := addSlotAt(t, svc, doctor.ID, today(), 10)
	patient := testPatient()

	apt, err := svc.Book(ctx, patient, doctor.ID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusBooked, apt.Status)
	assert.Equal(t, patient.ID, apt.PatientID)
	assert.Equal(t, doctor.ID, apt.DoctorID)

	stored, err := svc.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, stored.Booked)

	assert.Equal(t, []string{"asha@example.com"}, emails.confirmations)
}

func TestBookFailures(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	other := testDoctor("Dr. Chen", "Neurology")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	require.NoError(t, svc.AddDoctor(ctx, other))
	slot := addSlotAt(t, svc, doctor.ID, today(), 10)
	patient := testPatient()

	// Unknown slot.
	_, err := svc.Book(ctx, patient, doctor.ID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidSlot))

	// Slot belongs to a different doctor.
	_, err = svc.Book(ctx, patient, other.ID, slot.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidSlot))

	// Already booked.
	_, err = svc.Book(ctx, patient, doctor.ID, slot.ID)
	require.NoError(t, err)
	_, err = svc.Book(ctx, testPatient(), doctor.ID, slot.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrSlotUnavailable))
}

func TestConcurrentBookingHasOneWinner(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	slot := addSlotAt(t, svc, doctor.ID, today(), 10)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(ctx, testPatient(), doctor.ID, slot.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.True(t, apperrors.Is(err, apperrors.ErrSlotUnavailable))
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
}

func TestCancelFreesSlotAndAllowsRebooking(t *testing.T) {
	emails := &capturingEmail{}
	svc := newTestService(emails)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	slot := addSlotAt(t, svc, doctor.ID, today(), 10)
	patient := testPatient()

	apt, err := svc.Book(ctx, patient, doctor.ID, slot.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, apt.ID, patient))

	stored, err := svc.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, stored.Booked)
	assert.Len(t, emails.cancellations, 1)

	// The freed slot can be booked again, by anyone.
	_, err = svc.Book(ctx, testPatient(), doctor.ID, slot.ID)
	assert.NoError(t, err)
}

func TestCancelOwnershipAndState(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	slot := addSlotAt(t, svc, doctor.ID, today(), 10)
	patient := testPatient()

	apt, err := svc.Book(ctx, patient, doctor.ID, slot.ID)
	require.NoError(t, err)

	// A foreign appointment and an unknown one fail identically.
	foreign := svc.Cancel(ctx, apt.ID, testPatient())
	unknown := svc.Cancel(ctx, uuid.New(), patient)
	assert.True(t, apperrors.Is(foreign, apperrors.ErrAppointmentNotFound))
	assert.True(t, apperrors.Is(unknown, apperrors.ErrAppointmentNotFound))

	require.NoError(t, svc.Cancel(ctx, apt.ID, patient))

	// Cancelling twice is a state error, not a not-found.
	err = svc.Cancel(ctx, apt.ID, patient)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestComplete(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	slot := addSlotAt(t, svc, doctor.ID, today(), 10)
	patient := testPatient()

	apt, err := svc.Book(ctx, patient, doctor.ID, slot.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Complete(ctx, apt.ID))

	listed, err := svc.ListPatientAppointments(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, model.AppointmentStatusCompleted, listed[0].Status)

	err = svc.Complete(ctx, apt.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	err = svc.Complete(ctx, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrAppointmentNotFound))
}

func TestListPatientAppointmentsScopedToPatient(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	doctor := testDoctor("Dr. Rao", "Cardiologist")
	require.NoError(t, svc.AddDoctor(ctx, doctor))
	day := today()
	slotA := addSlotAt(t, svc, doctor.ID, day, 10)
	slotB := addSlotAt(t, svc, doctor.ID, day, 11)

	asha := testPatient()
	ravi := testPatient()

	_, err := svc.Book(ctx, asha, doctor.ID, slotA.ID)
	require.NoError(t, err)
	_, err = svc.Book(ctx, ravi, doctor.ID, slotB.ID)
	require.NoError(t, err)

	mine, err := svc.ListPatientAppointments(ctx, asha.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, slotA.ID, mine[0].SlotID)
}
