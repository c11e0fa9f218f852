package appointment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/email"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/metrics"
)

// Service owns the doctor directory, the slot table and the appointment
// table. All mutation of those stores goes through here.
type Service struct {
	doctors      repository.DoctorRepository
	slots        repository.SlotRepository
	appointments repository.AppointmentRepository
	emailSvc     email.Service
	metrics      *metrics.Metrics
	now          func() time.Time

	// bookMu serializes the check-then-act on the booked flag so two
	// requests can never book the same slot. It also keeps the
	// flip-and-create pair of Book one logical unit.
	bookMu sync.Mutex
}

func NewService(doctors repository.DoctorRepository, slots repository.SlotRepository,
	appointments repository.AppointmentRepository, emailSvc email.Service, m *metrics.Metrics) *Service {
	if emailSvc == nil {
		emailSvc = email.NewNoopService()
	}
	return &Service{
		doctors:      doctors,
		slots:        slots,
		appointments: appointments,
		emailSvc:     emailSvc,
		metrics:      m,
		now:          time.Now,
	}
}

// AddDoctor upserts a doctor into the directory, keyed by ID.
func (s *Service) AddDoctor(ctx context.Context, doctor *model.User) error {
	if doctor == nil || !doctor.IsDoctor() || doctor.Doctor == nil {
		return apperrors.NewBadRequest("directory entries must be doctors", nil)
	}
	if err := s.doctors.Upsert(ctx, doctor); err != nil {
		return fmt.Errorf("failed to add doctor: %w", err)
	}
	return nil
}

// ListDoctors returns doctors matching the filters, in enrollment order.
// Speciality filters by case-insensitive equality; Query by substring over
// name and speciality.
func (s *Service) ListDoctors(ctx context.Context, filters *model.DoctorFilters) ([]*model.User, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	if filters == nil {
		return doctors, nil
	}

	out := make([]*model.User, 0, len(doctors))
	for _, d := range doctors {
		if d.Doctor == nil {
			continue
		}
		if filters.Speciality != "" && !strings.EqualFold(d.Doctor.Speciality, filters.Speciality) {
			continue
		}
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(d.Name), q) &&
				!strings.Contains(strings.ToLower(d.Doctor.Speciality), q) {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// GetDoctor looks a doctor up in the directory.
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.User, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	return doctor, nil
}

// AddSlot upserts a slot, keyed by ID. The owning doctor must already be in
// the directory, and at most one slot may exist per (doctor, date, start).
func (s *Service) AddSlot(ctx context.Context, slot *model.TimeSlot) error {
	if _, err := s.doctors.Get(ctx, slot.DoctorID); err != nil {
		return apperrors.NewBadRequest("slot references an unknown doctor", err)
	}

	slot.Date = truncateToDay(slot.Date)

	existing, err := s.slots.ListByDoctor(ctx, slot.DoctorID)
	if err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}
	for _, other := range existing {
		if other.ID != slot.ID && other.Date.Equal(slot.Date) && other.StartTime.Equal(slot.StartTime) {
			return apperrors.NewBadRequest("a slot already exists for this doctor at this time", nil)
		}
	}

	if err := s.slots.Upsert(ctx, slot); err != nil {
		return fmt.Errorf("failed to add slot: %w", err)
	}
	return nil
}

// GetDoctorSlots returns the doctor's slots, optionally restricted to a
// calendar date, sorted ascending by (date, start time). The date comparison
// ignores time-of-day.
func (s *Service) GetDoctorSlots(ctx context.Context, doctorID uuid.UUID, date *time.Time) ([]*model.TimeSlot, error) {
	slots, err := s.slots.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	if date != nil {
		// Compare calendar components, not instants: the query date may
		// carry a different zone than the stored slots.
		y, m, d := date.Date()
		filtered := slots[:0]
		for _, slot := range slots {
			sy, sm, sd := slot.Date.Date()
			if sy == y && sm == m && sd == d {
				filtered = append(filtered, slot)
			}
		}
		slots = filtered
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots, nil
}

// GetSlot looks a slot up by ID.
func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	slot, err := s.slots.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("slot", err)
	}
	return slot, nil
}

// Book creates an appointment for the patient on the given slot. The booked
// flag flip and the appointment creation are one logical unit: either both
// happen or neither does.
func (s *Service) Book(ctx context.Context, patient *model.User, doctorID, slotID uuid.UUID) (*model.Appointment, error) {
	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	slot, err := s.slots.Get(ctx, slotID)
	if err != nil || slot.DoctorID != doctorID {
		s.countBookingFailure("invalid_slot")
		return nil, apperrors.InvalidSlot(slotID.String())
	}

	if slot.Booked {
		s.countBookingFailure("slot_unavailable")
		return nil, apperrors.SlotUnavailable(slotID.String())
	}

	apt := &model.Appointment{
		ID:        uuid.New(),
		PatientID: patient.ID,
		DoctorID:  doctorID,
		SlotID:    slotID,
		Status:    model.AppointmentStatusBooked,
		CreatedAt: s.now(),
	}

	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	slot.Booked = true
	if err := s.slots.Upsert(ctx, slot); err != nil {
		// Roll the pair back so no appointment exists for a free slot.
		apt.Status = model.AppointmentStatusCancelled
		if uerr := s.appointments.Update(ctx, apt); uerr != nil {
			log.Error().Err(uerr).Str("appointment_id", apt.ID.String()).Msg("failed to roll back appointment")
		}
		return nil, fmt.Errorf("failed to mark slot booked: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.Inc()
		s.metrics.AppointmentsByState.WithLabelValues(string(model.AppointmentStatusBooked)).Inc()
	}
	s.notify(ctx, patient, slot, false)

	return apt, nil
}

// Cancel sets a booked appointment to cancelled and frees its slot. Only the
// owning patient may cancel; a missing or foreign appointment looks the same
// to the caller.
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID, patient *model.User) error {
	s.bookMu.Lock()
	defer s.bookMu.Unlock()

	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil || apt.PatientID != patient.ID {
		return apperrors.AppointmentNotFound(appointmentID.String())
	}

	if apt.Status != model.AppointmentStatusBooked {
		return apperrors.NewBadRequest(fmt.Sprintf("appointment is already %s", apt.Status), nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.appointments.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	// Free the slot regardless of what any stale listing shows.
	slot, err := s.slots.Get(ctx, apt.SlotID)
	if err == nil {
		slot.Booked = false
		if err := s.slots.Upsert(ctx, slot); err != nil {
			log.Error().Err(err).Str("slot_id", slot.ID.String()).Msg("failed to free slot")
		}
		s.notify(ctx, patient, slot, true)
	}

	if s.metrics != nil {
		s.metrics.CancellationsTotal.Inc()
		s.metrics.AppointmentsByState.WithLabelValues(string(model.AppointmentStatusBooked)).Dec()
		s.metrics.AppointmentsByState.WithLabelValues(string(model.AppointmentStatusCancelled)).Inc()
	}
	return nil
}

// Complete marks a booked appointment completed. Completion is manual only;
// nothing in this service moves appointments on elapsed time.
func (s *Service) Complete(ctx context.Context, appointmentID uuid.UUID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return apperrors.AppointmentNotFound(appointmentID.String())
	}

	if apt.Status != model.AppointmentStatusBooked {
		return apperrors.NewBadRequest(fmt.Sprintf("appointment is already %s", apt.Status), nil)
	}

	apt.Status = model.AppointmentStatusCompleted
	if err := s.appointments.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to complete appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsByState.WithLabelValues(string(model.AppointmentStatusBooked)).Dec()
		s.metrics.AppointmentsByState.WithLabelValues(string(model.AppointmentStatusCompleted)).Inc()
	}
	return nil
}

// ListPatientAppointments returns the patient's appointments in any status.
func (s *Service) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) notify(ctx context.Context, patient *model.User, slot *model.TimeSlot, cancelled bool) {
	doctor, err := s.doctors.Get(ctx, slot.DoctorID)
	if err != nil {
		return
	}

	if cancelled {
		err = s.emailSvc.SendCancellationNotice(ctx, patient.Email, doctor, slot)
	} else {
		err = s.emailSvc.SendBookingConfirmation(ctx, patient.Email, doctor, slot)
	}
	if err != nil {
		log.Warn().Err(err).Str("patient_id", patient.ID.String()).Msg("failed to send booking notice")
	}
}

func (s *Service) countBookingFailure(reason string) {
	if s.metrics != nil {
		s.metrics.BookingFailures.WithLabelValues(reason).Inc()
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
