// Package app composes the auth and appointment services behind the façade
// the presentation layer talks to, and seeds the demo dataset at startup.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/appointment"
	"github.com/medibook/booking-api/internal/service/auth"
	"github.com/medibook/booking-api/internal/service/recommendation"
)

// Controller is a thin façade over the services. It adds no invariants of
// its own; every operation delegates to the owning service.
type Controller struct {
	auth            *auth.Service
	appointments    *appointment.Service
	recommendations *recommendation.Service // nil when AI is not configured
}

func NewController(authSvc *auth.Service, apptSvc *appointment.Service, recSvc *recommendation.Service) *Controller {
	return &Controller{
		auth:            authSvc,
		appointments:    apptSvc,
		recommendations: recSvc,
	}
}

// Auth exposes the auth service for handler wiring.
func (c *Controller) Auth() *auth.Service { return c.auth }

// Appointments exposes the appointment service for handler wiring.
func (c *Controller) Appointments() *appointment.Service { return c.appointments }

// Recommendations exposes the AI service, or nil when disabled.
func (c *Controller) Recommendations() *recommendation.Service { return c.recommendations }

func (c *Controller) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	return c.auth.Login(ctx, email, password)
}

func (c *Controller) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.User, error) {
	return c.auth.RegisterPatient(ctx, req)
}

func (c *Controller) GetDoctors(ctx context.Context, speciality string) ([]*model.User, error) {
	var filters *model.DoctorFilters
	if speciality != "" {
		filters = &model.DoctorFilters{Speciality: speciality}
	}
	return c.appointments.ListDoctors(ctx, filters)
}

func (c *Controller) GetDoctorSlots(ctx context.Context, doctorID uuid.UUID, date *time.Time) ([]*model.TimeSlot, error) {
	return c.appointments.GetDoctorSlots(ctx, doctorID, date)
}

func (c *Controller) BookAppointment(ctx context.Context, patientID, doctorID, slotID uuid.UUID) (*model.Appointment, error) {
	patient, err := c.auth.GetUser(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return c.appointments.Book(ctx, patient, doctorID, slotID)
}

func (c *Controller) CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) error {
	patient, err := c.auth.GetUser(ctx, patientID)
	if err != nil {
		return err
	}
	return c.appointments.Cancel(ctx, appointmentID, patient)
}

func (c *Controller) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	return c.appointments.ListPatientAppointments(ctx, patientID)
}
