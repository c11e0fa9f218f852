package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// TimeSlot is a fixed one-hour window owned by exactly one doctor. Date is
// truncated to midnight; StartTime and EndTime carry the clock times on that
// date.
type TimeSlot struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Booked    bool      `json:"booked"`
}

// Appointment links one patient to one doctor via one slot.
type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	PatientID uuid.UUID         `json:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id"`
	SlotID    uuid.UUID         `json:"slot_id"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
	SlotID   string `json:"slot_id" binding:"required,uuid"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// DoctorFilters narrows doctor listings. Speciality is matched by
// case-insensitive equality; Query is a substring search over doctor name
// and speciality.
type DoctorFilters struct {
	Speciality string `form:"speciality"`
	Query      string `form:"q"`
}

// SlotFilters narrows slot listings to a calendar date, ignoring
// time-of-day.
type SlotFilters struct {
	Date *time.Time
}
