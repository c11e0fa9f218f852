package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
	RoleAdmin   UserRole = "admin"
)

// User represents a system user. Role-specific data lives in the profile
// matching the role; at most one profile is non-nil.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         UserRole        `json:"role"`
	Patient      *PatientProfile `json:"patient,omitempty"`
	Doctor       *DoctorProfile  `json:"doctor,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PatientProfile carries the patient-specific registration fields.
type PatientProfile struct {
	Age                 int    `json:"age,omitempty"`
	Gender              string `json:"gender,omitempty"`
	PreferredSpeciality string `json:"preferred_speciality,omitempty"`
}

// DoctorProfile carries the doctor-specific registration fields.
type DoctorProfile struct {
	Speciality       string `json:"speciality"`
	ExperienceYears  int    `json:"experience_years"`
	Location         string `json:"location"`
	ConsultationMode string `json:"consultation_mode"`
}

// NormalizeEmail lowercases an email address. Emails are unique
// case-insensitively, so every index lookup goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Clone returns a deep copy of the user, role profile included. Stores
// clone on the way in and out so callers never share profile pointers
// with stored state.
func (u *User) Clone() *User {
	out := *u
	if u.Patient != nil {
		p := *u.Patient
		out.Patient = &p
	}
	if u.Doctor != nil {
		d := *u.Doctor
		out.Doctor = &d
	}
	return &out
}

// IsPatient reports whether the user carries the patient role.
func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsDoctor reports whether the user carries the doctor role.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
