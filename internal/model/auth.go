package model

import (
	"github.com/google/uuid"
)

// AuthRequest types
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterPatientRequest struct {
	Name                string `json:"name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password" binding:"required,min=8"`
	Age                 int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender              string `json:"gender" binding:"omitempty,max=32"`
	PreferredSpeciality string `json:"preferred_speciality" binding:"omitempty,max=100"`
}

type RegisterDoctorRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	Speciality       string `json:"speciality" binding:"required,max=100"`
	ExperienceYears  int    `json:"experience_years" binding:"omitempty,gte=0"`
	Location         string `json:"location" binding:"omitempty,max=200"`
	ConsultationMode string `json:"consultation_mode" binding:"omitempty,oneof=In-person Online"`
}

// AuthResponse types
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	User   *User          `json:"user"`
	Tokens *TokenResponse `json:"tokens"`
}

// TokenClaims represents the validated subject of a JWT
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}
