package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	pkgauth "github.com/medibook/booking-api/pkg/auth"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/security"
)

// DoctorDirectory enrolls newly registered doctors into the appointment
// service's directory. Registration and enrollment stay in one place so a
// doctor account never exists without a directory entry.
type DoctorDirectory interface {
	AddDoctor(ctx context.Context, doctor *model.User) error
}

type Service struct {
	users     repository.UserRepository
	hasher    security.PasswordHasher
	jwtSvc    pkgauth.JWTService
	directory DoctorDirectory
	now       func() time.Time
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher,
	jwtSvc pkgauth.JWTService, directory DoctorDirectory) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		jwtSvc:    jwtSvc,
		directory: directory,
		now:       time.Now,
	}
}

// RegisterPatient creates a patient account keyed by lowercased email.
func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.User, error) {
	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  model.RolePatient,
		Patient: &model.PatientProfile{
			Age:                 req.Age,
			Gender:              req.Gender,
			PreferredSpeciality: req.PreferredSpeciality,
		},
	}
	return s.register(ctx, user, req.Password)
}

// RegisterDoctor creates a doctor account and enrolls it into the doctor
// directory.
func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.User, error) {
	mode := req.ConsultationMode
	if mode == "" {
		mode = "In-person"
	}

	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  model.RoleDoctor,
		Doctor: &model.DoctorProfile{
			Speciality:       req.Speciality,
			ExperienceYears:  req.ExperienceYears,
			Location:         req.Location,
			ConsultationMode: mode,
		},
	}

	user, err := s.register(ctx, user, req.Password)
	if err != nil {
		return nil, err
	}

	if s.directory != nil {
		if err := s.directory.AddDoctor(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to enroll doctor: %w", err)
		}
	}
	return user, nil
}

func (s *Service) register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid password", err)
	}

	user.ID = uuid.New()
	user.Email = model.NormalizeEmail(user.Email)
	user.PasswordHash = hash
	user.CreatedAt = s.now()

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.DuplicateEmail(user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Login verifies credentials and returns the user with a token pair. Unknown
// email and wrong password fail identically so the caller cannot tell which
// check rejected.
func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &model.LoginResponse{User: user, Tokens: tokens}, nil
}

// ValidateToken resolves a bearer token to its claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

// RefreshToken exchanges a refresh token for a fresh pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	return s.generateTokens(user)
}

// GetUser looks a user up by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("user", err)
	}
	return user, nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
