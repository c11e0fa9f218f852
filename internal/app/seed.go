package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/model"
)

// SeedConfig controls the demo dataset created at startup. The demo doctor
// with five fixed slots is always created; the extended roster is optional.
type SeedConfig struct {
	DemoPassword   string `mapstructure:"demo_password"`
	ExtendedRoster bool   `mapstructure:"extended_roster"`
}

// seedSlotHours are the start hours of the demo doctor's one-hour slots.
var seedSlotHours = []int{10, 11, 12, 15, 16}

// rosterEntry mirrors the static doctor directory of the original demo.
type rosterEntry struct {
	name       string
	speciality string
	years      int
	location   string
}

var extendedRoster = []rosterEntry{
	{"Dr. Sarah Johnson", "Cardiology", 12, "New York"},
	{"Dr. Michael Chen", "Neurology", 8, "San Francisco"},
	{"Dr. Emily Rodriguez", "Dermatology", 6, "Los Angeles"},
	{"Dr. James Wilson", "Orthopedics", 15, "Chicago"},
	{"Dr. Lisa Anderson", "Pediatrics", 10, "Houston"},
	{"Dr. Robert Kumar", "Oncology", 20, "Boston"},
	{"Dr. Jessica Lee", "Pulmonology", 9, "Seattle"},
	{"Dr. David Martinez", "Gastroenterology", 14, "Miami"},
	{"Dr. Priya Patel", "Psychiatry", 11, "Denver"},
	{"Dr. Christopher Brown", "Ophthalmology", 7, "Austin"},
	{"Dr. Amanda White", "Endocrinology", 13, "Philadelphia"},
	{"Dr. Thomas Garcia", "Urology", 18, "Dallas"},
	{"Dr. Victoria Lee", "Rheumatology", 9, "Portland"},
	{"Dr. William Harris", "Nephrology", 12, "Atlanta"},
	{"Dr. Sophie Clark", "Hematology", 10, "Phoenix"},
}

// Seed creates the demo doctor "Dr. Arjun Rao" with five one-hour slots
// today at hours 10, 11, 12, 15 and 16, and optionally the extended roster.
// Seeding is demo scaffolding, not a data-loading mechanism.
func (c *Controller) Seed(ctx context.Context, cfg SeedConfig) error {
	password := cfg.DemoPassword
	if password == "" {
		password = "doctor123"
	}

	doctor, err := c.auth.RegisterDoctor(ctx, &model.RegisterDoctorRequest{
		Name:             "Dr. Arjun Rao",
		Email:            "arjun@medibook.local",
		Password:         password,
		Speciality:       "Cardiologist",
		ExperienceYears:  8,
		Location:         "Hyderabad",
		ConsultationMode: "In-person",
	})
	if err != nil {
		return fmt.Errorf("failed to seed demo doctor: %w", err)
	}

	if err := c.seedSlots(ctx, doctor.ID); err != nil {
		return err
	}

	if cfg.ExtendedRoster {
		if err := c.seedRoster(ctx, password); err != nil {
			return err
		}
	}

	log.Info().Bool("extended_roster", cfg.ExtendedRoster).Msg("demo data seeded")
	return nil
}

func (c *Controller) seedSlots(ctx context.Context, doctorID uuid.UUID) error {
	today := truncateToDay(time.Now())
	for _, hour := range seedSlotHours {
		slot := &model.TimeSlot{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			Date:      today,
			StartTime: today.Add(time.Duration(hour) * time.Hour),
			EndTime:   today.Add(time.Duration(hour+1) * time.Hour),
		}
		if err := c.appointments.AddSlot(ctx, slot); err != nil {
			return fmt.Errorf("failed to seed slot at hour %d: %w", hour, err)
		}
	}
	return nil
}

func (c *Controller) seedRoster(ctx context.Context, password string) error {
	for _, entry := range extendedRoster {
		_, err := c.auth.RegisterDoctor(ctx, &model.RegisterDoctorRequest{
			Name:            entry.name,
			Email:           rosterEmail(entry.name),
			Password:        password,
			Speciality:      entry.speciality,
			ExperienceYears: entry.years,
			Location:        entry.location,
		})
		if err != nil {
			return fmt.Errorf("failed to seed roster doctor %s: %w", entry.name, err)
		}
	}
	return nil
}

func rosterEmail(name string) string {
	slug := strings.ToLower(strings.TrimPrefix(name, "Dr. "))
	slug = strings.ReplaceAll(slug, " ", ".")
	return slug + "@medibook.local"
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
