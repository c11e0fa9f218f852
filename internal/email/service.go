package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/medibook/booking-api/internal/model"
)

// Service sends patient-facing booking notices. Sends are best-effort: the
// booking flow logs failures and continues.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, doctor *model.User, slot *model.TimeSlot) error
	SendCancellationNotice(ctx context.Context, to string, doctor *model.User, slot *model.TimeSlot) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether SMTP is configured.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type smtpService struct {
	cfg    Config
	dialer *gomail.Dialer
}

// NewSMTPService builds a gomail-backed sender.
func NewSMTPService(cfg Config) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) SendBookingConfirmation(_ context.Context, to string, doctor *model.User, slot *model.TimeSlot) error {
	subject := "Your appointment is booked"
	body := fmt.Sprintf("Your appointment with %s on %s at %s is confirmed.",
		doctor.Name, slot.Date.Format("2006-01-02"), slot.StartTime.Format("15:04"))
	return s.send(to, subject, body)
}

func (s *smtpService) SendCancellationNotice(_ context.Context, to string, doctor *model.User, slot *model.TimeSlot) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf("Your appointment with %s on %s at %s has been cancelled and the slot released.",
		doctor.Name, slot.Date.Format("2006-01-02"), slot.StartTime.Format("15:04"))
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noopService struct{}

// NewNoopService returns a sender that does nothing. Used when SMTP is not
// configured.
func NewNoopService() Service {
	return noopService{}
}

func (noopService) SendBookingConfirmation(context.Context, string, *model.User, *model.TimeSlot) error {
	return nil
}

func (noopService) SendCancellationNotice(context.Context, string, *model.User, *model.TimeSlot) error {
	return nil
}
