// Package recommendation turns the free-slot inventory and a patient request
// into an AI triage suggestion. The external model is best-effort by
// contract: transport and parse failures degrade to an empty result, never
// an error surfaced to the caller.
package recommendation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/pkg/genai"
	"github.com/medibook/booking-api/pkg/metrics"
)

// SlotSource is the slice of the appointment service this service reads.
type SlotSource interface {
	ListDoctors(ctx context.Context, filters *model.DoctorFilters) ([]*model.User, error)
	GetDoctorSlots(ctx context.Context, doctorID uuid.UUID, date *time.Time) ([]*model.TimeSlot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
}

// NoFreeSlots is the sentinel context line sent to the model when nothing is
// bookable.
const NoFreeSlots = "No free slots."

type Service struct {
	client  genai.Client
	slots   SlotSource
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewService(client genai.Client, slots SlotSource, m *metrics.Metrics, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		client:  client,
		slots:   slots,
		metrics: m,
		timeout: timeout,
	}
}

// BuildContext enumerates every currently free slot across doctors matching
// the speciality filter into a line-oriented text block.
func (s *Service) BuildContext(ctx context.Context, speciality string) (string, error) {
	var filters *model.DoctorFilters
	if speciality != "" {
		filters = &model.DoctorFilters{Speciality: speciality}
	}

	doctors, err := s.slots.ListDoctors(ctx, filters)
	if err != nil {
		return "", fmt.Errorf("failed to list doctors: %w", err)
	}

	var lines []string
	for _, d := range doctors {
		slots, err := s.slots.GetDoctorSlots(ctx, d.ID, nil)
		if err != nil {
			return "", fmt.Errorf("failed to list slots: %w", err)
		}
		for _, slot := range slots {
			if slot.Booked {
				continue
			}
			lines = append(lines, fmt.Sprintf(
				"Doctor %s (%s), doctor_id=%s, slot_id=%s, date=%s, start=%s, end=%s",
				d.Name, d.Doctor.Speciality, d.ID, slot.ID,
				slot.Date.Format("2006-01-02"),
				slot.StartTime.Format("15:04"),
				slot.EndTime.Format("15:04"),
			))
		}
	}

	if len(lines) == 0 {
		return NoFreeSlots, nil
	}
	return strings.Join(lines, "\n"), nil
}

// RecommendSlot asks the model to pick a free slot for the patient. A nil
// result with a nil error means "no recommendation": the model had nothing,
// or the call or parse failed. The caller cannot tell which, by contract.
func (s *Service) RecommendSlot(ctx context.Context, patient *model.User, speciality, urgency string, constraints map[string]string) (*model.SlotRecommendation, error) {
	slotContext, err := s.BuildContext(ctx, speciality)
	if err != nil {
		return nil, err
	}

	prompt := s.buildRecommendPrompt(patient, urgency, constraints, slotContext)
	reply, ok := s.generate(ctx, "recommend", prompt)
	if !ok {
		return nil, nil
	}

	obj, err := extractJSONObject(reply)
	if err != nil {
		s.countParseFailure()
		log.Debug().Err(err).Msg("model reply had no usable JSON object")
		return nil, nil
	}

	rec := &model.SlotRecommendation{
		DoctorID: stringField(obj, "doctor_id"),
		SlotID:   stringField(obj, "slot_id"),
		Reason:   stringField(obj, "reason"),
	}
	if rec.DoctorID == "" || rec.SlotID == "" {
		s.countParseFailure()
		return nil, nil
	}

	if !s.recommendationIsBookable(ctx, rec) {
		s.countEmpty()
		return nil, nil
	}
	return rec, nil
}

// ParseNaturalQuery extracts structured hints from a free-text request.
// Failures collapse to zero-value hints.
func (s *Service) ParseNaturalQuery(ctx context.Context, text string) (model.QueryHints, error) {
	prompt := fmt.Sprintf("Parse: %q\nReturn JSON with speciality, urgency, preferred_time_of_day, date_hint (or null if missing).", text)

	reply, ok := s.generate(ctx, "parse", prompt)
	if !ok {
		return model.QueryHints{}, nil
	}

	obj, err := extractJSONObject(reply)
	if err != nil {
		s.countParseFailure()
		return model.QueryHints{}, nil
	}

	return model.QueryHints{
		Speciality:         stringField(obj, "speciality"),
		Urgency:            stringField(obj, "urgency"),
		PreferredTimeOfDay: stringField(obj, "preferred_time_of_day"),
		DateHint:           stringField(obj, "date_hint"),
	}, nil
}

func (s *Service) buildRecommendPrompt(patient *model.User, urgency string, constraints map[string]string, slotContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s\n", patient.Name)
	fmt.Fprintf(&b, "Urgency: %s\n", urgency)

	if len(constraints) > 0 {
		keys := make([]string, 0, len(constraints))
		for k := range constraints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Constraints:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, constraints[k])
		}
	}

	fmt.Fprintf(&b, "Available slots:\n%s\n", slotContext)
	b.WriteString("Return JSON with doctor_id, slot_id, reason.")
	return b.String()
}

// generate runs the model call under the service timeout. The bool result is
// false on any transport failure.
func (s *Service) generate(ctx context.Context, operation, prompt string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.client.GenerateContent(ctx, prompt)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.AILatency.Observe(elapsed.Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.AIRequests.WithLabelValues(operation, status).Inc()
	}

	if err != nil {
		log.Warn().Err(err).Str("operation", operation).Dur("elapsed", elapsed).Msg("model call failed")
		return "", false
	}
	return reply, true
}

// recommendationIsBookable re-checks the model's pick against the live slot
// table: the slot must exist, be free, and belong to the doctor the model
// named.
func (s *Service) recommendationIsBookable(ctx context.Context, rec *model.SlotRecommendation) bool {
	slotID, err := uuid.Parse(rec.SlotID)
	if err != nil {
		return false
	}
	doctorID, err := uuid.Parse(rec.DoctorID)
	if err != nil {
		return false
	}

	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return false
	}
	return !slot.Booked && slot.DoctorID == doctorID
}

func (s *Service) countParseFailure() {
	if s.metrics != nil {
		s.metrics.AIParseFailures.Inc()
	}
}

func (s *Service) countEmpty() {
	if s.metrics != nil {
		s.metrics.AIEmptyResults.Inc()
	}
}
