package model

// SlotRecommendation is the validated result of an AI triage suggestion.
// The IDs are kept as strings: they echo what the model produced and are
// re-checked against the live slot table before use.
type SlotRecommendation struct {
	DoctorID string `json:"doctor_id"`
	SlotID   string `json:"slot_id"`
	Reason   string `json:"reason"`
}

// QueryHints holds the structured hints pulled out of a free-text request.
// All fields may be empty; an all-empty value means the parse produced
// nothing usable.
type QueryHints struct {
	Speciality         string `json:"speciality,omitempty"`
	Urgency            string `json:"urgency,omitempty"`
	PreferredTimeOfDay string `json:"preferred_time_of_day,omitempty"`
	DateHint           string `json:"date_hint,omitempty"`
}

// Empty reports whether no hint was extracted.
func (q QueryHints) Empty() bool {
	return q == QueryHints{}
}

type RecommendRequest struct {
	Speciality  string            `json:"speciality" binding:"omitempty,max=100"`
	Urgency     string            `json:"urgency" binding:"required,oneof=low medium high"`
	Constraints map[string]string `json:"constraints" binding:"omitempty"`
}

type ParseQueryRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}
