package domain

import "strings"

// ChangeEvent is the loosely-typed shape domain services publish on Kafka
// when a resource changes. Fields are a superset across event sources; each
// consumer-side handler picks the ones its stream carries.
type ChangeEvent struct {
	Entity          string         `json:"entity"`
	Action          string         `json:"action"`
	SubjectID       string         `json:"subject_id"`
	ResourceID      string         `json:"resource_id"`
	Status          string         `json:"status"`
	Reason          string         `json:"reason"`
	AvailableSpaces int            `json:"available_spaces"`
	Message         string         `json:"message"`
	Severity        string         `json:"severity"`
	Data            map[string]any `json:"data"`
}

// Normalize trims identifier fields in place and fills defaults so handlers
// can rely on a consistent shape.
func (e *ChangeEvent) Normalize() {
	e.Entity = strings.TrimSpace(e.Entity)
	e.Action = strings.TrimSpace(e.Action)
	e.SubjectID = strings.TrimSpace(e.SubjectID)
	e.ResourceID = strings.TrimSpace(e.ResourceID)
	e.Status = strings.TrimSpace(e.Status)
	if e.Severity == "" {
		e.Severity = "info"
	}
}
