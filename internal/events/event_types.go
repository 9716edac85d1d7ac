package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentSaved EventType = "department_saved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	DepartmentID string      `json:"department_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// DepartmentSavedPayload payload.
type DepartmentSavedPayload struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Head     string `json:"head"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType EventType, departmentID string, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		DepartmentID: departmentID,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}
