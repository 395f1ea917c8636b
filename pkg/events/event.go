package events

import "time"

const (
	TypeSelectionChanged  = "selection.changed"
	TypeTranscriptChanged = "transcript.changed"
	TypeDirectionChanged  = "direction.changed"
)

// Event defines the contract for all change notifications.
type Event interface {
	// EventType returns the unique code for this event (e.g., "selection.changed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	ProfileID  string                 `json:"profile_id"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewEvent(eventType, profileID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		ProfileID:  profileID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	payload := make(map[string]interface{}, len(e.Data)+1)
	for k, v := range e.Data {
		payload[k] = v
	}
	payload["profile_id"] = e.ProfileID
	return payload
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
