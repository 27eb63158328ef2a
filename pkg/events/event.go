package events

import "time"

// Event is the contract every domain event satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g. "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event codes emitted by the application.
const (
	TypeUserLogin     = "USER_LOGIN"
	TypeNoteCreated   = "NOTE_CREATED"
	TypeNoteDeleted   = "NOTE_DELETED"
	TypeFolderDeleted = "FOLDER_DELETED"
)

// BaseEvent is the plain implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
