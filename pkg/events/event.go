package events

import "time"

// Note lifecycle event types published on the in-process bus.
const (
	NoteCreated       = "NOTE_CREATED"
	NoteUpdated       = "NOTE_UPDATED"
	NoteDeleted       = "NOTE_DELETED"
	NoteArchiveToggle = "NOTE_ARCHIVE_TOGGLED"
	CategoryAssigned  = "CATEGORY_ASSIGNED"
	CategoryRemoved   = "CATEGORY_REMOVED"
)

// NoteEvent is the wire shape carried on the note-events topic.
type NoteEvent struct {
	Type       string    `json:"type"`
	NoteId     uint      `json:"note_id"`
	Title      string    `json:"title,omitempty"`
	CategoryId uint      `json:"category_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
