package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/scribe-editor/scribe/internal/engine/buffer"
)

// Type is a hierarchical event type, e.g. "buffer.changed".
type Type string

// Event types published by the editing core.
const (
	TypeBufferChanged Type = "buffer.changed"
	TypeCursorMoved   Type = "cursor.moved"
	TypeConfigChanged Type = "config.changed"
)

// Metadata is attached to every event instance.
type Metadata struct {
	ID        uuid.UUID
	Timestamp time.Time
	Source    string
}

// Event is one published occurrence. Events are immutable once created.
type Event struct {
	Type     Type
	Payload  any
	Metadata Metadata
}

// New creates an event with fresh metadata.
func New(t Type, payload any, source string) Event {
	return Event{
		Type:    t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.New(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// BufferChanged is published after any buffer mutation, including undo and
// redo. Views watch it to re-clamp their cursors and re-render.
type BufferChanged struct {
	BufferID uuid.UUID
	Revision buffer.Revision
}

// CursorMoved is published when a view's cursor set changes without a
// buffer mutation.
type CursorMoved struct {
	BufferID uuid.UUID
	Line     uint32
	Column   uint32
}

// ConfigChanged is published when the configuration file is reloaded.
type ConfigChanged struct {
	Path string
}
