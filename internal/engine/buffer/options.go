package buffer

import "github.com/google/uuid"

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithID sets a specific buffer identity. Used by tests and by persistence
// when reopening a document under a known id.
func WithID(id uuid.UUID) Option {
	return func(b *Buffer) {
		b.id = id
	}
}
