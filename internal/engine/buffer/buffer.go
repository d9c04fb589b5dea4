package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scribe-editor/scribe/internal/engine/rope"
)

// Errors returned by buffer operations. Callers are expected to clamp
// positions before mutating; these surface only programming mistakes.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer owns a document's text. It wraps an immutable rope with a revision
// counter and the line/column views the editing core works in. Methods are
// safe for concurrent readers; all mutation happens on the command loop.
type Buffer struct {
	mu       sync.RWMutex
	id       uuid.UUID
	rope     rope.Rope
	revision Revision
	tabWidth int
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:       uuid.New(),
		rope:     rope.New(),
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content. Line endings are
// normalized to LF.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(normalizeLineEndings(s))
	return b
}

// NewFromReader creates a buffer from all content of r.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR to LF. The core reasons about a
// single newline byte everywhere; persistence can reapply a style on save.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ID returns the buffer's stable identity, used to key change events.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Revision returns the current revision.
func (b *Buffer) Revision() Revision {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Text returns the full content. Prefer TextRange or LineText for large
// buffers.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// Len returns the total byte length.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// LineText returns the text of a line without its newline.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// LineLen returns the length of a line in characters, without its newline.
func (b *Buffer) LineLen(line uint32) uint32 {
	return uint32(utf8.RuneCountInString(b.LineText(line)))
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line, before its
// newline.
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineEndOffset(line)
}

// FirstNonBlankColumn returns the column of the first non-whitespace
// character on the line, or the line length for blank lines.
func (b *Buffer) FirstNonBlankColumn(line uint32) uint32 {
	var col uint32
	for _, r := range b.LineText(line) {
		if r != ' ' && r != '\t' {
			break
		}
		col++
	}
	return col
}

// OffsetToPosition converts a byte offset to a line/column position.
// Offsets past the end map to the end-of-document position.
func (b *Buffer) OffsetToPosition(offset ByteOffset) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset <= 0 {
		return Position{}
	}
	if offset > b.rope.Len() {
		offset = b.rope.Len()
	}

	line := b.rope.LineAt(offset)
	lineStart := b.rope.LineStartOffset(line)
	col := utf8.RuneCountInString(b.rope.Slice(lineStart, offset))
	return Position{Line: line, Column: uint32(col)}
}

// PositionToOffset converts a line/column position to a byte offset. The
// column is clamped to the line length; lines past the end map to the end of
// the document.
func (b *Buffer) PositionToOffset(pos Position) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if pos.Line >= b.rope.LineCount() {
		return b.rope.Len()
	}

	start := b.rope.LineStartOffset(pos.Line)
	text := b.rope.Slice(start, b.rope.LineEndOffset(pos.Line))

	var col uint32
	for i := range text {
		if col == pos.Column {
			return start + ByteOffset(i)
		}
		col++
	}
	return start + ByteOffset(len(text))
}

// ClampPosition returns the nearest valid position to pos.
func (b *Buffer) ClampPosition(pos Position) Position {
	lineCount := b.LineCount()
	if pos.Line >= lineCount {
		pos.Line = lineCount - 1
		pos.Column = b.LineLen(pos.Line)
		return pos
	}
	if lineLen := b.LineLen(pos.Line); pos.Column > lineLen {
		pos.Column = lineLen
	}
	return pos
}

// EndPosition returns the position just past the last character.
func (b *Buffer) EndPosition() Position {
	last := b.LineCount() - 1
	return Position{Line: last, Column: b.LineLen(last)}
}

// Insert inserts text at offset, returning the offset just past the
// inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > b.rope.Len() {
		return 0, ErrOffsetOutOfRange
	}

	text = normalizeLineEndings(text)
	b.rope = b.rope.Insert(offset, text)
	b.revision++
	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in [start, end), returning the removed text.
func (b *Buffer) Delete(start, end ByteOffset) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.rope.Len() {
		return "", ErrRangeInvalid
	}

	old := b.rope.Slice(start, end)
	b.rope = b.rope.Delete(start, end)
	b.revision++
	return old, nil
}

// Replace replaces [start, end) with text and reports what changed.
func (b *Buffer) Replace(start, end ByteOffset, text string) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.rope.Len() {
		return EditResult{}, ErrRangeInvalid
	}

	old := b.rope.Slice(start, end)
	text = normalizeLineEndings(text)
	b.rope = b.rope.Replace(start, end, text)
	b.revision++

	return EditResult{
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: start + ByteOffset(len(text))},
		OldText:  old,
		Delta:    ByteOffset(len(text)) - (end - start),
	}, nil
}

// ApplyEdit applies a single edit.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	return b.Replace(edit.Range.Start, edit.Range.End, edit.NewText)
}
