// Package rope implements an immutable rope over a B-tree of text chunks.
// Every node carries byte and newline counts for its subtree, so offset and
// line seeks are O(log n) in document size. Operations return new Rope
// values; existing ropes are never modified, which makes snapshots free.
package rope

import (
	"io"
	"strings"
)

// Rope is an immutable text sequence.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}

	chunks := splitChunks(s)
	leaves := make([]*node, len(chunks))
	for i, c := range chunks {
		leaves[i] = newLeaf(c)
	}
	return Rope{root: fromNodes(leaves)}
}

// FromReader creates a rope from all content of r.
func FromReader(r io.Reader) (Rope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Rope{}, err
	}
	return FromString(string(data)), nil
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.sum.Bytes
}

// IsEmpty returns true if the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.sum.Lines + 1
}

// String returns the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Insert returns a rope with text inserted at offset.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if offset <= 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete returns a rope with the byte range [start, end) removed.
func (r Rope) Delete(start, end ByteOffset) Rope {
	if r.root == nil || start >= end {
		return r
	}

	total := r.Len()
	if start < 0 {
		start = 0
	}
	if start >= total {
		return r
	}
	if end > total {
		end = total
	}

	if start == 0 && end == total {
		return New()
	}
	if start == 0 {
		_, right := r.Split(end)
		return right
	}
	if end == total {
		left, _ := r.Split(start)
		return left
	}

	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split divides the rope at offset: left holds [0, offset), right the rest.
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	l, rt := r.root.split(offset)
	return Rope{root: l}, Rope{root: rt}
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

// LineStartOffset returns the byte offset where the given line begins.
// Past-the-end lines map to Len.
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line > r.root.sum.Lines {
		return r.Len()
	}
	return r.root.lineStart(line)
}

// LineEndOffset returns the byte offset of the end of the line, not
// counting its newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	if r.root == nil {
		return 0
	}
	if line >= r.root.sum.Lines {
		return r.Len()
	}
	return r.LineStartOffset(line+1) - 1
}

// LineText returns the text of the line without its newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// LineAt returns the line containing the given byte offset.
func (r Rope) LineAt(offset ByteOffset) uint32 {
	if r.root == nil || offset <= 0 {
		return 0
	}
	return r.root.linesBefore(offset)
}

// Height returns the tree height. Useful in balance tests.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}
