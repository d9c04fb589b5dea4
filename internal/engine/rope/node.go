package rope

import (
	"strings"
	"unicode/utf8"
)

// Tree structure constants.
const (
	// maxLeafBytes is the maximum text length held by a single leaf.
	maxLeafBytes = 512

	// maxChildren is the maximum children per internal node.
	maxChildren = 8
)

// node is a node in the rope B-tree. Leaves (height 0) hold text; internal
// nodes hold children plus per-child summaries for seeking without descent.
// Nodes are immutable once linked into a rope.
type node struct {
	height uint8
	sum    summary

	// Internal node fields (height > 0)
	children  []*node
	childSums []summary

	// Leaf node field (height == 0)
	text string
}

func newLeaf(text string) *node {
	return &node{height: 0, sum: summarize(text), text: text}
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf("")
	}

	height := children[0].height + 1
	sums := make([]summary, len(children))
	var total summary
	for i, c := range children {
		sums[i] = c.sum
		total = total.add(c.sum)
	}

	return &node{
		height:    height,
		sum:       total,
		children:  children,
		childSums: sums,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// appendTo writes the subtree's text to sb in document order.
func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.appendTo(sb)
	}
}

// appendRange writes text in [start, end) to sb.
func (n *node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	if n.isLeaf() {
		lo, hi := int(start), int(end)
		if lo < 0 {
			lo = 0
		}
		if hi > len(n.text) {
			hi = len(n.text)
		}
		if lo < hi {
			sb.WriteString(n.text[lo:hi])
		}
		return
	}

	var off ByteOffset
	for i, c := range n.children {
		clen := n.childSums[i].Bytes
		cend := off + clen
		if cend <= start {
			off = cend
			continue
		}
		if off >= end {
			break
		}
		cstart := ByteOffset(0)
		if start > off {
			cstart = start - off
		}
		cstop := clen
		if end < cend {
			cstop = end - off
		}
		c.appendRange(sb, cstart, cstop)
		off = cend
	}
}

// split divides the subtree at offset. Left holds [0, offset), right holds
// [offset, end).
func (n *node) split(offset ByteOffset) (*node, *node) {
	if offset <= 0 {
		return newLeaf(""), n
	}
	if offset >= n.sum.Bytes {
		return n, newLeaf("")
	}

	if n.isLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}

	var leftKids, rightKids []*node
	var off ByteOffset
	for i, c := range n.children {
		clen := n.childSums[i].Bytes
		switch {
		case off+clen <= offset:
			leftKids = append(leftKids, c)
		case off >= offset:
			rightKids = append(rightKids, c)
		default:
			l, r := c.split(offset - off)
			if l.sum.Bytes > 0 {
				leftKids = append(leftKids, l)
			}
			if r.sum.Bytes > 0 {
				rightKids = append(rightKids, r)
			}
		}
		off += clen
	}

	return fromNodes(leftKids), fromNodes(rightKids)
}

// fromNodes builds a tree over an ordered list of subtrees.
func fromNodes(children []*node) *node {
	switch len(children) {
	case 0:
		return newLeaf("")
	case 1:
		return children[0]
	}
	if len(children) <= maxChildren {
		return newInternal(children)
	}

	var parents []*node
	for i := 0; i < len(children); i += maxChildren {
		end := i + maxChildren
		if end > len(children) {
			end = len(children)
		}
		group := make([]*node, end-i)
		copy(group, children[i:end])
		parents = append(parents, newInternal(group))
	}
	return fromNodes(parents)
}

// concatNodes joins two subtrees preserving balance within a constant factor.
func concatNodes(left, right *node) *node {
	if left == nil || left.sum.Bytes == 0 {
		if right == nil {
			return newLeaf("")
		}
		return right
	}
	if right == nil || right.sum.Bytes == 0 {
		return left
	}

	if left.isLeaf() && right.isLeaf() {
		if len(left.text)+len(right.text) <= maxLeafBytes {
			return newLeaf(left.text + right.text)
		}
		return newInternal([]*node{left, right})
	}

	// Wrap the shorter tree until the heights match, then merge siblings.
	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return fromNodes(all)
}

// lineStart returns the byte offset where the given line begins within this
// subtree. Line 0 begins at offset 0; line k begins just past the kth newline.
func (n *node) lineStart(line uint32) ByteOffset {
	if line == 0 {
		return 0
	}

	if n.isLeaf() {
		idx := nthNewline(n.text, line)
		if idx < 0 {
			return n.sum.Bytes
		}
		return ByteOffset(idx) + 1
	}

	var lines uint32
	var off ByteOffset
	for i, c := range n.children {
		cs := n.childSums[i]
		if lines+cs.Lines >= line {
			return off + c.lineStart(line-lines)
		}
		lines += cs.Lines
		off += cs.Bytes
	}
	return n.sum.Bytes
}

// linesBefore counts newlines in [0, offset) within this subtree.
func (n *node) linesBefore(offset ByteOffset) uint32 {
	if offset <= 0 {
		return 0
	}
	if offset >= n.sum.Bytes {
		return n.sum.Lines
	}

	if n.isLeaf() {
		return newlinesBefore(n.text, int(offset))
	}

	var lines uint32
	var off ByteOffset
	for i, c := range n.children {
		cs := n.childSums[i]
		if off+cs.Bytes > offset {
			return lines + c.linesBefore(offset-off)
		}
		lines += cs.Lines
		off += cs.Bytes
	}
	return lines
}

// splitChunks divides s into leaf-sized pieces on rune boundaries.
func splitChunks(s string) []string {
	if len(s) <= maxLeafBytes {
		return []string{s}
	}

	var chunks []string
	for len(s) > 0 {
		if len(s) <= maxLeafBytes {
			chunks = append(chunks, s)
			break
		}
		cut := maxLeafBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLeafBytes
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return chunks
}
