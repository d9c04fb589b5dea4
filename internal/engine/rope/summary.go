package rope

import "strings"

// ByteOffset is an absolute byte position in the rope.
type ByteOffset = int64

// summary holds aggregated metrics for a text span. It is the monoid the
// tree sums over: every internal node stores the combined summary of its
// subtree, which is what makes offset and line seeks logarithmic.
type summary struct {
	Bytes ByteOffset // UTF-8 byte count
	Lines uint32     // newline count
}

// add combines two summaries.
func (s summary) add(other summary) summary {
	return summary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
	}
}

// summarize computes metrics for a string.
func summarize(s string) summary {
	return summary{
		Bytes: ByteOffset(len(s)),
		Lines: uint32(strings.Count(s, "\n")),
	}
}

// nthNewline returns the byte index of the nth newline in s (1-indexed),
// or -1 if s contains fewer than n newlines.
func nthNewline(s string, n uint32) int {
	if n == 0 {
		return -1
	}
	var seen uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			seen++
			if seen == n {
				return i
			}
		}
	}
	return -1
}

// newlinesBefore counts newlines in s[:end].
func newlinesBefore(s string, end int) uint32 {
	if end > len(s) {
		end = len(s)
	}
	return uint32(strings.Count(s[:end], "\n"))
}
