package rope

import (
	"math/rand"
	"strings"
	"testing"
)

func TestEmptyRope(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("expected length 0, got %d", r.Len())
	}
	if r.LineCount() != 1 {
		t.Errorf("empty rope should have 1 line, got %d", r.LineCount())
	}
	if r.String() != "" {
		t.Errorf("expected empty string, got %q", r.String())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines uint32
	}{
		{"single line", "hello", 1},
		{"two lines", "hello\nworld", 2},
		{"trailing newline", "hello\n", 2},
		{"only newlines", "\n\n\n", 4},
		{"unicode", "héllo wörld", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.text)
			if r.String() != tt.text {
				t.Errorf("round trip failed: got %q, want %q", r.String(), tt.text)
			}
			if r.Len() != ByteOffset(len(tt.text)) {
				t.Errorf("Len = %d, want %d", r.Len(), len(tt.text))
			}
			if r.LineCount() != tt.lines {
				t.Errorf("LineCount = %d, want %d", r.LineCount(), tt.lines)
			}
		})
	}
}

func TestFromStringLarge(t *testing.T) {
	// Force multiple leaves and internal levels.
	text := strings.Repeat("0123456789\n", 10000)
	r := FromString(text)

	if r.String() != text {
		t.Fatal("large round trip failed")
	}
	if r.LineCount() != 10001 {
		t.Errorf("LineCount = %d, want 10001", r.LineCount())
	}
	if r.Height() < 2 {
		t.Errorf("expected multi-level tree, height = %d", r.Height())
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		offset ByteOffset
		text   string
		want   string
	}{
		{"at start", "world", 0, "hello ", "hello world"},
		{"at end", "hello", 5, " world", "hello world"},
		{"in middle", "held", 2, "llo wor", "hello world"},
		{"into empty", "", 0, "text", "text"},
		{"newline", "ab", 1, "\n", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.base).Insert(tt.offset, tt.text)
			if r.String() != tt.want {
				t.Errorf("got %q, want %q", r.String(), tt.want)
			}
		})
	}
}

func TestInsertImmutable(t *testing.T) {
	r := FromString("hello")
	r2 := r.Insert(5, " world")

	if r.String() != "hello" {
		t.Errorf("original modified: %q", r.String())
	}
	if r2.String() != "hello world" {
		t.Errorf("insert result: %q", r2.String())
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		start, end ByteOffset
		want       string
	}{
		{"from start", "hello world", 0, 6, "world"},
		{"from end", "hello world", 5, 11, "hello"},
		{"from middle", "hello cruel world", 5, 11, "hello world"},
		{"everything", "hello", 0, 5, ""},
		{"newline join", "a\nb", 1, 2, "ab"},
		{"empty range", "hello", 2, 2, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.base).Delete(tt.start, tt.end)
			if r.String() != tt.want {
				t.Errorf("got %q, want %q", r.String(), tt.want)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	r := FromString("hello world").Replace(6, 11, "rope")
	if r.String() != "hello rope" {
		t.Errorf("got %q, want %q", r.String(), "hello rope")
	}
}

func TestSlice(t *testing.T) {
	r := FromString("hello\nworld\nfoo")

	tests := []struct {
		start, end ByteOffset
		want       string
	}{
		{0, 5, "hello"},
		{6, 11, "world"},
		{12, 15, "foo"},
		{0, 15, "hello\nworld\nfoo"},
		{5, 6, "\n"},
		{3, 3, ""},
		{10, 100, "d\nfoo"},
	}

	for _, tt := range tests {
		if got := r.Slice(tt.start, tt.end); got != tt.want {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestLineOffsets(t *testing.T) {
	r := FromString("abc\ndefgh\n\nxy")

	starts := []ByteOffset{0, 4, 10, 11}
	ends := []ByteOffset{3, 9, 10, 13}

	for line, want := range starts {
		if got := r.LineStartOffset(uint32(line)); got != want {
			t.Errorf("LineStartOffset(%d) = %d, want %d", line, got, want)
		}
	}
	for line, want := range ends {
		if got := r.LineEndOffset(uint32(line)); got != want {
			t.Errorf("LineEndOffset(%d) = %d, want %d", line, got, want)
		}
	}
}

func TestLineText(t *testing.T) {
	r := FromString("abc\ndefgh\n\nxy")

	want := []string{"abc", "defgh", "", "xy"}
	for line, text := range want {
		if got := r.LineText(uint32(line)); got != text {
			t.Errorf("LineText(%d) = %q, want %q", line, got, text)
		}
	}
}

func TestLineAt(t *testing.T) {
	r := FromString("abc\ndef\n")

	tests := []struct {
		offset ByteOffset
		line   uint32
	}{
		{0, 0}, {3, 0}, {4, 1}, {7, 1}, {8, 2},
	}
	for _, tt := range tests {
		if got := r.LineAt(tt.offset); got != tt.line {
			t.Errorf("LineAt(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}
}

func TestLineSeekLargeFile(t *testing.T) {
	// Line seeks must not degrade into full scans on big documents; this
	// exercises the summary-guided descent across many leaves.
	var sb strings.Builder
	for i := 0; i < 50000; i++ {
		sb.WriteString("line content here\n")
	}
	r := FromString(sb.String())

	const lineLen = ByteOffset(len("line content here\n"))
	for _, line := range []uint32{0, 1, 25000, 49999} {
		want := ByteOffset(line) * lineLen
		if got := r.LineStartOffset(line); got != want {
			t.Errorf("LineStartOffset(%d) = %d, want %d", line, got, want)
		}
		if got := r.LineAt(want); got != line {
			t.Errorf("LineAt(%d) = %d, want %d", want, got, line)
		}
	}
}

// TestRandomOpsAgainstModel cross-checks rope edits against a plain string.
func TestRandomOpsAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	model := "initial\ntext\nwith lines\n"
	r := FromString(model)

	pieces := []string{"x", "hello", "\n", "multi\nline\ntext", "ü", "tab\there"}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0: // insert
			off := rng.Intn(len(model) + 1)
			text := pieces[rng.Intn(len(pieces))]
			model = model[:off] + text + model[off:]
			r = r.Insert(ByteOffset(off), text)
		case 1: // delete
			if len(model) == 0 {
				continue
			}
			start := rng.Intn(len(model))
			end := start + rng.Intn(len(model)-start)
			model = model[:start] + model[end:]
			r = r.Delete(ByteOffset(start), ByteOffset(end))
		case 2: // replace
			if len(model) == 0 {
				continue
			}
			start := rng.Intn(len(model))
			end := start + rng.Intn(len(model)-start)
			text := pieces[rng.Intn(len(pieces))]
			model = model[:start] + text + model[end:]
			r = r.Replace(ByteOffset(start), ByteOffset(end), text)
		}

		if r.String() != model {
			t.Fatalf("divergence after %d ops:\nrope:  %q\nmodel: %q", i+1, r.String(), model)
		}
		wantLines := uint32(strings.Count(model, "\n")) + 1
		if r.LineCount() != wantLines {
			t.Fatalf("line count divergence after %d ops: got %d, want %d", i+1, r.LineCount(), wantLines)
		}
	}
}
