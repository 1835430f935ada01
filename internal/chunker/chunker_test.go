// File: internal/chunker/chunker_test.go
package chunker

import (
	"strings"
	"testing"
)

func TestChunkCoverage(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("a", 199),
		strings.Repeat("b", 200),
		strings.Repeat("c", 201),
		strings.Repeat("word ", 1000),
		strings.Repeat("§ünïçødé ", 500),
	}
	sizes := []int{200, 333, 800, 2000}

	for _, text := range texts {
		for _, size := range sizes {
			chunks := Chunk(text, size)
			var b strings.Builder
			for i, c := range chunks {
				if c.Index != i {
					t.Fatalf("chunk %d has index %d", i, c.Index)
				}
				b.WriteString(c.Text)
			}
			if b.String() != text {
				t.Errorf("concatenation mismatch for size %d, text len %d", size, len(text))
			}
		}
	}
}

func TestChunkSizes(t *testing.T) {
	text := strings.Repeat("A", 2000)
	chunks := Chunk(text, 0) // default 800

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantLens := []int{800, 800, 400}
	for i, want := range wantLens {
		if chunks[i].CharacterCount != want {
			t.Errorf("chunk %d: character count %d, want %d", i, chunks[i].CharacterCount, want)
		}
		if len(chunks[i].Text) != want {
			t.Errorf("chunk %d: text length %d, want %d", i, len(chunks[i].Text), want)
		}
	}
}

func TestClampChunkSize(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultChunkSize},
		{-5, DefaultChunkSize},
		{100, MinChunkSize},
		{200, 200},
		{800, 800},
		{2000, 2000},
		{9999, MaxChunkSize},
	}
	for _, c := range cases {
		if got := ClampChunkSize(c.in); got != c.want {
			t.Errorf("ClampChunkSize(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestChunkMaxChunksCap(t *testing.T) {
	// 200-rune chunks over just past the cap.
	text := strings.Repeat("x", MinChunkSize*MaxChunks+500)
	chunks := Chunk(text, MinChunkSize)

	if len(chunks) != MaxChunks {
		t.Fatalf("expected %d chunks, got %d", MaxChunks, len(chunks))
	}
	// Coverage holds only up to chunkSize*MaxChunks characters.
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	if b.Len() != MinChunkSize*MaxChunks {
		t.Errorf("covered %d characters, want %d", b.Len(), MinChunkSize*MaxChunks)
	}
}

func TestSanitizeStripsNUL(t *testing.T) {
	in := "safe\x00text\x00"
	if got := Sanitize(in); got != "safetext" {
		t.Errorf("Sanitize(%q) = %q", in, got)
	}

	chunks := Chunk("a\x00b", 200)
	if len(chunks) != 1 || chunks[0].Text != "ab" {
		t.Errorf("chunking did not sanitize: %+v", chunks)
	}
}

func TestWordCounts(t *testing.T) {
	chunks := Chunk("one two  three\t four\nfive ", 800)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].WordCount != 5 {
		t.Errorf("word count %d, want 5", chunks[0].WordCount)
	}
}

func TestChunkEmptyText(t *testing.T) {
	if chunks := Chunk("", 800); chunks != nil {
		t.Errorf("expected nil for empty text, got %v", chunks)
	}
	if chunks := Chunk("\x00", 800); chunks != nil {
		t.Errorf("expected nil for NUL-only text, got %v", chunks)
	}
}

func TestChunkUnicodeCharacterCounts(t *testing.T) {
	// 300 runes of multi-byte text must split by rune count, not bytes.
	text := strings.Repeat("é", 300)
	chunks := Chunk(text, 200)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].CharacterCount != 200 || chunks[1].CharacterCount != 100 {
		t.Errorf("character counts %d/%d, want 200/100",
			chunks[0].CharacterCount, chunks[1].CharacterCount)
	}
}
