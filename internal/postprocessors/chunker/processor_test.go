package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.ChunkSize() != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.ChunkSize())
		}
	})

	t.Run("non-positive size ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithChunkSize(-3))
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.ChunkSize())
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello world"},
		{"Line One\nLine Two", "line one line two"},
		{"a\n\nb", "a  b"},
		{"", ""},
		{"ÉCOLE\n", "école "},
	}

	for _, tt := range tests {
		got := Normalise(tt.in)
		if got != tt.want {
			t.Errorf("Normalise(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Normalise(got); again != got {
			t.Errorf("Normalise not idempotent for %q: %q != %q", tt.in, again, got)
		}
	}
}

func TestProcessor_Process_EmptyPage(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), &domain.Page{Source: "a.pdf", Number: 1}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}

	chunks, err = p.Process(context.Background(), nil, nil)
	if err != nil || chunks != nil {
		t.Errorf("expected nil, nil for nil page, got %v, %v", chunks, err)
	}
}

func TestProcessor_Process_Windows(t *testing.T) {
	p := New()
	page := &domain.Page{
		Source: "doc.pdf",
		Number: 1,
		Text:   strings.Repeat("A", 1500),
	}

	chunks, err := p.Process(context.Background(), page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != strings.Repeat("a", 1000) {
		t.Error("first chunk should be 1000 lower-cased characters")
	}
	if chunks[1].Text != strings.Repeat("a", 500) {
		t.Error("second chunk should hold the remaining 500 characters")
	}
	for _, c := range chunks {
		if c.Label != "doc.pdf [Page 1]" {
			t.Errorf("unexpected label %q", c.Label)
		}
		if c.Source != "doc.pdf" || c.Page != 1 {
			t.Errorf("unexpected provenance %q/%d", c.Source, c.Page)
		}
	}
}

func TestProcessor_Process_ShortPage(t *testing.T) {
	p := New()
	page := &domain.Page{Source: "x.pdf", Number: 2, Text: "Hello\nWorld"}

	chunks, err := p.Process(context.Background(), page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "hello world" {
		t.Errorf("unexpected text %q", chunks[0].Text)
	}
	if chunks[0].Label != "x.pdf [Page 2]" {
		t.Errorf("unexpected label %q", chunks[0].Label)
	}
}

func TestProcessor_Process_BlankWindowDropped(t *testing.T) {
	p := New(WithChunkSize(4))
	// Windows: "abcd", "    ", "ef"
	page := &domain.Page{Source: "b.pdf", Number: 1, Text: "abcd    ef"}

	chunks, err := p.Process(context.Background(), page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "abcd" || chunks[1].Text != "ef" {
		t.Errorf("unexpected chunks %q, %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestProcessor_Process_WindowsTrimmed(t *testing.T) {
	p := New(WithChunkSize(5))
	page := &domain.Page{Source: "c.pdf", Number: 1, Text: " ab\ncd e"}

	chunks, err := p.Process(context.Background(), page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Normalised: " ab cd e" -> windows " ab c", "d e"
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "ab c" || chunks[1].Text != "d e" {
		t.Errorf("unexpected chunks %q, %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestProcessor_Process_CountsRunes(t *testing.T) {
	p := New(WithChunkSize(3))
	page := &domain.Page{Source: "u.pdf", Number: 1, Text: "éééé"}

	chunks, err := p.Process(context.Background(), page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if n := utf8.RuneCountInString(chunks[0].Text); n != 3 {
		t.Errorf("expected 3 characters in first chunk, got %d", n)
	}
	for _, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk split a multi-byte character: %q", c.Text)
		}
	}
}

func TestProcessor_Process_WindowCount(t *testing.T) {
	p := New(WithChunkSize(100))

	for _, length := range []int{1, 99, 100, 101, 250, 1000} {
		page := &domain.Page{Source: "n.pdf", Number: 1, Text: strings.Repeat("x", length)}
		chunks, err := p.Process(context.Background(), page, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := (length + 99) / 100
		if len(chunks) != want {
			t.Errorf("length %d: expected %d chunks, got %d", length, want, len(chunks))
		}
	}
}

func TestProcessor_Process_Deterministic(t *testing.T) {
	p := New(WithChunkSize(7))
	page := &domain.Page{Source: "d.pdf", Number: 3, Text: "The Quick\nBrown Fox Jumps Over"}

	first, _ := p.Process(context.Background(), page, nil)
	second, _ := p.Process(context.Background(), page, nil)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
