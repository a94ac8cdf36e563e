package knowledge

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitBlankInput(t *testing.T) {
	c := NewChunker(100, 20)
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := c.Split(input); got != nil {
			t.Errorf("Split(%q) = %v, want nil", input, got)
		}
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	c := NewChunker(100, 20)
	got := c.Split("  A short note.  ")
	want := []string{"A short note."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestSplitSentenceOverlap(t *testing.T) {
	c := NewChunker(25, 5)
	got := c.Split("Sentence one. Sentence two. Sentence three.")
	want := []string{"Sentence one.", "one. Sentence two.", "two. Sentence three."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestSplitChunksRespectSizeBound(t *testing.T) {
	c := NewChunker(50, 10)
	text := "One sentence here. Another sentence follows it. Then a third one arrives. And a fourth closes things out."
	for i, chunk := range c.Split(text) {
		if len(chunk) > 50 {
			t.Errorf("chunk %d has length %d, exceeds chunk size: %q", i, len(chunk), chunk)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	c := NewChunker(40, 10)
	text := "First point made. Second point made. Third point made. Fourth point made."
	first := c.Split(text)
	second := c.Split(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Split is not deterministic: %v vs %v", first, second)
	}
}

func TestForceSplitOversizedSentence(t *testing.T) {
	c := NewChunker(10, 3)
	text := strings.Repeat("abcdefghij", 5) // one 50-char "sentence", no terminators
	chunks := c.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks from oversized sentence")
	}
	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 10 {
			t.Errorf("chunk %d has %d runes, exceeds window", i, utf8.RuneCountInString(chunk))
		}
	}
	// Step is chunkSize-overlap = 7, so consecutive windows share a 3-rune tail.
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-3:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with previous chunk's overlap %q: %q", i, tail, chunks[i])
		}
	}
}

func TestForceSplitOverlapAtLeastChunkSize(t *testing.T) {
	// Overlap >= chunkSize would stall the window walk without the step clamp.
	c := NewChunker(10, 10)
	text := strings.Repeat("x", 35)
	chunks := c.Split(text)
	if len(chunks) != 4 {
		t.Fatalf("Split produced %d chunks, want 4 disjoint windows", len(chunks))
	}
	if got := strings.Join(chunks, ""); got != text {
		t.Errorf("clamped windows do not cover input: %q", got)
	}
}

func TestSplitSentencesKeepsPunctuation(t *testing.T) {
	got := splitSentences("Is it done? Yes!! It shipped.")
	want := []string{"Is it done?", "Yes!!", "It shipped."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences() = %v, want %v", got, want)
	}
}

func TestSplitSentencesIgnoresDecimals(t *testing.T) {
	got := splitSentences("Version 2.5 shipped today. It works.")
	want := []string{"Version 2.5 shipped today.", "It works."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences() = %v, want %v", got, want)
	}
}

func TestSplitSentencesNoTerminator(t *testing.T) {
	got := splitSentences("no punctuation at all")
	want := []string{"no punctuation at all"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences() = %v, want %v", got, want)
	}
}
