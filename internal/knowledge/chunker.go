package knowledge

import (
	"strings"

	"github.com/matrooslabs/shadow-world/internal/config"
)

// Chunker splits long-form text into overlapping, retrieval-sized segments
// that respect sentence boundaries where possible. Splitting is a pure
// function of the input and the two size parameters: no randomness, no
// external calls, so identical input always produces identical chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a Chunker. Non-positive sizes fall back to the defaults
// the knowledge base was tuned with.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	if overlap < 0 {
		overlap = config.DefaultOverlap
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split chunks text by greedily accumulating sentences up to the chunk size.
// When a sentence would overflow the running chunk, the chunk is emitted and
// the next one starts with an overlap seed: the trailing words of the emitted
// chunk, up to the overlap budget. A single sentence larger than the chunk
// size is force-split into fixed-width character windows. Blank input yields
// no chunks.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	current := ""
	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if len(current)+len(sentence)+1 <= c.chunkSize {
			if current == "" {
				current = sentence
			} else {
				current += " " + sentence
			}
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
			if seed := c.overlapSeed(current); seed != "" {
				current = seed + " " + sentence
			} else {
				current = sentence
			}
			continue
		}

		// The sentence alone exceeds the chunk size and there is nothing
		// accumulated to flush: fall back to character windows.
		chunks = append(chunks, c.forceSplit(sentence)...)
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// overlapSeed walks backward word-by-word from the end of chunk, keeping as
// many trailing words as fit within the overlap budget.
func (c *Chunker) overlapSeed(chunk string) string {
	if c.overlap <= 0 {
		return ""
	}
	words := strings.Fields(chunk)
	seed := ""
	for i := len(words) - 1; i >= 0; i-- {
		candidate := words[i]
		if seed != "" {
			candidate = words[i] + " " + seed
		}
		if len(candidate) > c.overlap {
			break
		}
		seed = candidate
	}
	return seed
}

// forceSplit cuts an oversized sentence into chunkSize-rune windows, stepping
// by chunkSize-overlap. The step is clamped to keep forward progress when the
// overlap is configured at or above the chunk size.
func (c *Chunker) forceSplit(sentence string) []string {
	step := c.chunkSize - c.overlap
	if step < 1 {
		step = c.chunkSize
	}

	runes := []rune(sentence)
	var parts []string
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return parts
}

// splitSentences splits text at sentence-terminal punctuation followed by
// whitespace, keeping the punctuation with its sentence. Terminators not
// followed by whitespace (decimals, abbreviations mid-token) do not split.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		j := i
		for j+1 < len(text) && isTerminator(text[j+1]) {
			j++
		}
		if j+1 < len(text) && !isSpace(text[j+1]) {
			i = j
			continue
		}
		sentences = append(sentences, text[start:j+1])
		k := j + 1
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		start = k
		i = k - 1
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
