package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// parseStringList parses a model response expected to be a JSON array of
// strings. Markdown code fences are tolerated since models frequently wrap
// JSON in them despite instructions. Blank items are dropped.
func parseStringList(raw string) ([]string, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var items []string
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("response is not a JSON string array: %w", err)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

// stripCodeFence removes a surrounding ``` fence, including an optional
// language tag on the opening line.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
