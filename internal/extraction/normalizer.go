package extraction

import (
	"strings"

	"github.com/matrooslabs/shadow-world/internal/models"
)

// Normalize merges heterogeneous raw platform content into one text corpus.
// Posts keep their given order, each prefixed so individual items stay
// distinguishable, and a bio line is prepended when present. An empty result
// is valid: the pipeline treats it as "nothing to analyze", not an error.
func Normalize(content *models.RawContent) string {
	if content == nil {
		return ""
	}

	parts := make([]string, 0, len(content.Posts))
	for _, post := range content.Posts {
		if strings.TrimSpace(post.Text) == "" {
			continue
		}
		parts = append(parts, "Post: "+post.Text)
	}
	corpus := strings.Join(parts, "\n\n")

	if bio := strings.TrimSpace(content.Bio); bio != "" {
		if corpus == "" {
			return "Bio: " + bio
		}
		corpus = "Bio: " + bio + "\n\n" + corpus
	}
	return corpus
}
