package extraction

import (
	"testing"

	"github.com/matrooslabs/shadow-world/internal/models"
)

func TestNormalizeNil(t *testing.T) {
	if got := Normalize(nil); got != "" {
		t.Errorf("Normalize(nil) = %q, want empty", got)
	}
}

func TestNormalizeEmptyContent(t *testing.T) {
	if got := Normalize(&models.RawContent{}); got != "" {
		t.Errorf("Normalize(empty) = %q, want empty", got)
	}
}

func TestNormalizeBioOnly(t *testing.T) {
	content := &models.RawContent{Bio: "  Coffee enthusiast.  "}
	if got := Normalize(content); got != "Bio: Coffee enthusiast." {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestNormalizePostsKeepOrder(t *testing.T) {
	content := &models.RawContent{Posts: []models.Post{
		{Text: "first post"},
		{Text: "   "},
		{Text: "second post"},
	}}
	want := "Post: first post\n\nPost: second post"
	if got := Normalize(content); got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeBioPrecedesPosts(t *testing.T) {
	content := &models.RawContent{
		Bio:   "Writer",
		Posts: []models.Post{{Text: "hello world"}},
	}
	want := "Bio: Writer\n\nPost: hello world"
	if got := Normalize(content); got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}
