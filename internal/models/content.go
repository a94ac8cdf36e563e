package models

// Post is a single post-like record pulled from a social platform.
type Post struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RawContent is the heterogeneous social-media history handed to the
// extraction pipeline: the fetched posts plus an optional profile bio.
type RawContent struct {
	Posts []Post `json:"posts"`
	Bio   string `json:"bio,omitempty"`
}
