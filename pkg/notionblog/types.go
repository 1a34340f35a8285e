package notionblog

import (
	"time"
)

// PostStatus is the domain type for post publication states.
type PostStatus string

// Post status constants (typed).
const (
	PostStatusPublished PostStatus = "Published"
	PostStatusDraft     PostStatus = "Draft"
	PostStatusArchived  PostStatus = "Archived"
)

// FriendStatus is the domain type for friend-link states.
type FriendStatus string

// Friend status constants (typed).
const (
	FriendStatusActive   FriendStatus = "Active"
	FriendStatusInactive FriendStatus = "Inactive"
)

// Post is a single blog post's normalized metadata snapshot. It is a
// read-only view fetched fresh per build and never mutated locally.
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Description string     `json:"description,omitempty"`
	Cover       string     `json:"cover,omitempty"`
	Featured    bool       `json:"featured"`

	// Optional per-post SEO overrides; empty values fall back to site
	// defaults when metadata is assembled.
	SEOTitle       string `json:"seo_title,omitempty"`
	SEODescription string `json:"seo_description,omitempty"`
}

// Published reports whether the post is visible on production routes.
func (p *Post) Published() bool {
	return p.Status == PostStatusPublished
}

// Friend is a single friend-site entry.
type Friend struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Avatar      string       `json:"avatar,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      FriendStatus `json:"status"`
	Group       string       `json:"group,omitempty"`
}

// TOCEntry is one generated-outline entry extracted from a post's body.
type TOCEntry struct {
	ID    string `json:"id"`
	Level int    `json:"level"` // 1-3
	Text  string `json:"text"`
}
