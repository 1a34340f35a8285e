package notionblog

import (
	"strings"
)

// SiteInfo carries the site-wide defaults SEO metadata falls back to.
type SiteInfo struct {
	Title       string
	Description string
	BaseURL     string
	Image       string
	Keywords    []string
	Author      string
}

// Meta is the assembled SEO metadata for one page.
type Meta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	Image       string   `json:"image,omitempty"`
	Canonical   string   `json:"canonical,omitempty"`
}

// PostMeta assembles SEO metadata for a post, combining per-record overrides
// with site-wide defaults. Post tags extend the site keyword list.
func (s *service) PostMeta(post *Post) Meta {
	m := Meta{
		Title:       post.SEOTitle,
		Description: post.SEODescription,
		Image:       post.Cover,
		Keywords:    append(append([]string{}, s.site.Keywords...), post.Tags...),
	}
	if m.Title == "" {
		m.Title = post.Title
	}
	switch {
	case m.Title == "":
		m.Title = s.site.Title
	case s.site.Title != "":
		m.Title = m.Title + " | " + s.site.Title
	}
	if m.Description == "" {
		m.Description = post.Description
	}
	if m.Description == "" {
		m.Description = s.site.Description
	}
	if m.Image == "" {
		m.Image = s.site.Image
	}
	if s.site.BaseURL != "" {
		m.Canonical = joinURL(s.site.BaseURL, "posts", s.slugs.PathFor(post.ID))
	}
	return m
}

// SiteMeta returns the site-wide default metadata for non-post routes.
func (s *service) SiteMeta() Meta {
	return Meta{
		Title:       s.site.Title,
		Description: s.site.Description,
		Keywords:    append([]string{}, s.site.Keywords...),
		Image:       s.site.Image,
		Canonical:   s.site.BaseURL,
	}
}

func joinURL(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, "/")
}
