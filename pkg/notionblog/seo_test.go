package notionblog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
)

func newSEOService(t *testing.T, posts []*notionblog.Post) notionblog.Service {
	t.Helper()
	svc, err := notionblog.New(
		notionblog.WithSource(&fakeSource{posts: posts}),
		notionblog.WithSiteInfo(notionblog.SiteInfo{
			Title:       "Amatsuka's Blog",
			Description: "Notes on systems and tea",
			BaseURL:     "https://blog.example.com",
			Image:       "https://blog.example.com/og.png",
			Keywords:    []string{"blog", "golang"},
		}),
	)
	require.NoError(t, err)
	return svc
}

func TestPostMetaUsesOverrides(t *testing.T) {
	post := &notionblog.Post{
		ID:             "p1",
		Slug:           "custom",
		Title:          "Plain Title",
		SEOTitle:       "Fancy Title",
		SEODescription: "Hand-written summary",
		Cover:          "https://cdn.example.com/cover.png",
		Tags:           []string{"go", "notion"},
	}
	svc := newSEOService(t, []*notionblog.Post{post})
	require.NoError(t, svc.BuildSlugIndex(context.Background()))

	meta := svc.PostMeta(post)

	assert.Equal(t, "Fancy Title | Amatsuka's Blog", meta.Title)
	assert.Equal(t, "Hand-written summary", meta.Description)
	assert.Equal(t, "https://cdn.example.com/cover.png", meta.Image)
	assert.Equal(t, []string{"blog", "golang", "go", "notion"}, meta.Keywords)
	assert.Equal(t, "https://blog.example.com/posts/custom", meta.Canonical)
}

func TestPostMetaFallsBackToSiteDefaults(t *testing.T) {
	post := &notionblog.Post{ID: "p1", Slug: "bare", Title: "Bare Post"}
	svc := newSEOService(t, []*notionblog.Post{post})
	require.NoError(t, svc.BuildSlugIndex(context.Background()))

	meta := svc.PostMeta(post)

	assert.Equal(t, "Bare Post | Amatsuka's Blog", meta.Title)
	assert.Equal(t, "Notes on systems and tea", meta.Description)
	assert.Equal(t, "https://blog.example.com/og.png", meta.Image)
}

func TestPostMetaCanonicalFallsBackToRawID(t *testing.T) {
	// Unindexed record: the canonical path degrades to the raw identifier.
	post := &notionblog.Post{ID: "p-unknown", Title: "Orphan"}
	svc := newSEOService(t, nil)

	meta := svc.PostMeta(post)
	assert.Equal(t, "https://blog.example.com/posts/p-unknown", meta.Canonical)
}

func TestSiteMeta(t *testing.T) {
	svc := newSEOService(t, nil)

	meta := svc.SiteMeta()

	assert.Equal(t, "Amatsuka's Blog", meta.Title)
	assert.Equal(t, "Notes on systems and tea", meta.Description)
	assert.Equal(t, "https://blog.example.com", meta.Canonical)
}
