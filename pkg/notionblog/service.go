package notionblog

import (
	"context"

	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

// Source is the record-fetching boundary between the content layer and the
// remote workspace. Implementations return normalized records; the canonical
// implementation is the Notion-backed source in source.go.
type Source interface {
	// AllPosts returns every post record the source can see. Publication
	// filtering is applied by the service, not the source.
	AllPosts(ctx context.Context) ([]*Post, error)

	// PostBySlug returns the record with the given slug regardless of its
	// publication status, or ErrPostNotFound.
	PostBySlug(ctx context.Context, slug string) (*Post, error)

	// AllFriends returns every friend-link record.
	AllFriends(ctx context.Context) ([]*Friend, error)

	// Blocks returns the direct children of a block or page.
	Blocks(ctx context.Context, blockID string) ([]notion.Block, error)
}

// Service is the typed accessor surface exposed to the rendering and build
// layers.
type Service interface {
	// Post accessors
	GetAllPosts(ctx context.Context) ([]*Post, error)
	GetPostBySlug(ctx context.Context, slug string, requirePublished bool) (*Post, error)
	GetPostsByCategory(ctx context.Context, category string) ([]*Post, error)
	GetPostsByTag(ctx context.Context, tag string) ([]*Post, error)
	GetFeaturedPosts(ctx context.Context) ([]*Post, error)
	GetRecentPosts(ctx context.Context, n int) ([]*Post, error)

	// Friend accessors
	GetAllFriends(ctx context.Context) ([]*Friend, error)
	GetFriendByName(ctx context.Context, name string) (*Friend, error)

	// Slug resolution
	BuildSlugIndex(ctx context.Context) error
	ResolveSlug(id string) (string, bool)
	PathFor(id string) string

	// Derived metadata
	ReadingTime(ctx context.Context, id string, useCache bool) (int, error)
	TableOfContents(ctx context.Context, id string, useCache bool) ([]TOCEntry, error)

	// SEO metadata
	PostMeta(post *Post) Meta
	SiteMeta() Meta

	// ClearCaches empties the slug index and the derived cache.
	ClearCaches()
}
