package notionblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// service implements the Service interface
type service struct {
	source  Source
	site    SiteInfo
	slugs   *SlugIndex
	derived *DerivedCache
	logger  *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithSource sets the record source for the service
func WithSource(src Source) Option {
	return func(s *service) {
		s.source = src
	}
}

// WithSiteInfo sets the site-wide defaults used for SEO assembly
func WithSiteInfo(site SiteInfo) Option {
	return func(s *service) {
		s.site = site
	}
}

// WithSlugIndex sets the slug index owned by the build process
func WithSlugIndex(idx *SlugIndex) Option {
	return func(s *service) {
		s.slugs = idx
	}
}

// WithDerivedCache sets the derived-content cache owned by the build process
func WithDerivedCache(c *DerivedCache) Option {
	return func(s *service) {
		s.derived = c
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if s.slugs == nil {
		s.slugs = NewSlugIndex(s.logger)
	}
	if s.derived == nil {
		s.derived = NewDerivedCache(s.source, WithDerivedLogger(s.logger))
	}

	return s, nil
}

// Post accessors

func (s *service) GetAllPosts(ctx context.Context) ([]*Post, error) {
	posts, err := s.source.AllPosts(ctx)
	if err != nil {
		return nil, wrapOp("get_all_posts", err)
	}

	published := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if p.Published() {
			published = append(published, p)
		}
	}

	// Publication date descending; records without a date sink to the end.
	// sort.SliceStable keeps the underlying query order for ties.
	sort.SliceStable(published, func(i, j int) bool {
		pi, pj := published[i].PublishedAt, published[j].PublishedAt
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return pi.After(*pj)
	})

	return published, nil
}

func (s *service) GetPostBySlug(ctx context.Context, slug string, requirePublished bool) (*Post, error) {
	post, err := s.source.PostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, wrapOp("get_post_by_slug", err)
	}

	if requirePublished && !post.Published() {
		s.logger.Warn("unpublished post requested on a published-only route",
			"slug", slug, "status", string(post.Status))
		return nil, ErrPostNotFound
	}

	return post, nil
}

func (s *service) GetPostsByCategory(ctx context.Context, category string) ([]*Post, error) {
	posts, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) GetPostsByTag(ctx context.Context, tag string) ([]*Post, error) {
	posts, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (s *service) GetFeaturedPosts(ctx context.Context) ([]*Post, error) {
	posts, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) GetRecentPosts(ctx context.Context, n int) ([]*Post, error) {
	posts, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(posts) {
		n = len(posts)
	}
	return posts[:n], nil
}

// Friend accessors

func (s *service) GetAllFriends(ctx context.Context) ([]*Friend, error) {
	friends, err := s.source.AllFriends(ctx)
	if err != nil {
		return nil, wrapOp("get_all_friends", err)
	}

	active := make([]*Friend, 0, len(friends))
	for _, f := range friends {
		if f.Status == FriendStatusActive {
			active = append(active, f)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return strings.ToLower(active[i].Name) < strings.ToLower(active[j].Name)
	})

	return active, nil
}

func (s *service) GetFriendByName(ctx context.Context, name string) (*Friend, error) {
	friends, err := s.GetAllFriends(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range friends {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, ErrFriendNotFound
}

// Slug resolution

func (s *service) BuildSlugIndex(ctx context.Context) error {
	if err := s.slugs.Build(ctx, s.source); err != nil {
		return wrapOp("build_slug_index", err)
	}
	return nil
}

func (s *service) ResolveSlug(id string) (string, bool) {
	return s.slugs.Resolve(id)
}

func (s *service) PathFor(id string) string {
	return s.slugs.PathFor(id)
}

// Derived metadata

func (s *service) ReadingTime(ctx context.Context, id string, useCache bool) (int, error) {
	minutes, err := s.derived.ReadingTime(ctx, id, useCache)
	if err != nil {
		return 0, wrapOp("reading_time", err)
	}
	return minutes, nil
}

func (s *service) TableOfContents(ctx context.Context, id string, useCache bool) ([]TOCEntry, error) {
	entries, err := s.derived.TableOfContents(ctx, id, useCache)
	if err != nil {
		return nil, wrapOp("table_of_contents", err)
	}
	return entries, nil
}

// ClearCaches empties the slug index and the derived cache.
func (s *service) ClearCaches() {
	s.slugs.Clear()
	s.derived.Clear()
}
