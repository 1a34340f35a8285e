// Package publish snapshots the normalized content set as static JSON
// artifacts for the site build, writing them to a pluggable store.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
)

// Store is the destination for published artifacts.
type Store interface {
	// Put writes one artifact under key, replacing any previous version.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// URL returns the public URL for a key, or an empty string when the
	// store has no public address.
	URL(key string) string
}

// PostArtifact is the per-post artifact combining the record with its
// derived metadata.
type PostArtifact struct {
	Post        *notionblog.Post      `json:"post"`
	ReadingTime int                   `json:"reading_time"`
	TOC         []notionblog.TOCEntry `json:"toc"`
	Meta        notionblog.Meta       `json:"meta"`
}

// Publisher writes the content snapshot to a store.
type Publisher struct {
	svc    notionblog.Service
	store  Store
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a publisher writing under the given key prefix.
func NewPublisher(svc notionblog.Service, store Store, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{svc: svc, store: store, prefix: prefix, logger: logger}
}

// Publish fetches the published content set and writes posts.json,
// friends.json, and one artifact per post. It returns the number of posts
// published.
func (p *Publisher) Publish(ctx context.Context) (int, error) {
	if err := p.svc.BuildSlugIndex(ctx); err != nil {
		return 0, err
	}

	posts, err := p.svc.GetAllPosts(ctx)
	if err != nil {
		return 0, err
	}
	if err := p.putJSON(ctx, "posts.json", posts); err != nil {
		return 0, err
	}

	friends, err := p.svc.GetAllFriends(ctx)
	if err != nil {
		return 0, err
	}
	if err := p.putJSON(ctx, "friends.json", friends); err != nil {
		return 0, err
	}

	for _, post := range posts {
		artifact, err := p.buildArtifact(ctx, post)
		if err != nil {
			return 0, err
		}
		key := path.Join("posts", p.svc.PathFor(post.ID)+".json")
		if err := p.putJSON(ctx, key, artifact); err != nil {
			return 0, err
		}
		p.logger.Info("published post", "slug", post.Slug, "key", key)
	}

	return len(posts), nil
}

func (p *Publisher) buildArtifact(ctx context.Context, post *notionblog.Post) (*PostArtifact, error) {
	minutes, err := p.svc.ReadingTime(ctx, post.ID, true)
	if err != nil {
		return nil, err
	}
	toc, err := p.svc.TableOfContents(ctx, post.ID, true)
	if err != nil {
		return nil, err
	}
	return &PostArtifact{
		Post:        post,
		ReadingTime: minutes,
		TOC:         toc,
		Meta:        p.svc.PostMeta(post),
	}, nil
}

func (p *Publisher) putJSON(ctx context.Context, key string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	key = path.Join(p.prefix, key)
	if err := p.store.Put(ctx, key, bytes.NewReader(payload), "application/json"); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
