package notionblog

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"
)

// SlugIndex maps record identifiers to their human-readable slugs. It is an
// explicitly constructed object owned by the build process, not ambient
// package state; hand one instance to the service and clear or discard it
// with the build.
type SlugIndex struct {
	mu     sync.RWMutex
	slugs  map[string]string
	logger *slog.Logger
}

// NewSlugIndex creates an empty index. A nil logger falls back to
// slog.Default.
func NewSlugIndex(logger *slog.Logger) *SlugIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlugIndex{
		slugs:  make(map[string]string),
		logger: logger,
	}
}

// Build fetches every post from the source and fully replaces the index
// contents. There is no incremental update. Duplicate slugs resolve
// last-write-wins and are logged as warnings.
func (idx *SlugIndex) Build(ctx context.Context, source Source) error {
	posts, err := source.AllPosts(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]string, len(posts))
	seen := make(map[string]string, len(posts))
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		if prev, dup := seen[p.Slug]; dup {
			idx.logger.Warn("duplicate slug, keeping the later record",
				"slug", p.Slug, "kept", p.ID, "shadowed", prev)
		}
		seen[p.Slug] = p.ID
		next[p.ID] = p.Slug
	}

	idx.mu.Lock()
	idx.slugs = next
	idx.mu.Unlock()
	return nil
}

// Resolve returns the slug for an identifier, or false if the identifier was
// absent from the source set at build time.
func (idx *SlugIndex) Resolve(id string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	slug, ok := idx.slugs[id]
	return slug, ok
}

// PathFor returns the public path segment for an identifier. When resolution
// fails, the raw identifier is exposed instead, yielding a degraded but
// functional link.
func (idx *SlugIndex) PathFor(id string) string {
	if slug, ok := idx.Resolve(id); ok {
		return slug
	}
	return id
}

// Clear empties the index.
func (idx *SlugIndex) Clear() {
	idx.mu.Lock()
	idx.slugs = make(map[string]string)
	idx.mu.Unlock()
}

// Len returns the number of indexed identifiers.
func (idx *SlugIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.slugs)
}

// IDs returns a snapshot of the indexed identifiers.
func (idx *SlugIndex) IDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return maps.Keys(idx.slugs)
}
