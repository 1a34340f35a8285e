package notionblog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

const (
	wordsPerMinute = 200

	// defaultMaxDepth bounds block-tree traversal; real documents rarely
	// nest beyond a handful of levels.
	defaultMaxDepth = 16
)

// BlockFetcher fetches the direct children of a block or page. Source
// satisfies this interface.
type BlockFetcher interface {
	Blocks(ctx context.Context, blockID string) ([]notion.Block, error)
}

// DerivedStore persists derived values across builds. Implementations are
// best-effort: the cache logs store failures and recomputes.
type DerivedStore interface {
	GetReadingTime(ctx context.Context, id string) (int, bool, error)
	PutReadingTime(ctx context.Context, id string, minutes int) error
	GetOutline(ctx context.Context, id string) ([]TOCEntry, bool, error)
	PutOutline(ctx context.Context, id string, entries []TOCEntry) error
	Clear(ctx context.Context) error
}

// DerivedCache memoizes values computed from a record's full body rather
// than its metadata: the reading-time estimate and the generated outline.
// Entries are keyed by record identifier and invalidated only by Clear.
type DerivedCache struct {
	mu           sync.RWMutex
	readingTimes map[string]int
	outlines     map[string][]TOCEntry

	fetcher  BlockFetcher
	store    DerivedStore
	maxDepth int
	logger   *slog.Logger
}

// DerivedOption configures a DerivedCache.
type DerivedOption func(*DerivedCache)

// WithDerivedLogger sets the structured logger.
func WithDerivedLogger(logger *slog.Logger) DerivedOption {
	return func(c *DerivedCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth bounds block-tree traversal depth.
func WithMaxDepth(depth int) DerivedOption {
	return func(c *DerivedCache) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithStore adds a persistent store backing the in-memory maps.
func WithStore(store DerivedStore) DerivedOption {
	return func(c *DerivedCache) {
		c.store = store
	}
}

// NewDerivedCache creates a derived-content cache reading block trees from
// the given fetcher.
func NewDerivedCache(fetcher BlockFetcher, opts ...DerivedOption) *DerivedCache {
	c := &DerivedCache{
		readingTimes: make(map[string]int),
		outlines:     make(map[string][]TOCEntry),
		fetcher:      fetcher,
		maxDepth:     defaultMaxDepth,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadingTime returns the estimated minutes to read the record's body:
// ceil(words/200) over the flattened block tree. With useCache the memoized
// value is returned without refetching content.
func (c *DerivedCache) ReadingTime(ctx context.Context, id string, useCache bool) (int, error) {
	if useCache {
		c.mu.RLock()
		minutes, ok := c.readingTimes[id]
		c.mu.RUnlock()
		if ok {
			return minutes, nil
		}
		if c.store != nil {
			minutes, ok, err := c.store.GetReadingTime(ctx, id)
			if err != nil {
				c.logger.Warn("derived store read failed, recomputing", "id", id, "error", err)
			} else if ok {
				c.mu.Lock()
				c.readingTimes[id] = minutes
				c.mu.Unlock()
				return minutes, nil
			}
		}
	}

	blocks, err := c.collect(ctx, id)
	if err != nil {
		return 0, err
	}

	words := 0
	for i := range blocks {
		words += len(strings.Fields(notion.PlainText(blocks[i].Text())))
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute

	c.mu.Lock()
	c.readingTimes[id] = minutes
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.PutReadingTime(ctx, id, minutes); err != nil {
			c.logger.Warn("derived store write failed", "id", id, "error", err)
		}
	}
	return minutes, nil
}

// TableOfContents returns the record's outline: one entry per level 1-3
// heading, in document order.
func (c *DerivedCache) TableOfContents(ctx context.Context, id string, useCache bool) ([]TOCEntry, error) {
	if useCache {
		c.mu.RLock()
		entries, ok := c.outlines[id]
		c.mu.RUnlock()
		if ok {
			return entries, nil
		}
		if c.store != nil {
			entries, ok, err := c.store.GetOutline(ctx, id)
			if err != nil {
				c.logger.Warn("derived store read failed, recomputing", "id", id, "error", err)
			} else if ok {
				c.mu.Lock()
				c.outlines[id] = entries
				c.mu.Unlock()
				return entries, nil
			}
		}
	}

	blocks, err := c.collect(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := make([]TOCEntry, 0)
	for i := range blocks {
		if level := blocks[i].HeadingLevel(); level > 0 {
			entries = append(entries, TOCEntry{
				ID:    blocks[i].ID,
				Level: level,
				Text:  notion.PlainText(blocks[i].Text()),
			})
		}
	}

	c.mu.Lock()
	c.outlines[id] = entries
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.PutOutline(ctx, id, entries); err != nil {
			c.logger.Warn("derived store write failed", "id", id, "error", err)
		}
	}
	return entries, nil
}

// Clear empties the in-memory maps and the persistent store if present.
func (c *DerivedCache) Clear() {
	c.mu.Lock()
	c.readingTimes = make(map[string]int)
	c.outlines = make(map[string][]TOCEntry)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(context.Background()); err != nil {
			c.logger.Warn("derived store clear failed", "error", err)
		}
	}
}

// collect flattens the block tree rooted at id into document order. The
// traversal carries a visited set and a depth bound: a repeated block id is
// a cycle, reported as ErrBlockCycle rather than recursed into.
func (c *DerivedCache) collect(ctx context.Context, id string) ([]notion.Block, error) {
	visited := map[string]struct{}{id: {}}
	var out []notion.Block
	if err := c.walk(ctx, id, 0, visited, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DerivedCache) walk(ctx context.Context, id string, depth int, visited map[string]struct{}, out *[]notion.Block) error {
	if depth >= c.maxDepth {
		return ErrMaxDepthExceeded
	}

	blocks, err := c.fetcher.Blocks(ctx, id)
	if err != nil {
		return err
	}

	for i := range blocks {
		b := blocks[i]
		*out = append(*out, b)
		if !b.HasChildren {
			continue
		}
		if _, seen := visited[b.ID]; seen {
			return ErrBlockCycle
		}
		visited[b.ID] = struct{}{}
		if err := c.walk(ctx, b.ID, depth+1, visited, out); err != nil {
			return err
		}
	}
	return nil
}
