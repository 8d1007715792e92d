// Package crawler implements the paginated depth-first walk of the
// document tree.
package crawler

import (
	"context"

	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/metrics"
	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// Defaults for the walk.
const (
	DefaultPageSize = 100
	DefaultMaxDepth = 50
)

// Config controls Crawler behavior.
type Config struct {
	// PageSize is the child-listing page size requested from the store.
	PageSize int
	// MaxDepth bounds recursion on pathological trees.
	MaxDepth int
}

// Crawler walks the tree below a root node and yields every descendant
// document. It never fails as a whole: a fetch error is scoped to its
// sub-tree, which contributes zero nodes while sibling branches
// continue. There is no retry here; the next scheduled run retries
// naturally.
type Crawler struct {
	store  page.Store
	cfg    Config
	logger *zap.Logger
}

// New constructs a Crawler.
func New(store page.Store, cfg Config, logger *zap.Logger) *Crawler {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Crawler{store: store, cfg: cfg, logger: logger}
}

// Descendants returns all document nodes reachable below rootID,
// excluding the root itself. Each branch is fully resolved before the
// next sibling begins, so only one frontier's pagination cursor is
// live at a time. A visited set guards against linked-page cycles.
func (c *Crawler) Descendants(ctx context.Context, rootID string) []page.Node {
	visited := map[string]struct{}{rootID: {}}
	return c.walk(ctx, rootID, visited, 0)
}

func (c *Crawler) walk(ctx context.Context, id string, visited map[string]struct{}, depth int) []page.Node {
	if depth > c.cfg.MaxDepth {
		c.logger.Warn("max crawl depth reached", zap.String("node_id", id), zap.Int("depth", depth))
		return nil
	}

	var nodes []page.Node
	cursor := ""
	for {
		listing, err := c.store.ListChildren(ctx, id, cursor, c.cfg.PageSize)
		if err != nil {
			metrics.ObserveCrawlError()
			c.logger.Warn("child listing failed, skipping sub-tree",
				zap.String("node_id", id), zap.Error(err))
			return nodes
		}

		for _, child := range listing.Items {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}

			switch child.Kind {
			case page.KindDocument:
				node, err := c.store.Retrieve(ctx, child.ID)
				if err != nil {
					metrics.ObserveCrawlError()
					c.logger.Warn("node retrieval failed, skipping sub-tree",
						zap.String("node_id", child.ID), zap.Error(err))
					continue
				}
				metrics.ObserveDiscovered()
				nodes = append(nodes, node)
				nodes = append(nodes, c.walk(ctx, child.ID, visited, depth+1)...)
			case page.KindContainer:
				if child.HasChildren {
					nodes = append(nodes, c.walk(ctx, child.ID, visited, depth+1)...)
				}
			}
		}

		if !listing.HasMore {
			return nodes
		}
		cursor = listing.NextCursor
	}
}
