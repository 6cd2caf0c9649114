// Package recs builds a deduplicated set of video recommendations from
// generated search queries.
package recs

import (
	"context"

	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type VideoItem = types.VideoItem

// TopicHint is a topic signal passed to query generation.
type TopicHint struct {
	Title   string
	Summary string
}

type QueryGenerator interface {
	// GenerateQueries returns raw model output; parsing happens here.
	GenerateQueries(ctx context.Context, text string, hints []TopicHint) (string, error)
}

type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string) ([]VideoItem, error)
}

type Config struct {
	MaxQueries    int
	MaxQueryChars int
	PerQuery      int
	Concurrency   int
}

func DefaultConfig() Config {
	return Config{MaxQueries: 5, MaxQueryChars: 80, PerQuery: 2, Concurrency: 4}
}

type Result struct {
	Queries []string
	Videos  []VideoItem
}

type Aggregator struct {
	gen    QueryGenerator
	search VideoSearcher
	log    *logger.Logger
	cfg    Config
}

func NewAggregator(gen QueryGenerator, search VideoSearcher, log *logger.Logger, cfg Config) *Aggregator {
	def := DefaultConfig()
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = def.MaxQueries
	}
	if cfg.MaxQueryChars <= 0 {
		cfg.MaxQueryChars = def.MaxQueryChars
	}
	if cfg.PerQuery <= 0 {
		cfg.PerQuery = def.PerQuery
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{gen: gen, search: search, log: log.With("service", "RecsAggregator"), cfg: cfg}
}

// Recommend generates queries, searches each one and returns the merged,
// deduplicated result. It returns nil when there is neither a query nor a
// video. Collaborator failures are logged, never returned.
func (a *Aggregator) Recommend(ctx context.Context, text string, hints []TopicHint) *Result {
	if a.gen == nil {
		return nil
	}
	raw, err := a.gen.GenerateQueries(ctx, text, hints)
	if err != nil {
		a.log.Warn("query generation failed", "error", err)
		return nil
	}
	queries := ParseQueries(raw, a.cfg.MaxQueries, a.cfg.MaxQueryChars)

	var videos []VideoItem
	if a.search != nil && len(queries) > 0 {
		videos = DedupeByID(a.searchAll(ctx, queries))
	}
	if len(queries) == 0 && len(videos) == 0 {
		return nil
	}
	return &Result{Queries: queries, Videos: videos}
}

// searchAll fans out one search per query. Results are buffered by query
// index so the flattened order is the query order whatever the timing.
func (a *Aggregator) searchAll(ctx context.Context, queries []string) []VideoItem {
	results := make([][]VideoItem, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, q := range queries {
		g.Go(func() error {
			items, err := a.search.SearchVideos(gctx, q)
			if err != nil {
				a.log.Warn("video search failed; skipping query", "query", q, "error", err)
				return nil
			}
			if len(items) > a.cfg.PerQuery {
				items = items[:a.cfg.PerQuery]
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var flat []VideoItem
	for _, items := range results {
		flat = append(flat, items...)
	}
	return flat
}

// DedupeByID keeps the first occurrence of each video id. Items without an
// id are dropped.
func DedupeByID(items []VideoItem) []VideoItem {
	out := make([]VideoItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		if _, ok := seen[it.VideoID]; ok {
			continue
		}
		seen[it.VideoID] = struct{}{}
		out = append(out, it)
	}
	return out
}
