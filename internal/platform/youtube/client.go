package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const watchURL = "https://www.youtube.com/watch?v="

type Config struct {
	APIKey     string
	Region     string
	MaxResults int64
	Language   string
	SafeSearch string
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Region) == "" {
		c.Region = "US"
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 8
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = "en"
	}
	if strings.TrimSpace(c.SafeSearch) == "" {
		c.SafeSearch = "moderate"
	}
}

// Searcher runs YouTube Data API v3 video searches.
type Searcher struct {
	log *logger.Logger
	svc *yt.Service
	cfg Config
}

var _ recs.VideoSearcher = (*Searcher)(nil)

// New builds a searcher. Extra options are appended after the API key
// (endpoint and HTTP client overrides in tests).
func New(ctx context.Context, log *logger.Logger, cfg Config, opts ...option.ClientOption) (*Searcher, error) {
	if strings.TrimSpace(cfg.APIKey) == "" && len(opts) == 0 {
		return nil, errors.New("missing YOUTUBE_API_KEY")
	}
	cfg.applyDefaults()
	if log == nil {
		log = logger.Nop()
	}

	all := make([]option.ClientOption, 0, len(opts)+1)
	if cfg.APIKey != "" {
		all = append(all, option.WithAPIKey(cfg.APIKey))
	}
	all = append(all, opts...)
	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &Searcher{log: log.With("service", "YouTubeSearcher"), svc: svc, cfg: cfg}, nil
}

func (s *Searcher) SearchVideos(ctx context.Context, query string) ([]recs.VideoItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(s.cfg.MaxResults).
		RegionCode(s.cfg.Region).
		SafeSearch(s.cfg.SafeSearch).
		RelevanceLanguage(s.cfg.Language).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	out := make([]recs.VideoItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		item, ok := normalize(it)
		if !ok {
			continue
		}
		out = append(out, item)
	}
	s.log.Debug("youtube search", "query", query, "results", len(out))
	return out, nil
}

func normalize(it *yt.SearchResult) (recs.VideoItem, bool) {
	if it == nil || it.Id == nil || strings.TrimSpace(it.Id.VideoId) == "" {
		return recs.VideoItem{}, false
	}
	id := strings.TrimSpace(it.Id.VideoId)
	item := recs.VideoItem{VideoID: id, URL: watchURL + id}
	if sn := it.Snippet; sn != nil {
		item.Title = sn.Title
		item.ChannelTitle = sn.ChannelTitle
		if ts, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			item.PublishedAt = ts
		}
		if th := sn.Thumbnails; th != nil {
			switch {
			case th.Medium != nil && th.Medium.Url != "":
				item.ThumbnailURL = th.Medium.Url
			case th.Default != nil:
				item.ThumbnailURL = th.Default.Url
			}
		}
	}
	return item, true
}
