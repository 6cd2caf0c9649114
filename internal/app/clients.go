package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
	"github.com/yungbote/studyplan-backend/internal/platform/extract"
	"github.com/yungbote/studyplan-backend/internal/platform/gcp"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
	"github.com/yungbote/studyplan-backend/internal/platform/rediscache"
	"github.com/yungbote/studyplan-backend/internal/platform/storage"
	"github.com/yungbote/studyplan-backend/internal/platform/youtube"
)

// Clients holds external collaborators. OCR, LLM and Videos may be nil;
// the pipeline degrades instead of failing.
type Clients struct {
	Blobs  storage.BlobStore
	OCR    extract.OCR
	LLM    openai.Client
	Videos recs.VideoSearcher

	closers []func() error
}

func (c *Clients) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (*Clients, error) {
	log.Info("Wiring clients...")
	out := &Clients{}

	blobs, closeBlobs, err := resolveBlobStore(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	out.Blobs = blobs
	out.closers = append(out.closers, closeBlobs)

	// Document AI OCR for scanned PDFs
	if ocrCfg := gcp.DocumentOCRConfigFromEnv(); ocrCfg.Enabled() {
		ocr, err := gcp.NewDocumentOCR(ctx, log, ocrCfg)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("init document ocr: %w", err)
		}
		out.OCR = ocr
		out.closers = append(out.closers, ocr.Close)
	} else {
		log.Info("Document AI not configured; scanned PDFs yield no text")
	}

	// OpenAI
	if llmCfg := openai.ConfigFromEnv(log); strings.TrimSpace(llmCfg.APIKey) != "" {
		llm, err := openai.NewClient(log, llmCfg)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		out.LLM = llm
	} else {
		log.Warn("OPENAI_API_KEY not set; video recommendations disabled and summaries are extractive")
	}

	// YouTube, optionally behind the redis search cache
	if strings.TrimSpace(cfg.YouTubeAPIKey) != "" {
		yt, err := youtube.New(ctx, log, youtube.Config{
			APIKey:     cfg.YouTubeAPIKey,
			Region:     cfg.YouTubeRegion,
			MaxResults: cfg.YouTubeMaxResults,
		})
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("init youtube client: %w", err)
		}
		out.Videos = yt
		if strings.TrimSpace(cfg.RedisAddr) != "" {
			cache, err := rediscache.NewRedisCache(ctx, cfg.RedisAddr, log)
			if err != nil {
				out.Close()
				return nil, fmt.Errorf("init redis search cache: %w", err)
			}
			out.closers = append(out.closers, cache.Close)
			out.Videos = rediscache.NewCachedSearcher(yt, cache, cfg.SearchCacheTTL, log)
		}
	} else {
		log.Warn("YOUTUBE_API_KEY not set; video recommendations disabled")
	}

	return out, nil
}

// recommender is nil unless both query generation and search are available.
func (c *Clients) recommender(log *logger.Logger, concurrency int) *recs.Aggregator {
	if c.LLM == nil || c.Videos == nil {
		return nil
	}
	return recs.NewAggregator(c.LLM, c.Videos, log, recs.Config{Concurrency: concurrency})
}
