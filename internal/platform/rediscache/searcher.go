package rediscache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const keyPrefix = "studyplan:videos:"

// CachedSearcher memoizes successful searches per normalized query.
// Cache failures degrade to a direct search.
type CachedSearcher struct {
	next  recs.VideoSearcher
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

var _ recs.VideoSearcher = (*CachedSearcher)(nil)

func NewCachedSearcher(next recs.VideoSearcher, cache Cache, ttl time.Duration, log *logger.Logger) *CachedSearcher {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSearcher{next: next, cache: cache, ttl: ttl, log: log.With("service", "CachedVideoSearcher")}
}

func cacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.Join(strings.Fields(query), " "))))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (s *CachedSearcher) SearchVideos(ctx context.Context, query string) ([]recs.VideoItem, error) {
	key := cacheKey(query)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var items []recs.VideoItem
		if uErr := json.Unmarshal(raw, &items); uErr == nil {
			return items, nil
		}
		s.log.Warn("discarding undecodable cache entry", "key", key)
	case !errors.Is(err, ErrMiss):
		s.log.Warn("cache get failed", "key", key, "error", err)
	}

	items, err := s.next.SearchVideos(ctx, query)
	if err != nil {
		return nil, err
	}
	if b, mErr := json.Marshal(items); mErr == nil {
		if sErr := s.cache.Set(ctx, key, b, s.ttl); sErr != nil {
			s.log.Warn("cache set failed", "key", key, "error", sErr)
		}
	}
	return items, nil
}
