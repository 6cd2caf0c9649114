package rediscache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/studyplan-backend/internal/modules/study/recs"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (m *memCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	m.ttls[key] = ttl
	return nil
}

type countingSearch struct {
	calls int
	err   error
}

func (c *countingSearch) SearchVideos(_ context.Context, q string) ([]recs.VideoItem, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []recs.VideoItem{{VideoID: "v-" + q, URL: "https://www.youtube.com/watch?v=v-" + q}}, nil
}

func TestCachedSearcherHitsCacheOnRepeat(t *testing.T) {
	cache := newMemCache()
	next := &countingSearch{}
	s := NewCachedSearcher(next, cache, time.Minute, nil)

	first, err := s.SearchVideos(context.Background(), "mitosis")
	require.NoError(t, err)
	second, err := s.SearchVideos(context.Background(), "  Mitosis ")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, cache.ttls[cacheKey("mitosis")])
}

func TestCachedSearcherDoesNotCacheErrors(t *testing.T) {
	cache := newMemCache()
	next := &countingSearch{err: errors.New("quota")}
	s := NewCachedSearcher(next, cache, 0, nil)

	_, err := s.SearchVideos(context.Background(), "q")
	require.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestCachedSearcherFallsThroughOnCacheFailure(t *testing.T) {
	cache := newMemCache()
	cache.failGet = true
	next := &countingSearch{}
	s := NewCachedSearcher(next, cache, time.Minute, nil)

	items, err := s.SearchVideos(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, next.calls)
}

func TestCachedSearcherDiscardsCorruptEntry(t *testing.T) {
	cache := newMemCache()
	cache.data[cacheKey("q")] = []byte("{not json")
	next := &countingSearch{}
	s := NewCachedSearcher(next, cache, time.Minute, nil)

	items, err := s.SearchVideos(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, next.calls)
}
