package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"onesi/internal/domain"
	"onesi/internal/repository"
	"onesi/internal/repository/memory"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// mapCache is an in-process utils.Cache that keeps JSON snapshots like Redis does
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *mapCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mapCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type fixture struct {
	svc   *Service
	store repository.Store
	cache *mapCache
	opts  Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	cache := newMapCache()
	opts := Options{
		Cache:             cache,
		CacheTTL:          time.Minute,
		AnalyticsCacheTTL: time.Minute,
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
		Now:               func() time.Time { return testNow },
	}
	return &fixture{svc: New(store, opts), store: store, cache: cache, opts: opts}
}

// rewire rebuilds the service after wrap has swapped repositories of the store
func (f *fixture) rewire(wrap func(*repository.Store)) {
	wrap(&f.store)
	f.svc = New(f.store, f.opts)
}

// user stores an account and returns its id
func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", Theme: domain.ThemeDefault}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) link(t *testing.T, owner, title, url string) *domain.Link {
	t.Helper()
	l, err := f.svc.CreateLink(context.Background(), owner, LinkInput{Title: ptr(title), URL: ptr(url)})
	require.NoError(t, err)
	return l
}

func (f *fixture) collection(t *testing.T, owner, title string) *domain.Collection {
	t.Helper()
	c, err := f.svc.CreateCollection(context.Background(), owner, title)
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T {
	return &v
}
