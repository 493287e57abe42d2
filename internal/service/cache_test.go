package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onesi/internal/domain"
	"onesi/internal/repository"
)

// gate parks repository calls until it is opened or the calling ctx ends
type gate struct {
	entered chan struct{}
	open    chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 8), open: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	g.entered <- struct{}{}
	select {
	case <-g.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type gatedClicks struct {
	repository.ClickRepository
	*gate
}

func (c gatedClicks) CountInWindow(ctx context.Context, ownerID string, w domain.Window) (int64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	return c.ClickRepository.CountInWindow(ctx, ownerID, w)
}

type gatedLinks struct {
	repository.LinkRepository
	*gate
}

func (l gatedLinks) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	return l.LinkRepository.ListByOwner(ctx, ownerID)
}

// joinAfterCancel starts a fill with a caller that goes away, then a second
// caller on the same key, and returns the second caller's error
func joinAfterCancel(t *testing.T, g *gate, call func(ctx context.Context) error) error {
	t.Helper()
	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_ = call(first)
	}()
	<-g.entered

	second := make(chan error, 1)
	go func() { second <- call(context.Background()) }()
	time.Sleep(50 * time.Millisecond) // let the second caller join the running fill

	cancel()
	time.Sleep(20 * time.Millisecond)
	close(g.open)

	select {
	case err := <-second:
		<-firstDone
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never returned")
		return nil
	}
}

func TestAnalyticsFillOutlivesCancelledCaller(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ana")
	g := newGate()
	f.rewire(func(s *repository.Store) { s.Clicks = gatedClicks{ClickRepository: s.Clicks, gate: g} })

	err := joinAfterCancel(t, g, func(ctx context.Context) error {
		_, err := f.svc.Analytics(ctx, owner, domain.Period7d, false)
		return err
	})
	require.NoError(t, err)
	assert.True(t, f.cache.has(analyticsKey(owner, domain.Period7d, false)))
}

func TestPublicProfileFillOutlivesCancelledVisitor(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ana")
	f.link(t, owner, "Site", "example.com")
	g := newGate()
	f.rewire(func(s *repository.Store) { s.Links = gatedLinks{LinkRepository: s.Links, gate: g} })

	err := joinAfterCancel(t, g, func(ctx context.Context) error {
		_, err := f.svc.PublicProfile(ctx, "ana")
		return err
	})
	require.NoError(t, err)
	assert.True(t, f.cache.has(profileKey(owner)))
}

func TestAnalyticsFillRacingAWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	link := f.link(t, owner, "Site", "example.com")
	g := newGate()
	f.rewire(func(s *repository.Store) { s.Clicks = gatedClicks{ClickRepository: s.Clicks, gate: g} })

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Analytics(ctx, owner, domain.Period7d, false)
		done <- err
	}()
	<-g.entered
	require.NoError(t, f.svc.TrackLink(ctx, link.ID)) // Invalidates while the fill is running
	close(g.open)
	require.NoError(t, <-done)
	assert.False(t, f.cache.has(analyticsKey(owner, domain.Period7d, false)))

	summary, err := f.svc.Analytics(ctx, owner, domain.Period7d, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.TotalClicks)
	assert.True(t, f.cache.has(analyticsKey(owner, domain.Period7d, false)))
}

func TestAnalyticsCacheInvalidatedByEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	link := f.link(t, owner, "Site", "example.com")
	require.NoError(t, f.svc.TrackLink(ctx, link.ID))
	key := analyticsKey(owner, domain.Period7d, false)

	_, err := f.svc.Analytics(ctx, owner, domain.Period7d, false)
	require.NoError(t, err)
	_, err = f.svc.UpdateLink(ctx, owner, link.ID, LinkInput{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.False(t, f.cache.has(key))
	summary, err := f.svc.Analytics(ctx, owner, domain.Period7d, false)
	require.NoError(t, err)
	require.Len(t, summary.TopLinks, 1)
	assert.Equal(t, "Renamed", summary.TopLinks[0].Title)

	product, err := f.svc.CreateProduct(ctx, owner, validProduct())
	require.NoError(t, err)
	assert.False(t, f.cache.has(key))
	summary, err = f.svc.Analytics(ctx, owner, domain.Period7d, false)
	require.NoError(t, err)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "Mug", summary.TopProducts[0].Title)

	_, err = f.svc.UpdateProduct(ctx, owner, product.ID, ProductInput{Title: ptr("Cup")})
	require.NoError(t, err)
	assert.False(t, f.cache.has(key))
	summary, err = f.svc.Analytics(ctx, owner, domain.Period7d, false)
	require.NoError(t, err)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "Cup", summary.TopProducts[0].Title)
}
