package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// failingCache fails every call
type failingCache struct{ calls int }

func (f *failingCache) Get(context.Context, string, any) (bool, error) {
	f.calls++
	return false, errors.New("connection refused")
}

func (f *failingCache) Set(context.Context, string, any, time.Duration) error {
	f.calls++
	return errors.New("connection refused")
}

func (f *failingCache) Delete(context.Context, ...string) error {
	f.calls++
	return errors.New("connection refused")
}

func TestCacheHelpersSwallowErrors(t *testing.T) {
	ctx := context.Background()
	c := &failingCache{}
	var dest map[string]int

	assert.False(t, GetCache(ctx, c, "k", &dest))
	assert.NotPanics(t, func() {
		SetCache(ctx, c, "k", map[string]int{"a": 1}, time.Minute)
		DeleteCache(ctx, c, "k")
	})
	assert.Equal(t, 3, c.calls)
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NopCache{}
	assert.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	var got string
	found, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}
