package reconciliation

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCache_PutAndGet(t *testing.T) {
	cache := NewRunCache(time.Minute)
	cache.Put(&Run{ID: "r1"})

	run, ok := cache.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "r1", run.ID)

	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func TestRunCache_Expiry(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	cache := NewRunCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Put(&Run{ID: "r1"})
	now = now.Add(2 * time.Minute)

	_, ok := cache.Get("r1")
	assert.False(t, ok)

	cache.Put(&Run{ID: "r2"})
	assert.Equal(t, 1, cache.Len(), "expired runs are evicted on insert")
}

func TestRunCache_ZeroTTL(t *testing.T) {
	cache := NewRunCache(0)
	builds := 0
	build := func() (*Run, error) {
		builds++
		return &Run{ID: "r"}, nil
	}

	_, err := cache.GetOrBuild("d", build)
	require.NoError(t, err)
	_, err = cache.GetOrBuild("d", build)
	require.NoError(t, err)
	assert.Equal(t, 2, builds)
}

func TestRunCache_GetOrBuildSharesBuild(t *testing.T) {
	cache := NewRunCache(time.Minute)
	var builds int32

	var wg sync.WaitGroup
	runs := make([]*Run, 8)
	for i := range runs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run, err := cache.GetOrBuild("digest", func() (*Run, error) {
				atomic.AddInt32(&builds, 1)
				time.Sleep(10 * time.Millisecond)
				return &Run{ID: "shared"}, nil
			})
			assert.NoError(t, err)
			runs[i] = run
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	for _, run := range runs {
		assert.Same(t, runs[0], run)
	}

	run, ok := cache.Get("shared")
	require.True(t, ok)
	assert.Same(t, runs[0], run)
}

func TestRunCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewRunCache(time.Minute)
	boom := errors.New("boom")

	_, err := cache.GetOrBuild("d", func() (*Run, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	run, err := cache.GetOrBuild("d", func() (*Run, error) { return &Run{ID: "ok"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", run.ID)
}
