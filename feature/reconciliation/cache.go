package reconciliation

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long uploaded runs stay retrievable.
const DefaultCacheTTL = 15 * time.Minute

type cachedRun struct {
	run    *Run
	digest string
	built  time.Time
}

// RunCache holds recent runs by id and by input digest.
type RunCache struct {
	mu       sync.RWMutex
	byID     map[string]*cachedRun
	byDigest map[string]*cachedRun
	sf       singleflight.Group
	ttl      time.Duration
	now      func() time.Time
}

// NewRunCache creates a cache. A zero ttl disables retention.
func NewRunCache(ttl time.Duration) *RunCache {
	return &RunCache{
		byID:     make(map[string]*cachedRun),
		byDigest: make(map[string]*cachedRun),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *RunCache) expired(e *cachedRun) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(e.built) > c.ttl
}

// Get returns a live run by id.
func (c *RunCache) Get(id string) (*Run, bool) {
	c.mu.RLock()
	e, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.run, true
}

// GetOrBuild returns the live run built from digest, or builds it.
// Concurrent calls with the same digest share one build.
func (c *RunCache) GetOrBuild(digest string, build func() (*Run, error)) (*Run, error) {
	if run, ok := c.lookup(digest); ok {
		return run, nil
	}

	result, err, _ := c.sf.Do(digest, func() (interface{}, error) {
		if run, ok := c.lookup(digest); ok {
			return run, nil
		}
		run, err := build()
		if err != nil {
			return nil, err
		}
		c.put(digest, run)
		return run, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Run), nil
}

func (c *RunCache) lookup(digest string) (*Run, bool) {
	c.mu.RLock()
	e, ok := c.byDigest[digest]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.run, true
}

// Put stores a run under its id only.
func (c *RunCache) Put(run *Run) {
	c.put("", run)
}

func (c *RunCache) put(digest string, run *Run) {
	e := &cachedRun{run: run, digest: digest, built: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked()
	c.byID[run.ID] = e
	if digest != "" {
		c.byDigest[digest] = e
	}
}

// evictLocked drops expired entries. The caller holds mu.
func (c *RunCache) evictLocked() {
	for id, e := range c.byID {
		if c.expired(e) {
			delete(c.byID, id)
			if e.digest != "" && c.byDigest[e.digest] == e {
				delete(c.byDigest, e.digest)
			}
		}
	}
}

// Len returns the number of retained runs, expired or not.
func (c *RunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
