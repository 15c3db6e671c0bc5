package images

import (
	"context"
	"strings"
	"sync"
	"time"
)

// reuseSlack is how much remaining validity a cached URL must have to be
// reused. A URL about to expire is re-presigned instead of handed out.
const reuseSlack = 60 * time.Second

// Presigner exchanges a storage key for a presigned display URL.
type Presigner interface {
	PresignImage(ctx context.Context, key string) (string, error)
}

// Result is one asynchronous resolution outcome.
type Result struct {
	Key string
	URL string
	Err error
}

type cacheEntry struct {
	url     string
	expires time.Time
}

// Resolver caches presigned URLs by storage key and serializes selection:
// selecting a new key cancels the lookup for the previous one, so a stale
// response never lands on a different scan.
type Resolver struct {
	presigner Presigner
	ttl       time.Duration
	now       func() time.Time

	mu         sync.Mutex
	cache      map[string]cacheEntry
	cancel     context.CancelFunc
	generation uint64
}

// NewResolver builds a resolver. ttl is how long a presigned URL is assumed
// valid after issue.
func NewResolver(presigner Presigner, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = 25 * time.Minute
	}
	return &Resolver{
		presigner: presigner,
		ttl:       ttl,
		now:       time.Now,
		cache:     make(map[string]cacheEntry),
	}
}

// Resolve returns a display URL for the key, from cache when a previously
// presigned URL is still comfortably valid.
func (r *Resolver) Resolve(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)

	r.mu.Lock()
	if entry, ok := r.cache[key]; ok && entry.expires.After(r.now().Add(reuseSlack)) {
		r.mu.Unlock()
		return entry.url, nil
	}
	r.mu.Unlock()

	url, err := r.presigner.PresignImage(ctx, key)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[key] = cacheEntry{url: url, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return url, nil
}

// Select starts resolving the key for the newly selected scan and cancels any
// lookup still in flight for the previous selection. The returned channel
// delivers exactly one Result; a result superseded by a later Select is
// dropped rather than delivered.
func (r *Resolver) Select(ctx context.Context, key string) <-chan Result {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	lookupCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.generation++
	generation := r.generation
	r.mu.Unlock()

	results := make(chan Result, 1)
	go func() {
		defer cancel()
		url, err := r.Resolve(lookupCtx, key)

		r.mu.Lock()
		stale := generation != r.generation
		r.mu.Unlock()
		if stale || lookupCtx.Err() != nil {
			return
		}
		results <- Result{Key: key, URL: url, Err: err}
	}()
	return results
}

// Invalidate drops the cached URL for a key.
func (r *Resolver) Invalidate(key string) {
	r.mu.Lock()
	delete(r.cache, strings.TrimSpace(key))
	r.mu.Unlock()
}
