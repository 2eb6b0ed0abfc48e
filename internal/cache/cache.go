// Package cache implements the in-process response cache fronting
// /context/* reads: entries are keyed by tenant+path+query, bucketed by TTL,
// and served with weak ETag / X-Cache headers. It uses the same
// RWMutex-guarded map idiom as internal/store, generalized from a
// single entity type to an opaque byte-body cache, plus an async sweeper
// for TTL eviction.
package cache

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Bucket names a TTL class. Each cacheable route picks one when it writes.
type Bucket string

const (
	BucketAccountMetadata Bucket = "ACCOUNT_METADATA"
	BucketActivityStats   Bucket = "ACTIVITY_STATS"
	BucketBalances        Bucket = "BALANCES"
	BucketDetail          Bucket = "DETAIL" // transfer / agent / batch details
	BucketCapabilities    Bucket = "CAPABILITIES"
	BucketDefault         Bucket = "DEFAULT"
)

var bucketTTL = map[Bucket]time.Duration{
	BucketAccountMetadata: 5 * time.Minute,
	BucketActivityStats:   time.Hour,
	BucketBalances:        30 * time.Second,
	BucketDetail:          2 * time.Minute,
	BucketCapabilities:    time.Hour,
	BucketDefault:         2 * time.Minute,
}

// TTLFor returns the configured TTL for bucket, falling back to the default
// bucket's TTL for an unrecognized value.
func TTLFor(b Bucket) time.Duration {
	if ttl, ok := bucketTTL[b]; ok {
		return ttl
	}
	return bucketTTL[BucketDefault]
}

type entry struct {
	body        []byte
	contentType string
	etag        string
	bucket      Bucket
	storedAt    time.Time
	expiresAt   time.Time
}

// Cache is a thread-safe, process-local store of previously rendered
// /context/* response bodies.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	sweeperMu sync.Mutex
	sweeper   *cron.Cron
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Key builds the cache key from tenant, path and the query params relevant
// to caching (everything except control params like fresh/cache-control,
// which never participate in the key).
func Key(tenant, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(tenant)
	b.WriteByte(':')
	b.WriteString(path)

	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "fresh" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vals := query[k]
		sort.Strings(vals)
		b.WriteByte('?')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(vals, ","))
	}
	return b.String()
}

// ETag derives a weak entity tag from the response body — stable across
// identical bodies, cheap to recompute, never used for integrity.
func ETag(body []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(body)
	return fmt.Sprintf(`W/"%x"`, h.Sum64())
}

// Result is what Get returns on a hit: enough to set X-Cache-Age, ETag and
// Cache-Control headers without recomputing anything.
type Result struct {
	Body        []byte
	ContentType string
	ETag        string
	Age         time.Duration
	TTL         time.Duration
}

// Get returns the live entry for key, or ok=false if missing or expired.
// Expired entries are not evicted here — that's the sweeper's job — so a
// read never pays a write lock.
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return Result{}, false
	}
	return Result{
		Body:        e.body,
		ContentType: e.contentType,
		ETag:        e.etag,
		Age:         time.Since(e.storedAt),
		TTL:         TTLFor(e.bucket),
	}, true
}

// Set stores body under key in bucket, computing its ETag and expiry.
func (c *Cache) Set(key string, bucket Bucket, contentType string, body []byte) Result {
	now := time.Now()
	ttl := TTLFor(bucket)
	e := entry{
		body:        body,
		contentType: contentType,
		etag:        ETag(body),
		bucket:      bucket,
		storedAt:    now,
		expiresAt:   now.Add(ttl),
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return Result{Body: body, ContentType: contentType, ETag: e.etag, Age: 0, TTL: ttl}
}

// InvalidatePattern drops every entry whose key contains prefix, e.g.
// "account/acc1" invalidates every cached /context/account/acc1* variant.
func (c *Cache) InvalidatePattern(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if strings.Contains(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// sweep removes every entry past its expiry, independent of reads.
func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// StartSweeper launches the background eviction job on a 5-minute cadence.
// Safe to call once per Cache; a second call is a no-op.
func (c *Cache) StartSweeper() {
	c.sweeperMu.Lock()
	defer c.sweeperMu.Unlock()
	if c.sweeper != nil {
		return
	}
	sched := cron.New()
	_, _ = sched.AddFunc("@every 5m", c.sweep)
	sched.Start()
	c.sweeper = sched
}

// StopSweeper stops the background job, if running. Used by test teardown
// and graceful shutdown.
func (c *Cache) StopSweeper() {
	c.sweeperMu.Lock()
	defer c.sweeperMu.Unlock()
	if c.sweeper == nil {
		return
	}
	ctx := c.sweeper.Stop()
	<-ctx.Done()
	c.sweeper = nil
}

// Len reports the current entry count, expired or not — used by tests and
// the health/debug surface.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
