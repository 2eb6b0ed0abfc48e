package cache

import (
	"net/url"
	"testing"
	"time"
)

func TestKeyIgnoresFreshParam(t *testing.T) {
	q1, _ := url.ParseQuery("fresh=true&status=active")
	q2, _ := url.ParseQuery("status=active")
	if Key("t1", "/context/account/a1", q1) != Key("t1", "/context/account/a1", q2) {
		t.Error("fresh param must not participate in the cache key")
	}
}

func TestSetThenGetHit(t *testing.T) {
	c := New()
	key := Key("t1", "/context/account/a1", nil)
	c.Set(key, BucketBalances, "application/json", []byte(`{"a":1}`))

	res, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if res.TTL != 30*time.Second {
		t.Errorf("expected balances bucket TTL 30s, got %v", res.TTL)
	}
	if res.ETag == "" {
		t.Error("expected non-empty ETag")
	}
}

func TestGetMissAfterExpiry(t *testing.T) {
	c := New()
	key := "k1"
	c.mu.Lock()
	c.entries[key] = entry{
		body:      []byte("x"),
		bucket:    BucketDefault,
		storedAt:  time.Now().Add(-3 * time.Minute),
		expiresAt: time.Now().Add(-1 * time.Minute),
	}
	c.mu.Unlock()

	if _, ok := c.Get(key); ok {
		t.Error("expected miss for an expired entry")
	}
}

func TestInvalidatePattern(t *testing.T) {
	c := New()
	c.Set(Key("t1", "/context/account/a1", nil), BucketAccountMetadata, "application/json", []byte("1"))
	c.Set(Key("t1", "/context/account/a1/transfers", nil), BucketDetail, "application/json", []byte("2"))
	c.Set(Key("t1", "/context/agent/ag1", nil), BucketAccountMetadata, "application/json", []byte("3"))

	n := c.InvalidatePattern("account/a1")
	if n != 2 {
		t.Errorf("expected 2 entries invalidated, got %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry remaining, got %d", c.Len())
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	c := New()
	c.mu.Lock()
	c.entries["live"] = entry{expiresAt: time.Now().Add(time.Hour)}
	c.entries["dead"] = entry{expiresAt: time.Now().Add(-time.Hour)}
	c.mu.Unlock()

	c.sweep()

	if c.Len() != 1 {
		t.Errorf("expected 1 entry left after sweep, got %d", c.Len())
	}
	if _, ok := c.entries["live"]; !ok {
		t.Error("sweep must not remove live entries")
	}
}

func TestETagStableForIdenticalBody(t *testing.T) {
	body := []byte(`{"x":1}`)
	if ETag(body) != ETag(body) {
		t.Error("ETag must be deterministic for identical bodies")
	}
	if ETag(body) == ETag([]byte(`{"x":2}`)) {
		t.Error("ETag must differ for different bodies")
	}
}
