package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Deduper drops payloads already seen inside a TTL window. A QoS1 redelivery
// carries a byte-identical payload, so its hash is a stable identity.
type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	max  int
	seen map[string]time.Time
}

func New(ttl time.Duration, max int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{ttl: ttl, max: max, seen: make(map[string]time.Time, max)}
}

// ShouldProcess hashes the payload and reports whether it is the first
// occurrence inside the TTL window. First occurrences are recorded.
func (d *Deduper) ShouldProcess(payload []byte) bool {
	if len(payload) == 0 {
		return true
	}
	h := sha256.Sum256(payload)
	return d.ShouldProcessKey(hex.EncodeToString(h[:]))
}

// ShouldProcessKey is ShouldProcess for callers that already have a string
// identity (a message id, an already computed hash).
func (d *Deduper) ShouldProcessKey(key string) bool {
	if key == "" {
		return true
	}
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if exp, ok := d.seen[key]; ok && now.Before(exp) {
		return false
	}
	d.seen[key] = now.Add(d.ttl)
	if len(d.seen) > d.max {
		d.evict(now)
	}
	return true
}

// evict removes expired entries first, then arbitrary ones until the map is
// back under cap. Caller holds the lock.
func (d *Deduper) evict(now time.Time) {
	for k, exp := range d.seen {
		if now.After(exp) {
			delete(d.seen, k)
		}
	}
	for k := range d.seen {
		if len(d.seen) <= d.max {
			return
		}
		delete(d.seen, k)
	}
}

// Len reports how many identities are currently tracked.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
