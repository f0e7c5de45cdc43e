// Package store implements the typed in-memory keyspace: the global
// key→value map, its TTL index, the five value-type engines (string is a
// bare Go string; list/hash/set/zset get their own files), glob-style key
// matching, and snapshot export/import for persistence.
package store

import (
	"math/rand"
	"sync"
	"time"

	glob "github.com/ryanuber/go-glob"
)

// Keyspace is the single logical database: a map from key to typed entry,
// guarded by one mutex. Every exported method except the *Locked variants
// (which run inside a caller's WithLock) is a complete, atomic operation —
// handlers never see a half-mutated keyspace, and no method
// blocks on socket I/O while holding the lock (spec's concurrency
// invariant).
type Keyspace struct {
	mu         sync.Mutex
	entries    map[string]*entry
	dirtyCount int64
	reaperStop chan struct{}
}

// New creates an empty keyspace and starts its background active-expiry
// sweep.
func New() *Keyspace {
	ks := &Keyspace{
		entries:    make(map[string]*entry),
		reaperStop: make(chan struct{}),
	}
	go ks.reap()
	return ks
}

// Close stops the background expiry sweep.
func (ks *Keyspace) Close() {
	close(ks.reaperStop)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// lookup returns the live entry for key, lazily deleting it first if it
// has expired. Caller must hold ks.mu.
func (ks *Keyspace) lookup(key string) *entry {
	e, ok := ks.entries[key]
	if !ok {
		return nil
	}
	if e.hasTTL && nowMillis() >= e.expiresAt {
		delete(ks.entries, key)
		ks.dirtyCount++
		return nil
	}
	return e
}

// reap periodically samples a bounded batch of up to 100 keys (with or
// without TTLs) and removes any that have expired, reclaiming memory for long-idle keys that are
// never touched again. Purely an optimization: lookup() already enforces
// expiry lazily on every access.
func (ks *Keyspace) reap() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	const sampleSize = 100

	for {
		select {
		case <-ks.reaperStop:
			return
		case <-ticker.C:
			ks.mu.Lock()
			now := nowMillis()
			sampled := 0
			for key, e := range ks.entries {
				if sampled >= sampleSize {
					break
				}
				sampled++
				if e.hasTTL && now >= e.expiresAt {
					delete(ks.entries, key)
					ks.dirtyCount++
				}
			}
			ks.mu.Unlock()
		}
	}
}

// withLock runs fn holding the keyspace mutex. All
// exported single-key helpers route through here to keep lock scope
// explicit and narrow.
func (ks *Keyspace) withLock(fn func()) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	fn()
}

// Exists reports how many of the given keys are currently live.
func (ks *Keyspace) Exists(keys ...string) int {
	var count int
	ks.withLock(func() {
		count = ks.ExistsLocked(keys...)
	})
	return count
}

// ExistsLocked is Exists's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) ExistsLocked(keys ...string) int {
	count := 0
	for _, k := range keys {
		if ks.lookup(k) != nil {
			count++
		}
	}
	return count
}

// Delete removes the given keys, returning how many were actually
// present.
func (ks *Keyspace) Delete(keys ...string) int {
	var count int
	ks.withLock(func() {
		count = ks.DeleteLocked(keys...)
	})
	return count
}

// DeleteLocked is Delete's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) DeleteLocked(keys ...string) int {
	count := 0
	for _, k := range keys {
		if ks.lookup(k) != nil {
			delete(ks.entries, k)
			ks.dirtyCount++
			count++
		}
	}
	return count
}

// Type returns the wire type name for key, or "none" if absent/expired.
func (ks *Keyspace) Type(key string) string {
	var result string
	ks.withLock(func() {
		e := ks.lookup(key)
		if e == nil {
			result = "none"
			return
		}
		result = e.valueType.String()
	})
	return result
}

// CheckType reports whether key is absent or holds the expected type;
// WRONGTYPE callers should treat false as an error.
func (ks *Keyspace) CheckType(key string, expected ValueType) bool {
	ok := true
	ks.withLock(func() {
		e := ks.lookup(key)
		if e == nil {
			return
		}
		ok = e.valueType == expected
	})
	return ok
}

// Rename moves key's value (and TTL) to newKey, overwriting any existing
// value there. Returns false if key does not exist.
func (ks *Keyspace) Rename(key, newKey string) bool {
	var ok bool
	ks.withLock(func() {
		ok = ks.RenameLocked(key, newKey)
	})
	return ok
}

// RenameLocked is Rename's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) RenameLocked(key, newKey string) bool {
	e := ks.lookup(key)
	if e == nil {
		return false
	}
	delete(ks.entries, key)
	ks.entries[newKey] = e
	ks.dirtyCount++
	return true
}

// DBSize returns the number of live keys, reclaiming any expired ones
// encountered along the way.
func (ks *Keyspace) DBSize() int {
	count := 0
	ks.withLock(func() {
		now := nowMillis()
		for k, e := range ks.entries {
			if e.hasTTL && now >= e.expiresAt {
				delete(ks.entries, k)
				ks.dirtyCount++
				continue
			}
			count++
		}
	})
	return count
}

// FlushDB removes every key.
func (ks *Keyspace) FlushDB() {
	ks.withLock(func() {
		ks.entries = make(map[string]*entry)
		ks.dirtyCount++
	})
}

// RandomKey returns a uniformly random live key, or "" if the keyspace is
// empty.
func (ks *Keyspace) RandomKey() (string, bool) {
	var result string
	var ok bool
	ks.withLock(func() {
		ks.sweepExpired()
		n := len(ks.entries)
		if n == 0 {
			return
		}
		idx := rand.Intn(n)
		i := 0
		for k := range ks.entries {
			if i == idx {
				result, ok = k, true
				return
			}
			i++
		}
	})
	return result, ok
}

// sweepExpired removes every expired key. Caller must hold ks.mu.
func (ks *Keyspace) sweepExpired() {
	now := nowMillis()
	for k, e := range ks.entries {
		if e.hasTTL && now >= e.expiresAt {
			delete(ks.entries, k)
			ks.dirtyCount++
		}
	}
}

// Keys returns every live key matching the glob pattern ("*" matches
// everything).
func (ks *Keyspace) Keys(pattern string) []string {
	var result []string
	ks.withLock(func() {
		ks.sweepExpired()
		result = make([]string, 0, len(ks.entries))
		for k := range ks.entries {
			if pattern == "*" || glob.Glob(pattern, k) {
				result = append(result, k)
			}
		}
	})
	return result
}

// Scan implements the SCAN cursor contract: an offset into a snapshot of
// the key list, paginated in batches of count with an optional MATCH
// filter. Returns the next cursor (0 means iteration is complete) and the
// batch of keys.
func (ks *Keyspace) Scan(cursor, count int, pattern string) (int, []string) {
	var next int
	var batch []string
	ks.withLock(func() {
		ks.sweepExpired()
		all := make([]string, 0, len(ks.entries))
		for k := range ks.entries {
			all = append(all, k)
		}
		if cursor < 0 || cursor >= len(all) {
			next = 0
			return
		}
		end := cursor + count
		if end >= len(all) {
			end = len(all)
			next = 0
		} else {
			next = end
		}
		for _, k := range all[cursor:end] {
			if pattern == "" || pattern == "*" || glob.Glob(pattern, k) {
				batch = append(batch, k)
			}
		}
	})
	return next, batch
}

// ExpireAt sets key's absolute expiration to the given epoch millisecond
// instant. Returns false if key does not exist.
func (ks *Keyspace) ExpireAt(key string, atMillis int64) bool {
	var ok bool
	ks.withLock(func() {
		ok = ks.ExpireAtLocked(key, atMillis)
	})
	return ok
}

// ExpireAtLocked is ExpireAt's body, for use from inside a WithLock
// closure that already holds ks.mu.
func (ks *Keyspace) ExpireAtLocked(key string, atMillis int64) bool {
	e := ks.lookup(key)
	if e == nil {
		return false
	}
	e.hasTTL = true
	e.expiresAt = atMillis
	return true
}

// ExpireIn sets key's TTL to d from now.
func (ks *Keyspace) ExpireIn(key string, d time.Duration) bool {
	return ks.ExpireAt(key, nowMillis()+d.Milliseconds())
}

// TTL returns remaining seconds until expiry, -1 if key has no TTL, or -2
// if key does not exist.
func (ks *Keyspace) TTL(key string) int64 {
	return ks.pttl(key, true)
}

// PTTL returns remaining milliseconds until expiry, -1/-2 as above.
func (ks *Keyspace) PTTL(key string) int64 {
	return ks.pttl(key, false)
}

func (ks *Keyspace) pttl(key string, seconds bool) int64 {
	var result int64
	ks.withLock(func() {
		e := ks.lookup(key)
		if e == nil {
			result = -2
			return
		}
		if !e.hasTTL {
			result = -1
			return
		}
		remaining := e.expiresAt - nowMillis()
		if remaining < 0 {
			remaining = 0
		}
		if seconds {
			result = (remaining + 999) / 1000
			return
		}
		result = remaining
	})
	return result
}

// Persist removes key's TTL, returning true if a TTL was present.
func (ks *Keyspace) Persist(key string) bool {
	ok := false
	ks.withLock(func() {
		e := ks.lookup(key)
		if e == nil || !e.hasTTL {
			return
		}
		e.hasTTL = false
		e.expiresAt = 0
		ok = true
	})
	return ok
}

// DirtyCount returns the number of write operations since the last reset.
func (ks *Keyspace) DirtyCount() int64 {
	var n int64
	ks.withLock(func() { n = ks.dirtyCount })
	return n
}

// ResetDirty zeroes the dirty counter, called after a successful save.
func (ks *Keyspace) ResetDirty() {
	ks.withLock(func() { ks.dirtyCount = 0 })
}

// markDirty increments the dirty counter by one write. Caller must hold
// ks.mu.
func (ks *Keyspace) markDirty() {
	ks.dirtyCount++
}
