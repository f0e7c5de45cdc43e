package store

// Typed accessors used by the command handlers. Every public method here
// takes the keyspace lock for the duration of the whole read-modify-write
// so that, e.g., "get-or-create the list then push" is atomic with respect
// to other connections.
//
// Each has a Locked counterpart (same body, no locking) for handlers that
// need several accessors to run as one atomic unit: wrap the sequence in
// Keyspace.WithLock and call only the Locked variants inside it. ks.mu is
// a plain sync.Mutex, not reentrant, so calling a public method from
// inside an already-locked WithLock closure deadlocks the whole
// keyspace — every List/Hash/Set/ZSet is also a bare, unsynchronized
// structure, so reading or mutating one outside of a held lock races with
// any other connection touching the same key.

// GetString returns key's string value. ok is false if key is absent;
// wrongType is true if key holds a different type.
func (ks *Keyspace) GetString(key string) (value string, ok bool, wrongType bool) {
	ks.withLock(func() {
		value, ok, wrongType = ks.GetStringLocked(key)
	})
	return
}

// GetStringLocked is GetString's body, for use from inside a WithLock
// closure that already holds ks.mu.
func (ks *Keyspace) GetStringLocked(key string) (value string, ok bool, wrongType bool) {
	e := ks.lookup(key)
	if e == nil {
		return
	}
	if e.valueType != TypeString {
		wrongType = true
		return
	}
	value, ok = e.str, true
	return
}

// SetString stores value as a plain string at key, replacing whatever was
// there and clearing any previous TTL unless keepTTL is set.
func (ks *Keyspace) SetString(key, value string, keepTTL bool) {
	ks.withLock(func() {
		ks.SetStringLocked(key, value, keepTTL)
	})
}

// SetStringLocked is SetString's body, for use from inside a WithLock
// closure that already holds ks.mu.
func (ks *Keyspace) SetStringLocked(key, value string, keepTTL bool) {
	e, exists := ks.entries[key]
	if !exists || e.valueType != TypeString {
		e = &entry{valueType: TypeString}
		ks.entries[key] = e
	}
	if !keepTTL {
		e.hasTTL = false
		e.expiresAt = 0
	}
	e.str = value
	ks.markDirty()
}

// MutateString runs fn against key's current string value (empty if
// absent) and stores the result, preserving any existing TTL. Returns
// wrongType if key holds a non-string value.
func (ks *Keyspace) MutateString(key string, fn func(current string, existed bool) string) (wrongType bool) {
	ks.withLock(func() {
		wrongType = ks.MutateStringLocked(key, fn)
	})
	return
}

// MutateStringLocked is MutateString's body, for use from inside a
// WithLock closure that already holds ks.mu.
func (ks *Keyspace) MutateStringLocked(key string, fn func(current string, existed bool) string) (wrongType bool) {
	e := ks.lookup(key)
	exists := e != nil
	if exists && e.valueType != TypeString {
		return true
	}
	var current string
	if exists {
		current = e.str
	} else {
		e = &entry{valueType: TypeString}
		ks.entries[key] = e
	}
	e.str = fn(current, exists)
	ks.markDirty()
	return false
}

// getOrCreateLocked returns key's entry, creating it with the given type and
// zero value if absent. Returns wrongType if an existing entry has a
// different type. Caller must hold ks.mu.
func (ks *Keyspace) getOrCreateLocked(key string, t ValueType, zero func() *entry) (*entry, bool) {
	if e := ks.lookup(key); e != nil {
		if e.valueType != t {
			return nil, true
		}
		return e, false
	}
	e := zero()
	ks.entries[key] = e
	return e, false
}

// GetList returns key's list. ok is false if absent; wrongType if key
// holds a different type. The returned *List is a bare, unsynchronized
// structure: it is only safe to read or mutate it before this call
// returns. Callers that need to look at the list's contents must do so
// from a WithLock closure via GetListLocked instead, so the lock stays
// held for the whole read.
func (ks *Keyspace) GetList(key string) (list *List, ok bool, wrongType bool) {
	ks.withLock(func() {
		list, ok, wrongType = ks.GetListLocked(key)
	})
	return
}

// GetListLocked is GetList's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) GetListLocked(key string) (list *List, ok bool, wrongType bool) {
	e := ks.lookup(key)
	if e == nil {
		return
	}
	if e.valueType != TypeList {
		wrongType = true
		return
	}
	list, ok = e.list, true
	return
}

// GetOrCreateList returns key's list, creating an empty one if absent.
func (ks *Keyspace) GetOrCreateList(key string) (list *List, wrongType bool) {
	ks.withLock(func() {
		list, wrongType = ks.GetOrCreateListLocked(key)
	})
	return
}

// GetOrCreateListLocked is GetOrCreateList's body, for use from inside a
// WithLock closure that already holds ks.mu.
func (ks *Keyspace) GetOrCreateListLocked(key string) (list *List, wrongType bool) {
	e, wt := ks.getOrCreateLocked(key, TypeList, func() *entry {
		return &entry{valueType: TypeList, list: NewList()}
	})
	if wt {
		return nil, true
	}
	ks.markDirty()
	return e.list, false
}

// DeleteIfEmptyList removes key if its list is now empty, per the
// empty-container auto-deletion invariant.
func (ks *Keyspace) DeleteIfEmptyList(key string) {
	ks.withLock(func() {
		ks.DeleteIfEmptyListLocked(key)
	})
}

// DeleteIfEmptyListLocked is DeleteIfEmptyList's body, for use from
// inside a WithLock closure that already holds ks.mu.
func (ks *Keyspace) DeleteIfEmptyListLocked(key string) {
	e, exists := ks.entries[key]
	if exists && e.valueType == TypeList && e.list.Len() == 0 {
		delete(ks.entries, key)
	}
}

// GetHash returns key's hash.
func (ks *Keyspace) GetHash(key string) (hash *Hash, ok bool, wrongType bool) {
	ks.withLock(func() {
		hash, ok, wrongType = ks.GetHashLocked(key)
	})
	return
}

// GetHashLocked is GetHash's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) GetHashLocked(key string) (hash *Hash, ok bool, wrongType bool) {
	e := ks.lookup(key)
	if e == nil {
		return
	}
	if e.valueType != TypeHash {
		wrongType = true
		return
	}
	hash, ok = e.hash, true
	return
}

// GetOrCreateHash returns key's hash, creating an empty one if absent.
func (ks *Keyspace) GetOrCreateHash(key string) (hash *Hash, wrongType bool) {
	ks.withLock(func() {
		hash, wrongType = ks.GetOrCreateHashLocked(key)
	})
	return
}

// GetOrCreateHashLocked is GetOrCreateHash's body, for use from inside a
// WithLock closure that already holds ks.mu.
func (ks *Keyspace) GetOrCreateHashLocked(key string) (hash *Hash, wrongType bool) {
	e, wt := ks.getOrCreateLocked(key, TypeHash, func() *entry {
		return &entry{valueType: TypeHash, hash: NewHash()}
	})
	if wt {
		return nil, true
	}
	ks.markDirty()
	return e.hash, false
}

// DeleteIfEmptyHash removes key if its hash is now empty.
func (ks *Keyspace) DeleteIfEmptyHash(key string) {
	ks.withLock(func() {
		ks.DeleteIfEmptyHashLocked(key)
	})
}

// DeleteIfEmptyHashLocked is DeleteIfEmptyHash's body, for use from
// inside a WithLock closure that already holds ks.mu.
func (ks *Keyspace) DeleteIfEmptyHashLocked(key string) {
	e, exists := ks.entries[key]
	if exists && e.valueType == TypeHash && e.hash.Len() == 0 {
		delete(ks.entries, key)
	}
}

// GetSet returns key's set.
func (ks *Keyspace) GetSet(key string) (set *Set, ok bool, wrongType bool) {
	ks.withLock(func() {
		set, ok, wrongType = ks.GetSetLocked(key)
	})
	return
}

// GetSetLocked is GetSet's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) GetSetLocked(key string) (set *Set, ok bool, wrongType bool) {
	e := ks.lookup(key)
	if e == nil {
		return
	}
	if e.valueType != TypeSet {
		wrongType = true
		return
	}
	set, ok = e.set, true
	return
}

// GetOrCreateSet returns key's set, creating an empty one if absent.
func (ks *Keyspace) GetOrCreateSet(key string) (set *Set, wrongType bool) {
	ks.withLock(func() {
		set, wrongType = ks.GetOrCreateSetLocked(key)
	})
	return
}

// GetOrCreateSetLocked is GetOrCreateSet's body, for use from inside a
// WithLock closure that already holds ks.mu.
func (ks *Keyspace) GetOrCreateSetLocked(key string) (set *Set, wrongType bool) {
	e, wt := ks.getOrCreateLocked(key, TypeSet, func() *entry {
		return &entry{valueType: TypeSet, set: NewSet()}
	})
	if wt {
		return nil, true
	}
	ks.markDirty()
	return e.set, false
}

// DeleteIfEmptySet removes key if its set is now empty.
func (ks *Keyspace) DeleteIfEmptySet(key string) {
	ks.withLock(func() {
		ks.DeleteIfEmptySetLocked(key)
	})
}

// DeleteIfEmptySetLocked is DeleteIfEmptySet's body, for use from inside
// a WithLock closure that already holds ks.mu.
func (ks *Keyspace) DeleteIfEmptySetLocked(key string) {
	e, exists := ks.entries[key]
	if exists && e.valueType == TypeSet && e.set.Len() == 0 {
		delete(ks.entries, key)
	}
}

// GetZSet returns key's sorted set.
func (ks *Keyspace) GetZSet(key string) (zset *ZSet, ok bool, wrongType bool) {
	ks.withLock(func() {
		zset, ok, wrongType = ks.GetZSetLocked(key)
	})
	return
}

// GetZSetLocked is GetZSet's body, for use from inside a WithLock closure
// that already holds ks.mu.
func (ks *Keyspace) GetZSetLocked(key string) (zset *ZSet, ok bool, wrongType bool) {
	e := ks.lookup(key)
	if e == nil {
		return
	}
	if e.valueType != TypeZSet {
		wrongType = true
		return
	}
	zset, ok = e.zset, true
	return
}

// GetOrCreateZSet returns key's sorted set, creating an empty one if
// absent.
func (ks *Keyspace) GetOrCreateZSet(key string) (zset *ZSet, wrongType bool) {
	ks.withLock(func() {
		zset, wrongType = ks.GetOrCreateZSetLocked(key)
	})
	return
}

// GetOrCreateZSetLocked is GetOrCreateZSet's body, for use from inside a
// WithLock closure that already holds ks.mu.
func (ks *Keyspace) GetOrCreateZSetLocked(key string) (zset *ZSet, wrongType bool) {
	e, wt := ks.getOrCreateLocked(key, TypeZSet, func() *entry {
		return &entry{valueType: TypeZSet, zset: NewZSet()}
	})
	if wt {
		return nil, true
	}
	ks.markDirty()
	return e.zset, false
}

// DeleteIfEmptyZSet removes key if its sorted set is now empty.
func (ks *Keyspace) DeleteIfEmptyZSet(key string) {
	ks.withLock(func() {
		ks.DeleteIfEmptyZSetLocked(key)
	})
}

// DeleteIfEmptyZSetLocked is DeleteIfEmptyZSet's body, for use from
// inside a WithLock closure that already holds ks.mu.
func (ks *Keyspace) DeleteIfEmptyZSetLocked(key string) {
	e, exists := ks.entries[key]
	if exists && e.valueType == TypeZSet && e.zset.Len() == 0 {
		delete(ks.entries, key)
	}
}

// WithLock exposes the keyspace mutex to callers (e.g. the command
// dispatcher) that need to run several of the above accessors as one
// atomic unit, such as RPOPLPUSH's pop-then-push across two keys, or a
// read command that must materialize its result before the lock is
// released. Code inside fn must call only the *Locked accessors above —
// ks.mu is not reentrant, so calling a public (lock-taking) method here
// deadlocks.
func (ks *Keyspace) WithLock(fn func()) {
	ks.withLock(fn)
}

// Touch marks one or more keys as recently used for the purposes of
// TOUCH/eviction bookkeeping; this store has no eviction policy, so it
// only reports how many keys exist, matching Exists.
func (ks *Keyspace) Touch(keys ...string) int {
	return ks.Exists(keys...)
}

// Copy duplicates source's value (and TTL) to destination. If replace is
// false, Copy fails when destination already exists.
func (ks *Keyspace) Copy(source, destination string, replace bool) bool {
	ok := false
	ks.withLock(func() {
		src := ks.lookup(source)
		if src == nil {
			return
		}
		if ks.lookup(destination) != nil && !replace {
			return
		}
		ks.entries[destination] = cloneEntry(src)
		ks.markDirty()
		ok = true
	})
	return ok
}

func cloneEntry(e *entry) *entry {
	clone := &entry{valueType: e.valueType, hasTTL: e.hasTTL, expiresAt: e.expiresAt}
	switch e.valueType {
	case TypeString:
		clone.str = e.str
	case TypeList:
		clone.list = e.list.Clone()
	case TypeHash:
		clone.hash = e.hash.Clone()
	case TypeSet:
		clone.set = e.set.Clone()
	case TypeZSet:
		clone.zset = e.zset.Clone()
	}
	return clone
}
