package store

// SnapshotEntry is one key's fully-materialized value, the unit the
// persistence package reads and writes. Using a parallel exported struct
// (rather than exposing entry itself) keeps the on-disk encoding decoupled
// from the live in-memory representation.
type SnapshotEntry struct {
	Key       string
	Type      ValueType
	HasTTL    bool
	ExpiresAt int64 // epoch milliseconds, meaningful only if HasTTL

	Str  string
	List []string
	Hash map[string]string
	Set  []string
	ZSet []ZSetMember
}

// Snapshot exports every live key as a deep-copied SnapshotEntry, safe to
// encode without holding the keyspace lock afterward.
func (ks *Keyspace) Snapshot() []SnapshotEntry {
	var out []SnapshotEntry
	ks.withLock(func() {
		ks.sweepExpired()
		out = make([]SnapshotEntry, 0, len(ks.entries))
		for key, e := range ks.entries {
			se := SnapshotEntry{
				Key:       key,
				Type:      e.valueType,
				HasTTL:    e.hasTTL,
				ExpiresAt: e.expiresAt,
			}
			switch e.valueType {
			case TypeString:
				se.Str = e.str
			case TypeList:
				se.List = e.list.ToSlice()
			case TypeHash:
				fields := e.hash.All()
				se.Hash = make(map[string]string, len(fields)/2)
				for i := 0; i+1 < len(fields); i += 2 {
					se.Hash[fields[i]] = fields[i+1]
				}
			case TypeSet:
				se.Set = e.set.Members()
			case TypeZSet:
				se.ZSet = e.zset.All()
			}
			out = append(out, se)
		}
	})
	return out
}

// Restore replaces the entire keyspace contents with entries, as done once
// at startup when loading a snapshot file. Entries whose TTL has already
// elapsed are dropped rather than loaded.
func (ks *Keyspace) Restore(entries []SnapshotEntry) {
	ks.withLock(func() {
		ks.entries = make(map[string]*entry, len(entries))
		now := nowMillis()
		for _, se := range entries {
			if se.HasTTL && now >= se.ExpiresAt {
				continue
			}
			e := &entry{valueType: se.Type, hasTTL: se.HasTTL, expiresAt: se.ExpiresAt}
			switch se.Type {
			case TypeString:
				e.str = se.Str
			case TypeList:
				e.list = FromSlice(se.List)
			case TypeHash:
				e.hash = NewHash()
				for f, v := range se.Hash {
					e.hash.Set(f, v)
				}
			case TypeSet:
				e.set = NewSet()
				for _, m := range se.Set {
					e.set.Add(m)
				}
			case TypeZSet:
				e.zset = NewZSet()
				for _, m := range se.ZSet {
					e.zset.Add(m.Member, m.Score, ZAddFlags{})
				}
			}
			ks.entries[se.Key] = e
		}
		ks.dirtyCount = 0
	})
}
