package store

// ZSetMember pairs a member with its score, the unit returned by range
// queries.
type ZSetMember struct {
	Member string
	Score  float64
}

// ZSet is a sorted set: a member→score dict for O(1) lookup paired with a
// skip list for O(log n) rank/range operations.
type ZSet struct {
	dict *skiplist
	byM  map[string]float64
}

// NewZSet creates an empty sorted set.
func NewZSet() *ZSet {
	return &ZSet{dict: newSkiplist(), byM: make(map[string]float64)}
}

// ZAddFlags controls ZADD's NX/XX/GT/LT/CH behavior.
type ZAddFlags struct {
	NX, XX, GT, LT, CH bool
}

// Add adds or updates member's score according to flags. Returns
// (applied, changed) where applied is false if NX/XX/GT/LT blocked the
// write and changed reports whether the member is new or its score moved
// (used for CH's return-value switch).
func (z *ZSet) Add(member string, score float64, flags ZAddFlags) (applied bool, changed bool) {
	oldScore, exists := z.byM[member]

	if flags.NX && exists {
		return false, false
	}
	if flags.XX && !exists {
		return false, false
	}
	if exists {
		if flags.GT && score <= oldScore {
			return false, false
		}
		if flags.LT && score >= oldScore {
			return false, false
		}
		if score == oldScore {
			return true, false
		}
		z.dict.delete(member, oldScore)
	}

	z.byM[member] = score
	z.dict.insert(member, score)
	return true, true
}

// Remove deletes member, returning true if it existed.
func (z *ZSet) Remove(member string) bool {
	score, exists := z.byM[member]
	if !exists {
		return false
	}
	delete(z.byM, member)
	z.dict.delete(member, score)
	return true
}

// Score returns member's score.
func (z *ZSet) Score(member string) (float64, bool) {
	score, exists := z.byM[member]
	return score, exists
}

// Len returns the number of members.
func (z *ZSet) Len() int {
	return len(z.byM)
}

// Rank returns the 0-based ascending rank of member, or -1 if absent.
func (z *ZSet) Rank(member string) int {
	score, exists := z.byM[member]
	if !exists {
		return -1
	}
	return z.dict.rank(member, score)
}

// RevRank returns the 0-based descending rank of member, or -1 if absent.
func (z *ZSet) RevRank(member string) int {
	r := z.Rank(member)
	if r == -1 {
		return -1
	}
	return z.Len() - r - 1
}

// IncrBy adds delta to member's score (creating it at 0 if absent) and
// returns the new score.
func (z *ZSet) IncrBy(member string, delta float64) float64 {
	old, exists := z.byM[member]
	newScore := old + delta
	if exists {
		z.dict.delete(member, old)
	}
	z.byM[member] = newScore
	z.dict.insert(member, newScore)
	return newScore
}

// RangeByRank returns members with rank in [start, stop] (already resolved
// to valid bounds by the caller), ascending or descending.
func (z *ZSet) RangeByRank(start, stop int, reverse bool) []ZSetMember {
	return z.dict.rangeByRank(start, stop, reverse)
}

// RangeByScore returns members with score in [min, max] (bounds may be
// exclusive), honoring offset/count/reverse.
func (z *ZSet) RangeByScore(min, max float64, minEx, maxEx bool, offset, count int, reverse bool) []ZSetMember {
	return z.dict.rangeByScore(min, max, minEx, maxEx, offset, count, reverse)
}

// RangeByLex returns members in lexicographic order; precondition: all
// scores in the set are equal.
func (z *ZSet) RangeByLex(min, max string, offset, count int, reverse bool) []ZSetMember {
	return z.dict.rangeByLex(min, max, offset, count, reverse)
}

// CountByScore returns the number of members with score in [min, max].
func (z *ZSet) CountByScore(min, max float64, minEx, maxEx bool) int {
	return z.dict.countByScore(min, max, minEx, maxEx)
}

// PopMin removes and returns the count lowest-scoring members.
func (z *ZSet) PopMin(count int) []ZSetMember {
	return z.pop(count, false)
}

// PopMax removes and returns the count highest-scoring members.
func (z *ZSet) PopMax(count int) []ZSetMember {
	return z.pop(count, true)
}

func (z *ZSet) pop(count int, fromMax bool) []ZSetMember {
	result := make([]ZSetMember, 0, count)
	for i := 0; i < count && z.Len() > 0; i++ {
		var node *skiplistNode
		if fromMax {
			node = z.dict.tail
		} else {
			node = z.dict.header.level[0]
		}
		if node == nil {
			break
		}
		m := ZSetMember{Member: node.member, Score: node.score}
		z.Remove(m.Member)
		result = append(result, m)
	}
	return result
}

// RemoveRangeByScore removes all members with score in [min, max],
// returning the count removed.
func (z *ZSet) RemoveRangeByScore(min, max float64, minEx, maxEx bool) int {
	matches := z.dict.rangeByScore(min, max, minEx, maxEx, 0, -1, false)
	for _, m := range matches {
		z.Remove(m.Member)
	}
	return len(matches)
}

// RemoveRangeByRank removes all members with rank in [start, stop],
// returning the count removed.
func (z *ZSet) RemoveRangeByRank(start, stop int) int {
	matches := z.dict.rangeByRank(start, stop, false)
	for _, m := range matches {
		z.Remove(m.Member)
	}
	return len(matches)
}

// All returns every member in ascending order, used for snapshot export
// and ZSCAN's full backing scan.
func (z *ZSet) All() []ZSetMember {
	return z.dict.rangeByRank(0, z.Len()-1, false)
}

// Clone returns a deep copy, used by COPY.
func (z *ZSet) Clone() *ZSet {
	clone := NewZSet()
	for _, m := range z.All() {
		clone.Add(m.Member, m.Score, ZAddFlags{})
	}
	return clone
}
