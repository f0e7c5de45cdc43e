package store

import "math/rand"

// Set is an unordered collection of unique member strings.
type Set struct {
	members map[string]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// Add inserts member, returning true if it was new.
func (s *Set) Add(member string) bool {
	if _, exists := s.members[member]; exists {
		return false
	}
	s.members[member] = struct{}{}
	return true
}

// Remove deletes member, returning true if it existed.
func (s *Set) Remove(member string) bool {
	if _, exists := s.members[member]; !exists {
		return false
	}
	delete(s.members, member)
	return true
}

// IsMember reports whether member is present.
func (s *Set) IsMember(member string) bool {
	_, exists := s.members[member]
	return exists
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}

// Members returns all members in unspecified order.
func (s *Set) Members() []string {
	result := make([]string, 0, len(s.members))
	for m := range s.members {
		result = append(result, m)
	}
	return result
}

// Pop removes and returns one random member.
func (s *Set) Pop() (string, bool) {
	for m := range s.members {
		delete(s.members, m)
		return m, true
	}
	return "", false
}

// RandomMembers returns count members without repetition (count >= 0) or
// |count| members with repetition allowed (count < 0), matching
// SRANDMEMBER/HRANDFIELD signed-count semantics.
func (s *Set) RandomMembers(count int) []string {
	if len(s.members) == 0 || count == 0 {
		return []string{}
	}

	all := s.Members()

	if count < 0 {
		n := -count
		result := make([]string, n)
		for i := 0; i < n; i++ {
			result[i] = all[rand.Intn(len(all))]
		}
		return result
	}

	if count > len(all) {
		count = len(all)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:count]
}

// Union returns a new set containing members of s and other.
func (s *Set) Union(other *Set) *Set {
	result := NewSet()
	for m := range s.members {
		result.Add(m)
	}
	if other != nil {
		for m := range other.members {
			result.Add(m)
		}
	}
	return result
}

// Intersect returns a new set containing members present in both s and
// other. Iterates the smaller set first as a performance contract.
func (s *Set) Intersect(other *Set) *Set {
	result := NewSet()
	if other == nil {
		return result
	}
	smaller, larger := s, other
	if len(other.members) < len(s.members) {
		smaller, larger = other, s
	}
	for m := range smaller.members {
		if larger.IsMember(m) {
			result.Add(m)
		}
	}
	return result
}

// IntersectCard returns the size of the intersection of s and other,
// short-circuiting once limit (if > 0) members have been found.
func (s *Set) IntersectCard(other *Set, limit int) int {
	if other == nil {
		return 0
	}
	smaller, larger := s, other
	if len(other.members) < len(s.members) {
		smaller, larger = other, s
	}
	count := 0
	for m := range smaller.members {
		if larger.IsMember(m) {
			count++
			if limit > 0 && count >= limit {
				return count
			}
		}
	}
	return count
}

// Diff returns a new set containing members of s not present in other.
func (s *Set) Diff(other *Set) *Set {
	result := NewSet()
	for m := range s.members {
		if other == nil || !other.IsMember(m) {
			result.Add(m)
		}
	}
	return result
}

// Clone returns a deep copy, used by COPY and the set-algebra commands.
func (s *Set) Clone() *Set {
	clone := &Set{members: make(map[string]struct{}, len(s.members))}
	for m := range s.members {
		clone.members[m] = struct{}{}
	}
	return clone
}
