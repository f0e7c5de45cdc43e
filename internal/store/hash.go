package store

import "math/rand"

// Hash is a field→value mapping (HSET/HGET family).
type Hash struct {
	fields map[string]string
}

// NewHash creates an empty hash.
func NewHash() *Hash {
	return &Hash{fields: make(map[string]string)}
}

// Set assigns field to value, returning true if the field is new.
func (h *Hash) Set(field, value string) bool {
	_, exists := h.fields[field]
	h.fields[field] = value
	return !exists
}

// SetNX assigns field only if it does not already exist.
func (h *Hash) SetNX(field, value string) bool {
	if _, exists := h.fields[field]; exists {
		return false
	}
	h.fields[field] = value
	return true
}

// Get returns the value of field.
func (h *Hash) Get(field string) (string, bool) {
	v, ok := h.fields[field]
	return v, ok
}

// Delete removes field, returning true if it existed.
func (h *Hash) Delete(field string) bool {
	_, exists := h.fields[field]
	if exists {
		delete(h.fields, field)
	}
	return exists
}

// Len returns the number of fields.
func (h *Hash) Len() int {
	return len(h.fields)
}

// Keys returns all field names in unspecified order.
func (h *Hash) Keys() []string {
	keys := make([]string, 0, len(h.fields))
	for k := range h.fields {
		keys = append(keys, k)
	}
	return keys
}

// Values returns all values in unspecified order.
func (h *Hash) Values() []string {
	values := make([]string, 0, len(h.fields))
	for _, v := range h.fields {
		values = append(values, v)
	}
	return values
}

// All returns the flat [field, value, field, value, ...] representation
// used by HGETALL.
func (h *Hash) All() []string {
	result := make([]string, 0, len(h.fields)*2)
	for k, v := range h.fields {
		result = append(result, k, v)
	}
	return result
}

// RandomFields returns count fields without repetition (count >= 0) or
// |count| fields with repetition allowed (count < 0), matching
// HRANDFIELD's signed-count semantics.
func (h *Hash) RandomFields(count int) []string {
	if len(h.fields) == 0 || count == 0 {
		return []string{}
	}
	all := h.Keys()
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

// Clone returns a deep copy, used by COPY.
func (h *Hash) Clone() *Hash {
	clone := &Hash{fields: make(map[string]string, len(h.fields))}
	for k, v := range h.fields {
		clone.fields[k] = v
	}
	return clone
}
