package pmm

import "sort"

// Tags is an ordered string-keyed map of tag Values. Insertion order is
// kept while a tag map lives in memory; keys are re-sorted
// lexicographically when the owning metadata is serialized, so order is
// not preserved across a save/load cycle.
type Tags struct {
	keys []string
	vals map[string]Value
}

// NewTags creates an empty tag map.
func NewTags() *Tags {
	return &Tags{vals: make(map[string]Value)}
}

// Set stores a tag value. A new key is appended; an existing key keeps
// its position.
func (t *Tags) Set(name string, v Value) {
	if _, ok := t.vals[name]; !ok {
		t.keys = append(t.keys, name)
	}
	t.vals[name] = v
}

// Get returns the value for name and whether it is present.
func (t *Tags) Get(name string) (Value, bool) {
	v, ok := t.vals[name]
	return v, ok
}

// Has reports whether name is present.
func (t *Tags) Has(name string) bool {
	_, ok := t.vals[name]
	return ok
}

// Delete removes a tag, reporting whether it was present.
func (t *Tags) Delete(name string) bool {
	if _, ok := t.vals[name]; !ok {
		return false
	}
	delete(t.vals, name)
	for i, k := range t.keys {
		if k == name {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of tags.
func (t *Tags) Len() int { return len(t.keys) }

// Keys returns the tag names in their current order.
func (t *Tags) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Range calls fn for each tag in order until fn returns false.
func (t *Tags) Range(fn func(name string, v Value) bool) {
	for _, k := range t.keys {
		if !fn(k, t.vals[k]) {
			return
		}
	}
}

// SortKeys reorders the tag map into lexicographic key order.
func (t *Tags) SortKeys() {
	sort.Strings(t.keys)
}

// Equal reports whether both maps hold the same tags with equal values.
// Key order does not participate in equality.
func (t *Tags) Equal(o *Tags) bool {
	if t == nil || o == nil {
		return t == nil && o == nil
	}
	if len(t.keys) != len(o.keys) {
		return false
	}
	for k, v := range t.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a copy sharing the tag values but not the key order or
// the underlying map.
func (t *Tags) Clone() *Tags {
	c := &Tags{
		keys: make([]string, len(t.keys)),
		vals: make(map[string]Value, len(t.vals)),
	}
	copy(c.keys, t.keys)
	for k, v := range t.vals {
		c.vals[k] = v
	}
	return c
}

// tagsFromWire builds a tag map from decoded wire data. Wire maps carry
// no order, so keys are stored sorted, matching the order the canonical
// form was written in.
func tagsFromWire(m map[string]interface{}) (*Tags, error) {
	t := NewTags()
	for _, k := range sortedKeys(m) {
		v, err := valueFromWire(m[k])
		if err != nil {
			return nil, err
		}
		t.Set(k, v)
	}
	return t, nil
}
