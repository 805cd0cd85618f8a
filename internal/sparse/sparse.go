// Package sparse provides a sparse map for accumulating position sets.
//
// The map supports O(1) insertion, lookup and clearing while keeping a dense
// list of entries in insertion order. The DFA builder uses it to union follow
// sets keyed by token index, merging constraint bits on duplicate keys.
package sparse

// Entry is a key with its accumulated value.
type Entry struct {
	Key   uint32
	Value uint32
}

// Map is a sparse map from uint32 keys to uint32 values.
// It maintains a sparse array (key -> index in dense) and a dense array of
// entries. Keys must be smaller than the capacity given to NewMap.
type Map struct {
	sparse []uint32 // Maps key -> index in dense
	dense  []Entry  // Entries in insertion order
}

// NewMap creates a new sparse map for keys in [0, capacity).
func NewMap(capacity uint32) *Map {
	return &Map{
		sparse: make([]uint32, capacity),
		dense:  make([]Entry, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound on keys.
func (m *Map) Capacity() int {
	return len(m.sparse)
}

// Or inserts key with value, or ORs value into the existing entry.
// Returns true if the key was not present before.
// Panics if key >= capacity.
func (m *Map) Or(key, value uint32) bool {
	if i, ok := m.index(key); ok {
		m.dense[i].Value |= value
		return false
	}
	m.sparse[key] = uint32(len(m.dense))
	m.dense = append(m.dense, Entry{Key: key, Value: value})
	return true
}

// Get returns the value stored for key.
func (m *Map) Get(key uint32) (uint32, bool) {
	if i, ok := m.index(key); ok {
		return m.dense[i].Value, true
	}
	return 0, false
}

// Contains returns true if key is in the map.
func (m *Map) Contains(key uint32) bool {
	_, ok := m.index(key)
	return ok
}

func (m *Map) index(key uint32) (uint32, bool) {
	if int(key) >= len(m.sparse) {
		return 0, false
	}
	i := m.sparse[key]
	if int(i) < len(m.dense) && m.dense[i].Key == key {
		return i, true
	}
	return 0, false
}

// Clear removes all entries in O(1) time.
func (m *Map) Clear() {
	m.dense = m.dense[:0]
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.dense)
}

// Entries returns the entries in insertion order.
// The returned slice is valid until the next mutation.
func (m *Map) Entries() []Entry {
	return m.dense
}
