package fallback

import "sort"

// StaticTable is the fixture of last resort: an immutable mapping from
// identifier to value, built once at startup and shared without locking.
//
// Values are copied in on construction; V should be a value type so callers
// cannot reach back into the table through a returned value.
type StaticTable[V any] struct {
	entries map[string]V
}

// NewStaticTable copies entries into a new table. Later changes to the
// input map are not visible through the table.
func NewStaticTable[V any](entries map[string]V) StaticTable[V] {
	copied := make(map[string]V, len(entries))
	for id, v := range entries {
		copied[id] = v
	}
	return StaticTable[V]{entries: copied}
}

// Lookup returns the value stored for id.
func (t StaticTable[V]) Lookup(id string) (V, bool) {
	v, ok := t.entries[id]
	return v, ok
}

// Len reports the number of identifiers in the table.
func (t StaticTable[V]) Len() int {
	return len(t.entries)
}

// IDs returns the table's identifiers in sorted order.
func (t StaticTable[V]) IDs() []string {
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
