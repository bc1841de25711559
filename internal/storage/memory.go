package storage

// MemoryStore is a Storer backed by a plain map.
type MemoryStore[T ValidatingSpec] map[string]T

func (m MemoryStore[T]) Get(id string) T {
	return m[id]
}

func (m MemoryStore[T]) GetAll() map[string]T {
	vals := make(map[string]T, len(m))
	for id, v := range m {
		vals[id] = v
	}
	return vals
}
