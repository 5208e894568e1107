package qchash

// Kv is a key/value pair: the entry shape core[K, E] stores when E is
// instantiated for a Map rather than a Set.
type Kv[K any, V any] struct {
	Key K
	Val V
}

func kvKeyOf[K any, V any](kv Kv[K, V]) K { return kv.Key }

// Map is an unordered associative container keyed by K, built on the same
// Robin Hood engine as Set. It is not safe for concurrent use: see spec
// §5.
//
// A Map must not be copied after first use, for the same reason as Set:
// a value copy aliases the original's backing slots array. Use Clone for
// an independent copy, or hold Maps behind a pointer (as NewMap already
// returns).
type Map[K any, V any] struct {
	c core[K, Kv[K, V]]
}

// NewMap constructs an empty map for a Go-comparable key type, using
// DefaultHasher and DefaultEqual.
func NewMap[K comparable, V any]() *Map[K, V] {
	return NewMapWith[K, V](defaultMinCapacity, DefaultHasher[K](), DefaultEqual[K](), nil)
}

// NewMapWith constructs a map with an explicit minimum capacity, hash
// adaptor, equality adaptor, and (optionally nil for the default)
// allocator adaptor.
func NewMapWith[K any, V any](minCapacity int, hash HashFunc[K], equal EqualFunc[K], alloc Allocator[Kv[K, V]]) *Map[K, V] {
	return &Map[K, V]{c: newCore[K, Kv[K, V]](minCapacity, hash, equal, kvKeyOf[K, V], alloc)}
}

// Emplace inserts (key, val) if key is absent. It reports whether a new
// entry was constructed; on false, the existing value for key is left
// untouched (spec §4.3: emplace never overwrites).
func (m *Map[K, V]) Emplace(key K, val V) bool {
	_, inserted, err := m.c.tryEmplace(key, Kv[K, V]{Key: key, Val: val})
	if err != nil {
		panic(err)
	}
	return inserted
}

// TryEmplace is Emplace, additionally returning a pointer to the value
// half of the slot that now holds key — the one just inserted if
// inserted is true, or the pre-existing one otherwise.
func (m *Map[K, V]) TryEmplace(key K, val V) (*V, bool) {
	kv, inserted, err := m.c.tryEmplace(key, Kv[K, V]{Key: key, Val: val})
	if err != nil {
		panic(err)
	}
	return &kv.Val, inserted
}

// Insert is Emplace under the name spec §6 uses for the uniform
// construct-or-noop operation shared with Set.
func (m *Map[K, V]) Insert(key K, val V) bool {
	return m.Emplace(key, val)
}

// Delete removes key's entry if present and reports whether it did.
func (m *Map[K, V]) Delete(key K) bool {
	return m.c.eraseKey(key)
}

// DeleteIterator removes the entry it references and returns an iterator
// to the next live entry (or End()). it must not be End().
func (m *Map[K, V]) DeleteIterator(it Iterator[Kv[K, V]]) Iterator[Kv[K, V]] {
	if it.Done() {
		panicEndIterator()
	}
	return m.c.eraseAt(it.idx)
}

// DeleteRange removes every entry in [first, last) and returns how many
// were removed.
func (m *Map[K, V]) DeleteRange(first, last Iterator[Kv[K, V]]) int {
	return m.c.eraseRange(first, last)
}

// Clear removes every entry without releasing the bucket array.
func (m *Map[K, V]) Clear() {
	m.c.clear()
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.c.find(key)
	return ok
}

// Count returns 1 if key is present, 0 otherwise.
func (m *Map[K, V]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

// At returns the value stored for key and whether it was present — the
// idiomatic Go rendering of the non-panicking lookup spec §6 calls "at".
func (m *Map[K, V]) At(key K) (V, bool) {
	i, ok := m.c.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.c.slots[i].entry.Val, true
}

// MustAt returns the value stored for key, panicking with ErrKeyNotFound
// if it is absent. This is the strict-access boundary fault from spec
// §7: callers that want the non-panicking form use At.
func (m *Map[K, V]) MustAt(key K) V {
	v, ok := m.At(key)
	if !ok {
		panicKeyNotFound(key)
	}
	return v
}

// Index returns a pointer to the value for key, inserting a zero-valued
// entry first if key is absent — the Go rendering of spec §6's
// insert-on-miss operator[].
func (m *Map[K, V]) Index(key K) *V {
	var zero V
	kv, _, err := m.c.tryEmplace(key, Kv[K, V]{Key: key, Val: zero})
	if err != nil {
		panic(err)
	}
	return &kv.Val
}

// Find returns an iterator to key's entry, or End() if absent.
func (m *Map[K, V]) Find(key K) Iterator[Kv[K, V]] {
	if i, ok := m.c.find(key); ok {
		return Iterator[Kv[K, V]]{slots: m.c.slots, idx: i}
	}
	return m.c.end()
}

// EqualRange returns (Find(key), Find(key)): the same iterator twice, a
// zero-width range even when key is present; see Set.EqualRange for the
// open-question note this mirrors.
func (m *Map[K, V]) EqualRange(key K) (Iterator[Kv[K, V]], Iterator[Kv[K, V]]) {
	it := m.Find(key)
	if it.Done() {
		return it, it
	}
	return it, it
}

// Begin returns an iterator to the first live entry, or End() if empty.
func (m *Map[K, V]) Begin() Iterator[Kv[K, V]] { return m.c.begin() }

// End returns the sentinel end iterator.
func (m *Map[K, V]) End() Iterator[Kv[K, V]] { return m.c.end() }

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.c.len() }

// IsEmpty reports whether Len() == 0.
func (m *Map[K, V]) IsEmpty() bool { return m.c.isEmpty() }

// Capacity returns BucketCount()/2.
func (m *Map[K, V]) Capacity() int { return m.c.capacity() }

// BucketCount returns the current slot array length (minus the sentinel).
func (m *Map[K, V]) BucketCount() int { return m.c.bucketCount }

// Reserve ensures the map can hold n entries without an intervening
// rehash.
func (m *Map[K, V]) Reserve(n int) { m.c.reserve(n) }

// Rehash resizes the bucket array to fit requested.
func (m *Map[K, V]) Rehash(requested int) { m.c.rehash(requested) }

// Swap exchanges the contents of m and other in constant time. This is
// the cheap form of spec §6's move-assignment when both sides already
// share the same (or an equivalent) allocator.
func (m *Map[K, V]) Swap(other *Map[K, V]) {
	m.c, other.c = other.c, m.c
}

// Clone returns an independent deep copy of m: every live (key, value)
// pair is copy-constructed into freshly acquired storage in the result,
// through m's own hash/equal/allocator adaptors. The result shares no
// backing array with m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	dst := m.c.emptyLike()
	if err := m.c.cloneInto(&dst); err != nil {
		panic(err)
	}
	return &Map[K, V]{c: dst}
}

// Absorb moves every entry out of src into m and leaves src empty,
// acquiring each entry through m's allocator and releasing it from
// src's — the Go rendering of spec §5's "move-assignment with
// incompatible allocators" path. When m and src share an allocator,
// Swap is the cheaper choice.
func (m *Map[K, V]) Absorb(src *Map[K, V]) {
	if err := src.c.cloneInto(&m.c); err != nil {
		panic(err)
	}
	src.c.clear()
}

// Equal implements spec §4.8. Two maps compare equal iff every key in
// one is present in the other with an equal value, compared with the
// valEqual argument; V is not required to satisfy the map's own
// EqualFunc, since that adaptor is defined over K, not V.
func (m *Map[K, V]) Equal(other *Map[K, V], valEqual func(a, b V) bool) bool {
	if m.c.size != other.c.size {
		return false
	}
	if m.c.size == 0 {
		return true
	}
	for i := 0; i < m.c.bucketCount; i++ {
		if m.c.slots[i].dist == 0 {
			continue
		}
		kv := m.c.slots[i].entry
		j, ok := other.c.find(kv.Key)
		if !ok || !valEqual(kv.Val, other.c.slots[j].entry.Val) {
			return false
		}
	}
	return true
}

// Hasher returns the map's hash adaptor.
func (m *Map[K, V]) Hasher() HashFunc[K] { return m.c.hash }

// Equaler returns the map's equality adaptor.
func (m *Map[K, V]) Equaler() EqualFunc[K] { return m.c.equal }

// Stats exposes the map's bookkeeping for the rhstat package.
func (m *Map[K, V]) Stats() TableStats {
	return m.c.stats()
}
