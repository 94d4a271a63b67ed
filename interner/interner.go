// Package interner provides a generic deduplicating symbol table.
//
// An Interner maps keys to dense, stable symbols in first-seen order.
// Symbols start at 1; the zero Symbol never names a key. An Interner only
// grows and is not safe for concurrent mutation.
package interner

// Symbol is a handle to a key interned by one Interner.
// Symbols of different interners are not interchangeable.
type Symbol uint32

// Index returns the 0-based position of the symbol in its interner.
func (s Symbol) Index() uint32 {
	return uint32(s) - 1
}

// IsValid reports whether s can name a key.
func (s Symbol) IsValid() bool {
	return s != 0
}

// FromIndex returns the symbol at 0-based position idx.
func FromIndex(idx uint32) Symbol {
	return Symbol(idx + 1)
}

// Interner deduplicates keys of type K.
type Interner[K comparable] struct {
	index map[K]uint32
	keys  []K
}

// New creates an empty interner.
func New[K comparable]() *Interner[K] {
	return &Interner[K]{index: make(map[K]uint32)}
}

// InternOrGet returns the symbol for key, assigning the next one when the
// key was not seen before. inserted is true only for a new assignment.
// Lookup and reservation happen in one step, so the symbol is visible to
// re-entrant callers before the caller does anything else with it.
func (in *Interner[K]) InternOrGet(key K) (inserted bool, sym Symbol) {
	if idx, ok := in.index[key]; ok {
		return false, FromIndex(idx)
	}
	idx := uint32(len(in.keys))
	in.index[key] = idx
	in.keys = append(in.keys, key)
	return true, FromIndex(idx)
}

// Get returns the symbol of key without interning it.
func (in *Interner[K]) Get(key K) (Symbol, bool) {
	idx, ok := in.index[key]
	if !ok {
		return 0, false
	}
	return FromIndex(idx), true
}

// Resolve returns the key behind sym.
func (in *Interner[K]) Resolve(sym Symbol) (K, bool) {
	var zero K
	if !sym.IsValid() || int(sym.Index()) >= len(in.keys) {
		return zero, false
	}
	return in.keys[sym.Index()], true
}

// Len returns the number of interned keys.
func (in *Interner[K]) Len() int {
	return len(in.keys)
}

// Elements returns the keys in symbol order. The slice must not be modified.
func (in *Interner[K]) Elements() []K {
	return in.keys
}
