package store

import (
	"bytes"
)

// mergedIterator walks the database iterator and a snapshot of buffered
// writes side by side. On equal keys the buffered write wins, and deleted
// items hide the database entry.
type mergedIterator struct {
	parent    Iterator
	cache     []*item
	pos       int
	start     []byte
	end       []byte
	ascending bool

	key   []byte
	value []byte
	valid bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(parent Iterator, cache []*item, start, end []byte, ascending bool) *mergedIterator {
	iter := &mergedIterator{
		parent:    parent,
		cache:     cache,
		start:     start,
		end:       end,
		ascending: ascending,
	}
	// prime the iterator with the first value, if any
	iter.advance()
	return iter
}

// advance moves to the next visible entry, consuming it from its source.
func (i *mergedIterator) advance() {
	for {
		parentValid := i.parent.Valid()
		cacheValid := i.pos < len(i.cache)

		switch {
		case !parentValid && !cacheValid:
			i.valid = false
			i.key, i.value = nil, nil
			return
		case !cacheValid:
			i.takeParent()
			return
		}

		c := i.cache[i.pos]
		if parentValid {
			cmp := bytes.Compare(i.parent.Key(), c.key)
			if !i.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				i.takeParent()
				return
			}
			if cmp == 0 {
				// shadowed by the buffered write
				i.parent.Next()
			}
		}
		i.pos++
		if c.deleted {
			continue
		}
		i.key, i.value, i.valid = c.key, c.value, true
		return
	}
}

func (i *mergedIterator) takeParent() {
	i.key, i.value, i.valid = cp(i.parent.Key()), cp(i.parent.Value()), true
	i.parent.Next()
}

// Domain implements Iterator.
func (i *mergedIterator) Domain() (start []byte, end []byte) {
	return i.start, i.end
}

// Valid implements Iterator.
func (i *mergedIterator) Valid() bool {
	return i.valid
}

// Next implements Iterator.
func (i *mergedIterator) Next() {
	i.assertIsValid()
	i.advance()
}

// Key implements Iterator.
func (i *mergedIterator) Key() []byte {
	i.assertIsValid()
	return i.key
}

// Value implements Iterator.
func (i *mergedIterator) Value() []byte {
	i.assertIsValid()
	return i.value
}

// Error implements Iterator.
func (i *mergedIterator) Error() error {
	return i.parent.Error()
}

// Close implements Iterator.
func (i *mergedIterator) Close() error {
	i.cache = nil
	i.valid = false
	return i.parent.Close()
}

func (i *mergedIterator) assertIsValid() {
	if !i.Valid() {
		panic("iterator is invalid")
	}
}
