package store

// prefixStore namespaces every key of the parent under a fixed prefix.
type prefixStore struct {
	parent KVStore
	prefix []byte
}

var _ KVStore = (*prefixStore)(nil)

// Prefix returns a view of parent where every key is stored under prefix.
// Iterators over the view return keys with the prefix stripped.
func Prefix(parent KVStore, prefix []byte) KVStore {
	return &prefixStore{parent: parent, prefix: cp(prefix)}
}

func (s *prefixStore) key(key []byte) []byte {
	res := make([]byte, 0, len(s.prefix)+len(key))
	res = append(res, s.prefix...)
	return append(res, key...)
}

func (s *prefixStore) Get(key []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return s.parent.Get(s.key(key))
}

func (s *prefixStore) Has(key []byte) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	return s.parent.Has(s.key(key))
}

func (s *prefixStore) Set(key, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.parent.Set(s.key(key), value)
}

func (s *prefixStore) Delete(key []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.parent.Delete(s.key(key))
}

func (s *prefixStore) Iterator(start, end []byte) (Iterator, error) {
	pstart, pend := s.domain(start, end)
	iter, err := s.parent.Iterator(pstart, pend)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: iter, prefix: s.prefix, start: start, end: end}, nil
}

func (s *prefixStore) ReverseIterator(start, end []byte) (Iterator, error) {
	pstart, pend := s.domain(start, end)
	iter, err := s.parent.ReverseIterator(pstart, pend)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: iter, prefix: s.prefix, start: start, end: end}, nil
}

func (s *prefixStore) domain(start, end []byte) ([]byte, []byte) {
	pstart := s.key(start)
	var pend []byte
	if end == nil {
		pend = PrefixEnd(s.prefix)
	} else {
		pend = s.key(end)
	}
	return pstart, pend
}

// prefixIterator strips the namespace from the keys of the parent iterator.
type prefixIterator struct {
	Iterator
	prefix []byte
	start  []byte
	end    []byte
}

func (i *prefixIterator) Key() []byte {
	return i.Iterator.Key()[len(i.prefix):]
}

func (i *prefixIterator) Domain() (start []byte, end []byte) {
	return i.start, i.end
}

// PrefixEnd returns the smallest key greater than every key with the given
// prefix, or nil when no such key exists (the prefix is all 0xff).
func PrefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)

	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
