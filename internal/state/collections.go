package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/shamaton/msgpack/v2"

	"github.com/CosmWasm/wasmicq/internal/store"
)

// ErrNotFound is returned by Load when the entry does not exist.
var ErrNotFound = errors.New("not found")

// namespace builds a length-prefixed namespace so that no namespace is a
// prefix of another one.
func namespace(name string) []byte {
	if len(name) > 0xffff {
		panic("namespace too long")
	}
	ns := make([]byte, 2, 2+len(name))
	binary.BigEndian.PutUint16(ns, uint16(len(name)))
	return append(ns, name...)
}

func encodeValue(v any) ([]byte, error) {
	bz, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return bz, nil
}

func decodeValue(bz []byte, v any) error {
	if err := msgpack.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}

// Item is a single typed value stored under a fixed key.
type Item[T any] struct {
	key []byte
}

func NewItem[T any](name string) Item[T] {
	return Item[T]{key: namespace(name)}
}

// MayLoad returns nil if the item was never saved.
func (i Item[T]) MayLoad(kv store.KVStore) (*T, error) {
	bz, err := kv.Get(i.key)
	if err != nil || bz == nil {
		return nil, err
	}
	var v T
	if err := decodeValue(bz, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (i Item[T]) Load(kv store.KVStore) (T, error) {
	v, err := i.MayLoad(kv)
	if err != nil {
		var zero T
		return zero, err
	}
	if v == nil {
		var zero T
		return zero, fmt.Errorf("item %q: %w", i.key[2:], ErrNotFound)
	}
	return *v, nil
}

func (i Item[T]) Save(kv store.KVStore, v T) error {
	bz, err := encodeValue(v)
	if err != nil {
		return err
	}
	return kv.Set(i.key, bz)
}

func (i Item[T]) Remove(kv store.KVStore) error {
	return kv.Delete(i.key)
}

// KeyCodec maps map keys to bytes. Encodings must preserve ordering so
// that iteration is in ascending key order.
type KeyCodec[K any] interface {
	Encode(K) []byte
	Decode([]byte) (K, error)
}

// StringKey stores strings as their raw bytes.
type StringKey struct{}

func (StringKey) Encode(k string) []byte { return []byte(k) }

func (StringKey) Decode(bz []byte) (string, error) { return string(bz), nil }

// Uint64Key stores integers big-endian, so byte order is numeric order.
type Uint64Key struct{}

func (Uint64Key) Encode(k uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, k)
}

func (Uint64Key) Decode(bz []byte) (uint64, error) {
	if len(bz) != 8 {
		return 0, fmt.Errorf("invalid uint64 key length %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// Map is a typed mapping under a namespace.
type Map[K, V any] struct {
	name   string
	prefix []byte
	keys   KeyCodec[K]
}

// Entry is a key/value pair returned from Map.Range.
type Entry[K, V any] struct {
	Key   K
	Value V
}

func NewMap[K, V any](name string, keys KeyCodec[K]) Map[K, V] {
	return Map[K, V]{name: name, prefix: namespace(name), keys: keys}
}

func (m Map[K, V]) bucket(kv store.KVStore) store.KVStore {
	return store.Prefix(kv, m.prefix)
}

func (m Map[K, V]) MayLoad(kv store.KVStore, k K) (*V, error) {
	bz, err := m.bucket(kv).Get(m.keys.Encode(k))
	if err != nil || bz == nil {
		return nil, err
	}
	var v V
	if err := decodeValue(bz, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (m Map[K, V]) Load(kv store.KVStore, k K) (V, error) {
	v, err := m.MayLoad(kv, k)
	if err != nil {
		var zero V
		return zero, err
	}
	if v == nil {
		var zero V
		return zero, fmt.Errorf("%s[%v]: %w", m.name, k, ErrNotFound)
	}
	return *v, nil
}

func (m Map[K, V]) Has(kv store.KVStore, k K) (bool, error) {
	return m.bucket(kv).Has(m.keys.Encode(k))
}

func (m Map[K, V]) Save(kv store.KVStore, k K, v V) error {
	bz, err := encodeValue(v)
	if err != nil {
		return err
	}
	return m.bucket(kv).Set(m.keys.Encode(k), bz)
}

func (m Map[K, V]) Remove(kv store.KVStore, k K) error {
	return m.bucket(kv).Delete(m.keys.Encode(k))
}

// Range returns all entries in ascending key order.
func (m Map[K, V]) Range(kv store.KVStore) ([]Entry[K, V], error) {
	iter, err := m.bucket(kv).Iterator(nil, nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry[K, V]
	for ; iter.Valid(); iter.Next() {
		k, err := m.keys.Decode(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.name, err)
		}
		var v V
		if err := decodeValue(iter.Value(), &v); err != nil {
			return nil, fmt.Errorf("%s[%v]: %w", m.name, k, err)
		}
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries, iter.Error()
}
