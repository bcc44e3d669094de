package store

import (
	"errors"

	dbm "github.com/cometbft/cometbft-db"
)

var (
	// ErrKeyEmpty is returned when attempting to use an empty or nil key.
	ErrKeyEmpty = errors.New("key cannot be empty")

	// ErrValueNil is returned when attempting to set a nil value.
	ErrValueNil = errors.New("value cannot be nil")

	// ErrTxClosed is returned when using a transaction after Commit or Discard.
	ErrTxClosed = errors.New("transaction already committed or discarded")
)

// KVStore is the byte-keyed store every entry point reads and writes through.
// Iteration is over the half-open domain [start, end); a nil bound is open.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Iterator(start, end []byte) (Iterator, error)
	ReverseIterator(start, end []byte) (Iterator, error)
}

// Iterator is the cometbft-db iterator contract.
type Iterator = dbm.Iterator

var _ KVStore = (*Tx)(nil)

func validateKey(key []byte) error {
	if len(key) == 0 {
		return ErrKeyEmpty
	}
	return nil
}

func cp(bz []byte) []byte {
	if bz == nil {
		return nil
	}
	ret := make([]byte, len(bz))
	copy(ret, bz)
	return ret
}
