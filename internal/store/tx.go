package store

import (
	"bytes"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/google/btree"
)

// bTreeDegree is the fan-out of the write cache.
const bTreeDegree = 32

// item is a pending write. A deleted item shadows the parent's value.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = (*item)(nil)

// Less implements btree.Item.
func (i *item) Less(other btree.Item) bool {
	return bytes.Compare(i.key, other.(*item).key) == -1
}

// newKey creates a new key item.
func newKey(key []byte) *item {
	return &item{key: key}
}

// Tx buffers all writes of one contract call on top of a database.
// Reads see the buffered writes. Nothing reaches the database until Commit,
// which applies every write in a single batch; Discard drops them.
//
// A Tx is not safe for concurrent use. The contract runs one call at a time.
type Tx struct {
	parent dbm.DB
	cache  *btree.BTree
	closed bool
}

// NewTx starts a transaction on db.
func NewTx(db dbm.DB) *Tx {
	return &Tx{
		parent: db,
		cache:  btree.New(bTreeDegree),
	}
}

// Get returns nil if the key does not exist or was deleted in this transaction.
func (tx *Tx) Get(key []byte) ([]byte, error) {
	if err := tx.check(key); err != nil {
		return nil, err
	}
	if i := tx.cache.Get(newKey(key)); i != nil {
		it := i.(*item)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return tx.parent.Get(key)
}

func (tx *Tx) Has(key []byte) (bool, error) {
	bz, err := tx.Get(key)
	if err != nil {
		return false, err
	}
	return bz != nil, nil
}

func (tx *Tx) Set(key, value []byte) error {
	if err := tx.check(key); err != nil {
		return err
	}
	if value == nil {
		return ErrValueNil
	}
	tx.cache.ReplaceOrInsert(&item{key: cp(key), value: cp(value)})
	return nil
}

func (tx *Tx) Delete(key []byte) error {
	if err := tx.check(key); err != nil {
		return err
	}
	tx.cache.ReplaceOrInsert(&item{key: cp(key), deleted: true})
	return nil
}

// Iterator merges the buffered writes with the database in ascending order.
func (tx *Tx) Iterator(start, end []byte) (Iterator, error) {
	return tx.iterator(start, end, true)
}

// ReverseIterator merges the buffered writes with the database in descending order.
func (tx *Tx) ReverseIterator(start, end []byte) (Iterator, error) {
	return tx.iterator(start, end, false)
}

func (tx *Tx) iterator(start, end []byte, ascending bool) (Iterator, error) {
	if tx.closed {
		return nil, ErrTxClosed
	}
	if (start != nil && len(start) == 0) || (end != nil && len(end) == 0) {
		return nil, ErrKeyEmpty
	}
	var (
		parent Iterator
		err    error
	)
	if ascending {
		parent, err = tx.parent.Iterator(start, end)
	} else {
		parent, err = tx.parent.ReverseIterator(start, end)
	}
	if err != nil {
		return nil, err
	}
	return newMergedIterator(parent, tx.pending(start, end, ascending), start, end, ascending), nil
}

// pending snapshots the buffered writes in [start, end).
func (tx *Tx) pending(start, end []byte, ascending bool) []*item {
	var items []*item
	visitor := func(i btree.Item) bool {
		items = append(items, i.(*item))
		return true
	}
	//nolint:gocritic // The switch {} is clearer than other switch forms here
	switch {
	case start == nil && end == nil:
		tx.cache.Ascend(visitor)
	case end == nil:
		tx.cache.AscendGreaterOrEqual(newKey(start), visitor)
	case start == nil:
		tx.cache.AscendLessThan(newKey(end), visitor)
	default:
		tx.cache.AscendRange(newKey(start), newKey(end), visitor)
	}
	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// Len returns the number of buffered writes.
func (tx *Tx) Len() int {
	return tx.cache.Len()
}

// Commit writes all buffered writes to the database atomically and closes the transaction.
func (tx *Tx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	batch := tx.parent.NewBatch()
	defer batch.Close()

	var err error
	tx.cache.Ascend(func(i btree.Item) bool {
		it := i.(*item)
		if it.deleted {
			err = batch.Delete(it.key)
		} else {
			err = batch.Set(it.key, it.value)
		}
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("stage write: %w", err)
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	tx.close()
	return nil
}

// Discard drops all buffered writes and closes the transaction.
// It is safe to call after Commit.
func (tx *Tx) Discard() {
	if tx.closed {
		return
	}
	tx.close()
}

func (tx *Tx) close() {
	tx.cache.Clear(false)
	tx.closed = true
}

func (tx *Tx) check(key []byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	return validateKey(key)
}
