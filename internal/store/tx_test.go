package store

import (
	"errors"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, iter Iterator) [][2]string {
	t.Helper()
	defer iter.Close()
	var out [][2]string
	for ; iter.Valid(); iter.Next() {
		out = append(out, [2]string{string(iter.Key()), string(iter.Value())})
	}
	require.NoError(t, iter.Error())
	return out
}

func TestTxReadYourWrites(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	tx := NewTx(db)
	require.NoError(t, tx.Set([]byte("b"), []byte("2")))
	require.NoError(t, tx.Delete([]byte("a")))

	v, err := tx.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	v, err = tx.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, v)

	// nothing reached the database yet
	v, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTxCommit(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	tx := NewTx(db)
	require.NoError(t, tx.Set([]byte("b"), []byte("2")))
	require.NoError(t, tx.Delete([]byte("a")))
	require.Equal(t, 2, tx.Len())
	require.NoError(t, tx.Commit())

	v, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)

	// closed after commit
	_, err = tx.Get([]byte("b"))
	require.ErrorIs(t, err, ErrTxClosed)
	require.ErrorIs(t, tx.Commit(), ErrTxClosed)
	tx.Discard()
}

// failingDB hands out batches that refuse to write.
type failingDB struct {
	dbm.DB
}

func (db failingDB) NewBatch() dbm.Batch {
	return failingBatch{db.DB.NewBatch()}
}

type failingBatch struct {
	dbm.Batch
}

func (failingBatch) WriteSync() error {
	return errors.New("disk full")
}

func TestTxFailedCommitCanBeDiscarded(t *testing.T) {
	db := failingDB{dbm.NewMemDB()}
	tx := NewTx(db)
	require.NoError(t, tx.Set([]byte("k"), []byte("v")))

	require.ErrorContains(t, tx.Commit(), "disk full")
	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 1, tx.Len())

	tx.Discard()
	assert.Equal(t, 0, tx.Len())
	_, err = tx.Get([]byte("k"))
	require.ErrorIs(t, err, ErrTxClosed)
}

func TestTxDiscard(t *testing.T) {
	db := dbm.NewMemDB()
	tx := NewTx(db)
	require.NoError(t, tx.Set([]byte("k"), []byte("v")))
	tx.Discard()

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
	require.ErrorIs(t, tx.Set([]byte("k"), []byte("v")), ErrTxClosed)
}

func TestTxValidation(t *testing.T) {
	tx := NewTx(dbm.NewMemDB())
	require.ErrorIs(t, tx.Set(nil, []byte("v")), ErrKeyEmpty)
	require.ErrorIs(t, tx.Set([]byte{}, []byte("v")), ErrKeyEmpty)
	require.ErrorIs(t, tx.Set([]byte("k"), nil), ErrValueNil)
	_, err := tx.Get(nil)
	require.ErrorIs(t, err, ErrKeyEmpty)
	_, err = tx.Iterator([]byte{}, nil)
	require.ErrorIs(t, err, ErrKeyEmpty)
}

func TestTxMergedIteration(t *testing.T) {
	db := dbm.NewMemDB()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, db.Set([]byte(k), []byte("db-"+k)))
	}

	tx := NewTx(db)
	require.NoError(t, tx.Set([]byte("b"), []byte("tx-b")))
	require.NoError(t, tx.Set([]byte("c"), []byte("tx-c")))
	require.NoError(t, tx.Delete([]byte("e")))
	require.NoError(t, tx.Set([]byte("h"), []byte("tx-h")))
	require.NoError(t, tx.Delete([]byte("z")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		exp        [][2]string
	}{
		"full ascending": {
			exp: [][2]string{{"a", "db-a"}, {"b", "tx-b"}, {"c", "tx-c"}, {"g", "db-g"}, {"h", "tx-h"}},
		},
		"full descending": {
			reverse: true,
			exp:     [][2]string{{"h", "tx-h"}, {"g", "db-g"}, {"c", "tx-c"}, {"b", "tx-b"}, {"a", "db-a"}},
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("g"),
			exp:   [][2]string{{"b", "tx-b"}, {"c", "tx-c"}},
		},
		"bounded descending": {
			start:   []byte("b"),
			end:     []byte("h"),
			reverse: true,
			exp:     [][2]string{{"g", "db-g"}, {"c", "tx-c"}, {"b", "tx-b"}},
		},
		"open end": {
			start: []byte("d"),
			exp:   [][2]string{{"g", "db-g"}, {"h", "tx-h"}},
		},
		"open start": {
			end: []byte("c"),
			exp: [][2]string{{"a", "db-a"}, {"b", "tx-b"}},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("y"),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var (
				iter Iterator
				err  error
			)
			if tc.reverse {
				iter, err = tx.ReverseIterator(tc.start, tc.end)
			} else {
				iter, err = tx.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			start, end := iter.Domain()
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
			assert.Equal(t, tc.exp, collect(t, iter))
		})
	}
}

func TestInvalidIteratorPanics(t *testing.T) {
	tx := NewTx(dbm.NewMemDB())
	iter, err := tx.Iterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close()
	require.False(t, iter.Valid())
	require.Panics(t, func() { iter.Key() })
	require.Panics(t, func() { iter.Next() })
}
