package store

import (
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
)

// Supported database backends.
const (
	BackendMemDB     = string(dbm.MemDBBackend)
	BackendGoLevelDB = string(dbm.GoLevelDBBackend)
)

// OpenDB opens (or creates) the contract database.
func OpenDB(backend, name, dir string) (dbm.DB, error) {
	switch backend {
	case BackendMemDB:
		return dbm.NewMemDB(), nil
	case BackendGoLevelDB:
		db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
		if err != nil {
			return nil, fmt.Errorf("open %s database %q in %s: %w", backend, name, dir, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database backend %q", backend)
	}
}
