// Package repositories persists chat state in BadgerDB.
//
// The store is volatile by default (in-memory badger); pointing it at a
// directory survives restarts without any code change. Values are JSON:
// the HTTP surface speaks JSON already and there is no gRPC surface to
// share protobuf types with.
//
// Key layout:
//
//	user:{id}            -> user record (profile, friends, pending requests)
//	username:{lower}     -> user id, case-insensitive uniqueness index
//	chat:{id}            -> chat record
//	direct:{a}:{b}       -> chat id, unordered-pair dedup index (a < b)
//	seq:{chatId}         -> last assigned sequence number
//	msg:{chatId}:{seq}   -> message, 20-digit zero-padded seq for ordered scans
package repositories

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

func newID() string { return uuid.NewString() }

// Open returns a badger store at path, or a purely in-memory one when path
// is empty.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

// update runs fn in a read-write transaction, retrying on commit conflicts.
// Badger detects read-write conflicts at commit; retrying re-executes fn on
// a fresh snapshot, which is what makes check-then-create sequences atomic
// with respect to concurrent callers.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	for {
		err := db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
}

func getJSON(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}
