package persist

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/store"
)

var _ Backend = (*BoltBackend)(nil)

const entityBucketPrefix = "Entity."

// BoltBackend snapshots record sets into a BoltDB file. Each entity gets its
// own bucket; records are keyed by their big-endian position so a cursor walk
// returns them in master sequence order.
type BoltBackend struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the BoltDB file at path.
func OpenBolt(path string) (*BoltBackend, error) {
	slog.Debug("persist.OpenBolt - open bolt backend", "path", path)

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

// Save replaces the entity's bucket with the given records in one transaction.
func (bb *BoltBackend) Save(entity string, records []store.Record) error {
	name := entityBucketKey(entity)

	return bb.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to clear bucket %s: %w", string(name), err)
			}
		}
		bucket, err := tx.CreateBucket(name)
		if err != nil {
			return fmt.Errorf("bucket %s: %w: %w", string(name), fault.ErrBucketCreateFailed, err)
		}

		for i, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("%s record %d: %w: %w", entity, i, fault.ErrMarshalFailed, err)
			}
			if err := bucket.Put(positionKey(i), data); err != nil {
				return fmt.Errorf("%s record %d: %w: %w", entity, i, fault.ErrPutFailed, err)
			}
		}
		slog.Debug("BoltBackend.Save", "entity", entity, "records", len(records))
		return nil
	})
}

// Load returns the entity's records in saved order. A missing bucket is
// fault.ErrBucketNotFound.
func (bb *BoltBackend) Load(entity string) ([]store.Record, error) {
	name := entityBucketKey(entity)
	records := make([]store.Record, 0)

	err := bb.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(name)
		if bucket == nil {
			return fmt.Errorf("%s: %w", entity, fault.ErrBucketNotFound)
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			// v is only valid inside the transaction; the decoder copies
			// what it keeps.
			dec := json.NewDecoder(bytes.NewReader(v))
			dec.UseNumber()
			var m map[string]any
			if err := dec.Decode(&m); err != nil {
				return fmt.Errorf("%s key %x: %w: %w", entity, k, fault.ErrUnmarshalFailed, err)
			}
			records = append(records, store.Record(normalize(m).(map[string]any)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("BoltBackend.Load", "entity", entity, "records", len(records))
	return records, nil
}

// Entities lists the entities that have a saved snapshot.
func (bb *BoltBackend) Entities() ([]string, error) {
	var names []string
	err := bb.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if n, ok := strings.CutPrefix(string(name), entityBucketPrefix); ok {
				names = append(names, n)
			}
			return nil
		})
	})
	return names, err
}

// Close closes the BoltDB database.
func (bb *BoltBackend) Close() error {
	slog.Debug("BoltBackend.Close() - close db")
	if bb.db != nil {
		return bb.db.Close()
	}
	return nil
}

func entityBucketKey(entity string) []byte {
	return []byte(entityBucketPrefix + entity)
}

func positionKey(i int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(i))
	return buf
}
