package persist

import "github.com/guyvdb/recstore/store"

// Backend loads and saves the record set of a named entity.
type Backend interface {
	Load(entity string) ([]store.Record, error)
	Save(entity string, records []store.Record) error
}
