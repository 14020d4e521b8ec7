// Package registry composes several record stores and validates the
// references between them.
package registry

import (
	"github.com/guyvdb/recstore/persist"
	"github.com/guyvdb/recstore/recordstore"
	"github.com/guyvdb/recstore/store"
)

// Source is what the registry needs from a record store.
type Source interface {
	Entity() string
	KeyField() string
	Get(key any) (store.Record, error)
	List() []store.Record
	Validate() error
}

var _ Source = (*recordstore.Store)(nil)

// Reference declares that Field of every From record holds the key (or a
// list of keys) of a To record.
type Reference struct {
	From     string `validate:"required"`
	Field    string `validate:"required"`
	To       string `validate:"required"`
	Optional bool   // a missing or nil field is allowed
}

// Registry is the aggregation layer over a set of sources.
type Registry interface {
	// Register adds a source under its entity name.
	Register(src Source) error

	// Reference declares a cross-entity reference checked by Validate.
	Reference(ref Reference) error

	Source(entity string) (Source, error)
	Names() []string

	Get(entity string, key any) (store.Record, error)
	List(entity string) ([]store.Record, error)

	// Validate runs every source's own validation and every declared
	// reference check, returning all failures joined.
	Validate() error

	// LoadAll builds and registers a store per config from backend.
	LoadAll(backend persist.Backend, cfgs ...recordstore.Config) error
}
