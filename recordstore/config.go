package recordstore

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/store"
)

// Config binds the behavior of one Store instance. It replaces any shared,
// per-type registration: every Store gets its own.
type Config struct {
	// Entity names the record kind in error messages and persistence.
	Entity string `validate:"required"`
	// KeyField is the primary key field, store.DefaultPrimaryField if empty.
	KeyField string
	// Indexes are created in order after the records are loaded.
	Indexes []store.IndexSpec `validate:"dive"`
	// Fields is the allow-list used for object views. Empty means every
	// indexed field plus the key.
	Fields []string

	// NormalizeKey maps incoming primary key values before they are stored or
	// looked up, e.g. to lower-case string keys. Keys already held by the
	// store are not passed through it again.
	NormalizeKey func(any) any `validate:"-"`
	// Clean transforms a copy of each record before it is serialized.
	Clean func(store.Record) store.Record `validate:"-"`
	// Check validates a single record; used by Store.Validate.
	Check func(store.Record) error `validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("recordstore config %q: %w: %w", c.Entity, fault.ErrConfiguration, err)
	}
	for _, spec := range c.Indexes {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("recordstore config %q: %w", c.Entity, err)
		}
	}
	return nil
}

func (c *Config) keyField() string {
	if c.KeyField == "" {
		return store.DefaultPrimaryField
	}
	return c.KeyField
}

func (c *Config) normalizeKey(k any) any {
	if c.NormalizeKey == nil {
		return k
	}
	return c.NormalizeKey(k)
}

func (c *Config) fields() []string {
	if len(c.Fields) > 0 {
		return c.Fields
	}
	fields := make([]string, 0, len(c.Indexes))
	for _, spec := range c.Indexes {
		fields = append(fields, spec.Field)
	}
	return fields
}
