package recordstore

import (
	"fmt"
	"log/slog"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/persist"
)

// Load builds a store from the entity's records in backend.
func Load(cfg Config, backend persist.Backend) (*Store, error) {
	records, err := backend.Load(cfg.Entity)
	if err != nil {
		return nil, &fault.EntityError{Entity: cfg.Entity, Op: "load", Err: err}
	}
	return New(cfg, records)
}

// LoadFile builds a store from a JSON or YAML file.
func LoadFile(cfg Config, path string) (*Store, error) {
	records, err := persist.ReadFile(path)
	if err != nil {
		return nil, &fault.EntityError{Entity: cfg.Entity, Op: "load", Err: err}
	}
	s, err := New(cfg, records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("recordstore.LoadFile", "entity", cfg.Entity, "path", path, "records", s.Len())
	return s, nil
}

// Save writes the cleaned records to backend.
func (s *Store) Save(backend persist.Backend) error {
	if err := backend.Save(s.cfg.Entity, s.Records()); err != nil {
		return s.fail("save", nil, err)
	}
	return nil
}

// SaveFile writes the cleaned records to a JSON or YAML file.
func (s *Store) SaveFile(path string) error {
	if err := persist.WriteFile(path, s.Records()); err != nil {
		return s.fail("save", nil, err)
	}
	return nil
}

// Serialize encodes the cleaned records.
func (s *Store) Serialize(format persist.Format) ([]byte, error) {
	data, err := persist.Encode(format, s.Records())
	if err != nil {
		return nil, s.fail("serialize", nil, err)
	}
	return data, nil
}
