package cli

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guyvdb/recstore/recordstore"
	"github.com/guyvdb/recstore/store"
)

// storeConfig turns the global flags into a recordstore config. extra fields
// get a OneToMany index unless one was declared.
func (o *RootOptions) storeConfig(path string, extra ...string) (recordstore.Config, error) {
	cfg := recordstore.Config{
		Entity:   o.entityFor(path),
		KeyField: o.KeyField,
	}
	if !o.RawKeys {
		cfg.NormalizeKey = func(k any) any { return store.IndexKey(k) }
	}

	declared := make(map[string]bool)
	for _, flag := range o.Indexes {
		spec, err := parseIndexFlag(flag)
		if err != nil {
			return cfg, err
		}
		declared[spec.Field] = true
		cfg.Indexes = append(cfg.Indexes, spec)
	}
	for _, field := range extra {
		if !declared[field] {
			cfg.Indexes = append(cfg.Indexes, store.IndexSpec{Field: field, Relationship: store.OneToMany})
			declared[field] = true
		}
	}
	return cfg, nil
}

func (o *RootOptions) entityFor(path string) string {
	if o.Entity != "" {
		return o.Entity
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseIndexFlag parses "field" or "field:one" / "field:many".
func parseIndexFlag(flag string) (store.IndexSpec, error) {
	field, rel, found := strings.Cut(flag, ":")
	spec := store.IndexSpec{Field: field, Relationship: store.OneToMany}
	if found {
		r, err := store.ParseRelationship(rel)
		if err != nil {
			return spec, err
		}
		spec.Relationship = r
	}
	return spec, spec.Validate()
}

// parseArg reads a command line value the way a JSON or YAML document would
// hold it: integers and booleans are typed, anything else is a string.
func (o *RootOptions) parseArg(s string) any {
	if o.RawKeys {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}
