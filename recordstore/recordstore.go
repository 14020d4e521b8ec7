// Package recordstore is the facade applications use: an indexed list store
// plus key uniqueness, key normalization, derived per-index accessors and
// load/serialize through the persist package.
package recordstore

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/guyvdb/recstore/dyno"
	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/store"
)

// Store is a record store for one entity. Like the list underneath it, it is
// not safe for concurrent mutation.
type Store struct {
	cfg       Config
	list      store.Store
	shape     *dyno.Shape
	byField   map[string]*store.Index
	accessors map[string]Accessor
}

// New builds a store over records, which it takes ownership of. Every record
// must carry a key and keys must be unique.
func New(cfg Config, records []store.Record) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	keyField := cfg.keyField()

	// Keys are checked before any record is touched so a failed load leaves
	// the caller's records as they were.
	normalized := make([]any, len(records))
	seen := make(map[any]struct{}, len(records))
	for i, r := range records {
		k, ok := r[keyField]
		if !ok || k == nil {
			return nil, &fault.EntityError{Entity: cfg.Entity, Op: "load",
				Err: fmt.Errorf("record %d has no %q: %w", i, keyField, fault.ErrConfiguration)}
		}
		k = cfg.normalizeKey(k)
		ik := store.IndexKey(k)
		if _, dup := seen[ik]; dup {
			return nil, &fault.EntityError{Entity: cfg.Entity, Key: k, Op: "load", Err: fault.ErrDuplicateKey}
		}
		seen[ik] = struct{}{}
		normalized[i] = k
	}
	if cfg.NormalizeKey != nil {
		for i, r := range records {
			r[keyField] = normalized[i]
		}
	}

	s := &Store{
		cfg:       cfg,
		list:      store.New(records, keyField),
		shape:     dyno.NewShape(cfg.Entity, keyField, cfg.fields()...),
		byField:   make(map[string]*store.Index),
		accessors: make(map[string]Accessor),
	}
	for _, spec := range cfg.Indexes {
		if err := s.addIndex(spec); err != nil {
			return nil, &fault.EntityError{Entity: cfg.Entity, Op: "index", Err: err}
		}
	}

	slog.Debug("recordstore.New", "entity", cfg.Entity, "keyField", keyField, "records", len(records), "indexes", len(cfg.Indexes))
	return s, nil
}

func (s *Store) addIndex(spec store.IndexSpec) error {
	name := AccessorName(spec.Field)
	if _, taken := s.accessors[name]; taken {
		return fmt.Errorf("accessor %s already derived: %w", name, fault.ErrConfiguration)
	}
	idx, err := s.list.AddIndex(spec)
	if err != nil {
		return err
	}
	s.byField[spec.Field] = idx
	s.accessors[name] = func(key any) ([]store.Record, error) {
		lk, err := s.list.GetByIndex(idx, key, store.GetOptions{})
		if err != nil {
			return nil, err
		}
		return lk.All()
	}
	return nil
}

func (s *Store) Entity() string       { return s.cfg.Entity }
func (s *Store) KeyField() string     { return s.list.PrimaryField() }
func (s *Store) Shape() *dyno.Shape   { return s.shape }
func (s *Store) Len() int             { return s.list.Len() }
func (s *Store) Has(key any) bool     { return s.list.Has(s.resolve(key)) }
func (s *Store) List() []store.Record { return s.list.Items(store.CloneDeep) }

// resolve maps a caller key to the stored form. A key that is already held is
// used as is, so a NormalizeKey that is not idempotent never rewrites a key
// handed back from a stored record.
func (s *Store) resolve(key any) any {
	if s.cfg.NormalizeKey == nil || s.list.Has(key) {
		return key
	}
	return s.cfg.normalizeKey(key)
}

func (s *Store) fail(op string, key any, err error) error {
	return &fault.EntityError{Entity: s.cfg.Entity, Key: key, Op: op, Err: err}
}

// Get returns a copy of the record with key, or a not-found error naming the
// entity and key.
func (s *Store) Get(key any) (store.Record, error) {
	k := s.resolve(key)
	r, err := s.list.GetItem(k, store.GetOptions{RequireFound: true})
	if err != nil {
		return nil, s.fail("get", k, fault.ErrNotFound)
	}
	return r, nil
}

// Find is Get without the error.
func (s *Store) Find(key any) (store.Record, bool) {
	r, _ := s.list.GetItem(s.resolve(key), store.GetOptions{})
	return r, r != nil
}

// Add inserts a new record after checking its key is present and unused.
func (s *Store) Add(r store.Record) error {
	k, err := s.keyOf(r, "add")
	if err != nil {
		return err
	}
	if s.list.Has(k) {
		return s.fail("add", k, fault.ErrDuplicateKey)
	}
	if err := s.list.AddItem(s.withKey(r, k)); err != nil {
		return s.fail("add", k, err)
	}
	return nil
}

// Update replaces the record holding r's key.
func (s *Store) Update(r store.Record) error {
	k, err := s.keyOf(r, "update")
	if err != nil {
		return err
	}
	if err := s.list.UpdateItem(s.withKey(r, k)); err != nil {
		return s.fail("update", k, err)
	}
	return nil
}

// Upsert adds r, or updates the record already holding its key.
func (s *Store) Upsert(r store.Record) error {
	k, err := s.keyOf(r, "upsert")
	if err != nil {
		return err
	}
	if s.list.Has(k) {
		return s.Update(r)
	}
	return s.Add(r)
}

// Delete removes the record with key.
func (s *Store) Delete(key any) error {
	k := s.resolve(key)
	if err := s.list.DeleteItem(store.Record{s.KeyField(): k}); err != nil {
		return s.fail("delete", k, err)
	}
	return nil
}

// Truncate removes every record.
func (s *Store) Truncate() {
	s.list.Truncate()
}

// Rebuild recomputes every index from the records.
func (s *Store) Rebuild() {
	s.list.RebuildAll()
}

func (s *Store) keyOf(r store.Record, op string) (any, error) {
	if r == nil {
		return nil, s.fail(op, nil, fmt.Errorf("nil record: %w", fault.ErrConfiguration))
	}
	k, ok := r[s.KeyField()]
	if !ok || k == nil {
		return nil, s.fail(op, nil, fmt.Errorf("record has no %q: %w", s.KeyField(), fault.ErrConfiguration))
	}
	return s.resolve(k), nil
}

// withKey returns r with its key replaced by the normalized one. r itself is
// never modified.
func (s *Store) withKey(r store.Record, k any) store.Record {
	if s.cfg.NormalizeKey == nil {
		return r
	}
	out := store.CloneRecord(r)
	out[s.KeyField()] = k
	return out
}

// GetBy returns copies of the records whose field equals value. The field
// must be indexed.
func (s *Store) GetBy(field string, value any) ([]store.Record, error) {
	idx, ok := s.byField[field]
	if !ok {
		return nil, s.fail("getBy", field, fmt.Errorf("no index on %q: %w", field, fault.ErrNotFound))
	}
	lk, err := s.list.GetByIndex(idx, value, store.GetOptions{})
	if err != nil {
		return nil, s.fail("getBy", value, err)
	}
	return lk.All()
}

// GetOneBy returns the record a OneToOne index maps value to.
func (s *Store) GetOneBy(field string, value any) (store.Record, error) {
	idx, ok := s.byField[field]
	if !ok {
		return nil, s.fail("getBy", field, fmt.Errorf("no index on %q: %w", field, fault.ErrNotFound))
	}
	if idx.Relationship() != store.OneToOne {
		return nil, s.fail("getBy", field, fmt.Errorf("%q is %s: %w", field, idx.Relationship(), fault.ErrConfiguration))
	}
	lk, err := s.list.GetByIndex(idx, value, store.GetOptions{RequireFound: true})
	if err != nil {
		return nil, s.fail("getBy", value, err)
	}
	return lk.One(), nil
}

// Accessor returns the derived lookup named name, e.g. "getByType".
func (s *Store) Accessor(name string) (Accessor, bool) {
	a, ok := s.accessors[name]
	return a, ok
}

// AccessorNames lists the derived lookups, sorted.
func (s *Store) AccessorNames() []string {
	names := make([]string, 0, len(s.accessors))
	for n := range s.accessors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call runs the derived lookup name with key.
func (s *Store) Call(name string, key any) ([]store.Record, error) {
	a, ok := s.accessors[name]
	if !ok {
		return nil, s.fail(name, key, fmt.Errorf("accessor %s: %w", name, fault.ErrNotFound))
	}
	rs, err := a(key)
	if err != nil {
		return nil, s.fail(name, key, err)
	}
	return rs, nil
}

// Object returns an object view over a copy of the record with key.
func (s *Store) Object(key any) (*dyno.Object, error) {
	r, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	return s.shape.FromRecord(r), nil
}

// SaveObject writes an object view back, adding or updating by its key.
func (s *Store) SaveObject(o *dyno.Object) error {
	if o.Shape() != s.shape {
		return s.fail("save", o.Key(), fmt.Errorf("object of entity %q: %w", o.Shape().Entity, fault.ErrConfiguration))
	}
	return s.Upsert(o.Record())
}

// Validate runs the configured record check over every record and reports
// OneToOne secondary indexes whose field values collide. All failures are
// returned joined.
func (s *Store) Validate() error {
	var errs []error
	items := s.list.Items(store.CloneNone)

	if s.cfg.Check != nil {
		for _, r := range items {
			if err := s.cfg.Check(store.CloneRecord(r)); err != nil {
				errs = append(errs, s.fail("validate", r[s.KeyField()], err))
			}
		}
	}

	for _, idx := range s.list.Indexes() {
		if idx.Relationship() != store.OneToOne || idx.Field() == s.KeyField() {
			continue
		}
		owners := make(map[any]any, len(items))
		for _, r := range items {
			fk := store.FieldKey(r, idx.Field())
			if fk == nil {
				continue
			}
			if first, dup := owners[fk]; dup {
				errs = append(errs, s.fail("validate", r[s.KeyField()],
					fmt.Errorf("%s %v also held by %v: %w", idx.Field(), r[idx.Field()], first, fault.ErrDuplicateKey)))
				continue
			}
			owners[fk] = r[s.KeyField()]
		}
	}
	return errors.Join(errs...)
}

// Records returns copies of every record passed through the configured Clean
// transform, ready to serialize. Records Clean maps to nil are left out.
func (s *Store) Records() []store.Record {
	items := s.list.Items(store.CloneDeep)
	if s.cfg.Clean == nil {
		return items
	}
	return slices.DeleteFunc(mapRecords(items, s.cfg.Clean), func(r store.Record) bool { return r == nil })
}

func mapRecords(rs []store.Record, fn func(store.Record) store.Record) []store.Record {
	out := make([]store.Record, len(rs))
	for i, r := range rs {
		out[i] = fn(r)
	}
	return out
}
