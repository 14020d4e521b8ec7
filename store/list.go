package store

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/guyvdb/recstore/fault"
)

// DefaultPrimaryField is used when New is given an empty primary field.
const DefaultPrimaryField = "id"

var _ Store = (*List)(nil)

// List is an indexed list store: an ordered master sequence of records, a
// primary OneToOne index on the key field and any number of secondary
// indexes kept consistent with it.
//
// List performs no locking. Every method runs to completion and leaves the
// sequence and indexes consistent; callers sharing a List across goroutines
// must serialize access themselves.
type List struct {
	primaryField string
	items        []Record
	primary      *Index
	indexes      []*Index // registration order, primary first
	named        map[string]*Index
	version      uint64
}

// New wraps records as the master sequence and builds the primary index. The
// slice is taken by reference; the caller must not keep mutating it.
func New(records []Record, primaryField string) *List {
	if primaryField == "" {
		primaryField = DefaultPrimaryField
	}
	if records == nil {
		records = []Record{}
	}

	l := &List{
		primaryField: primaryField,
		items:        records,
		named:        make(map[string]*Index),
	}
	l.primary = newIndex(IndexSpec{Field: primaryField, Relationship: OneToOne, Name: PrimaryIndexName}, primaryField)
	l.register(l.primary)
	l.primary.rebuild(l.items)

	slog.Debug("store.New - create list", "primaryField", primaryField, "records", len(records))
	return l
}

// NewIndexed is New followed by AddIndex for each spec, in order.
func NewIndexed(records []Record, primaryField string, specs ...IndexSpec) (*List, error) {
	l := New(records, primaryField)
	for _, spec := range specs {
		if _, err := l.AddIndex(spec); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *List) register(idx *Index) {
	l.indexes = append(l.indexes, idx)
	if idx.spec.Name != "" {
		l.named[idx.spec.Name] = idx
	}
}

func (l *List) PrimaryField() string { return l.primaryField }

// Len returns the number of records in the master sequence.
func (l *List) Len() int { return len(l.items) }

// Version increases on every add, update, delete and truncate.
func (l *List) Version() uint64 { return l.version }

// Indexes returns every registered index in registration order, the primary
// index first.
func (l *List) Indexes() []*Index {
	return slices.Clone(l.indexes)
}

// AddIndex creates an index, fills it from the current master sequence and
// registers it by handle and, when spec.Name is set, by name.
func (l *List) AddIndex(spec IndexSpec) (*Index, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Name != "" {
		if _, taken := l.named[spec.Name]; taken {
			return nil, fmt.Errorf("index name %q already registered: %w", spec.Name, fault.ErrConfiguration)
		}
	}

	idx := newIndex(spec, l.primaryField)
	idx.rebuild(l.items)
	l.register(idx)

	slog.Debug("List.AddIndex", "field", spec.Field, "relationship", spec.Relationship.String(), "name", spec.Name)
	return idx, nil
}

// Index resolves a name or handle to a live index.
func (l *List) Index(ref IndexRef) (*Index, error) {
	switch r := ref.(type) {
	case IndexName:
		if idx, ok := l.named[string(r)]; ok {
			return idx, nil
		}
		return nil, fmt.Errorf("index %q: %w", string(r), fault.ErrNotFound)
	case *Index:
		if r != nil && slices.Contains(l.indexes, r) {
			return r, nil
		}
		return nil, fmt.Errorf("index handle not registered with this list: %w", fault.ErrNotFound)
	}
	return nil, fmt.Errorf("index reference %T: %w", ref, fault.ErrNotFound)
}

// Has reports whether a record with the given primary key is held.
func (l *List) Has(key any) bool {
	_, ok := l.primary.one[IndexKey(key)]
	return ok
}

// GetItem looks a record up by primary key. A miss returns nil unless
// opts.RequireFound is set.
func (l *List) GetItem(key any, opts GetOptions) (Record, error) {
	r, ok := l.primary.one[IndexKey(key)]
	if !ok {
		if opts.RequireFound {
			return nil, fmt.Errorf("item %v: %w", key, fault.ErrNotFound)
		}
		return nil, nil
	}
	if opts.SkipClone {
		return r, nil
	}
	return CloneRecord(r), nil
}

// GetByIndex looks key up in the referenced index. A OneToMany miss yields an
// empty list rather than an error unless opts.RequireFound is set.
func (l *List) GetByIndex(ref IndexRef, key any, opts GetOptions) (*Lookup, error) {
	idx, err := l.Index(ref)
	if err != nil {
		return nil, err
	}
	k := IndexKey(key)

	if idx.spec.Relationship == OneToOne {
		r, ok := idx.one[k]
		if !ok && opts.RequireFound {
			return nil, fmt.Errorf("index %q key %v: %w", idx.spec.Field, key, fault.ErrNotFound)
		}
		if ok && !opts.SkipClone {
			r = CloneRecord(r)
		}
		return &Lookup{rel: OneToOne, one: r}, nil
	}

	bucket, ok := idx.many[k]
	if !ok && opts.RequireFound {
		return nil, fmt.Errorf("index %q key %v: %w", idx.spec.Field, key, fault.ErrNotFound)
	}
	lk := &Lookup{rel: OneToMany}
	switch {
	case opts.SkipClone:
		lk.many = bucket
	case opts.CloneShallow:
		lk.many = CopyList(bucket)
		lk.deferred = true
		lk.list = l
		lk.version = l.version
	default:
		lk.many = CloneRecords(bucket)
	}
	if lk.many == nil {
		lk.many = []Record{}
	}
	return lk, nil
}

// GetOne is GetByIndex for a OneToOne index.
func (l *List) GetOne(ref IndexRef, key any, opts GetOptions) (Record, error) {
	lk, err := l.GetByIndex(ref, key, opts)
	if err != nil {
		return nil, err
	}
	if lk.rel != OneToOne {
		return nil, fmt.Errorf("GetOne on a %s index: %w", lk.rel, fault.ErrConfiguration)
	}
	return lk.One(), nil
}

// GetMany is GetByIndex returning a list for either relationship.
func (l *List) GetMany(ref IndexRef, key any, opts GetOptions) ([]Record, error) {
	lk, err := l.GetByIndex(ref, key, opts)
	if err != nil {
		return nil, err
	}
	return lk.All()
}

// AddItem appends a copy of r and inserts it into every index. It does not
// check key uniqueness; that is the caller's job.
func (l *List) AddItem(r Record) error {
	if r == nil {
		return fmt.Errorf("add nil record: %w", fault.ErrConfiguration)
	}
	rec := CloneRecord(r)
	l.items = append(l.items, rec)
	for _, idx := range l.indexes {
		idx.insert(rec)
	}
	l.version++

	slog.Debug("List.AddItem", "key", rec[l.primaryField], "records", len(l.items))
	return nil
}

// UpdateItem replaces the record holding r's primary key. The prior record is
// read from the primary index once, before anything changes, and handed to
// every index so none of them depends on the replacement to find its old slot.
func (l *List) UpdateItem(r Record) error {
	prior, pos, err := l.locate(r, "update")
	if err != nil {
		return err
	}

	next := CloneRecord(r)
	l.items[pos] = next
	for _, idx := range l.indexes {
		idx.replace(prior, next)
	}
	l.version++

	slog.Debug("List.UpdateItem", "key", next[l.primaryField])
	return nil
}

// DeleteItem removes the record holding r's primary key. Only the key of r is
// read; index slots are located from the primary index's copy.
func (l *List) DeleteItem(r Record) error {
	prior, pos, err := l.locate(r, "delete")
	if err != nil {
		return err
	}

	l.items = slices.Delete(l.items, pos, pos+1)
	for _, idx := range l.indexes {
		idx.remove(prior)
	}
	l.version++

	slog.Debug("List.DeleteItem", "key", prior[l.primaryField], "records", len(l.items))
	return nil
}

// locate validates an update or delete target before anything is touched.
func (l *List) locate(r Record, op string) (Record, int, error) {
	if r == nil {
		return nil, -1, fmt.Errorf("%s nil record: %w", op, fault.ErrConfiguration)
	}
	key := FieldKey(r, l.primaryField)
	prior, ok := l.primary.one[key]
	if !ok {
		return nil, -1, fmt.Errorf("%s %v: %w: %w", op, r[l.primaryField], fault.ErrNotFound, fault.ErrConsistency)
	}
	pos := slices.IndexFunc(l.items, func(item Record) bool {
		return FieldKey(item, l.primaryField) == key
	})
	if pos < 0 {
		return nil, -1, fmt.Errorf("%s %v: primary index entry has no master record: %w", op, r[l.primaryField], fault.ErrConsistency)
	}
	return prior, pos, nil
}

// Rebuild recomputes one index from the master sequence.
func (l *List) Rebuild(ref IndexRef) error {
	idx, err := l.Index(ref)
	if err != nil {
		return err
	}
	idx.rebuild(l.items)
	return nil
}

// RebuildAll recomputes every index, last registered first.
func (l *List) RebuildAll() {
	for i := len(l.indexes) - 1; i >= 0; i-- {
		l.indexes[i].rebuild(l.items)
	}
}

// Truncate empties the master sequence and every index.
func (l *List) Truncate() {
	l.items = []Record{}
	l.RebuildAll()
	l.version++
	slog.Debug("List.Truncate")
}

// Items returns the master sequence copied according to mode.
func (l *List) Items(mode CloneMode) []Record {
	switch mode {
	case CloneNone:
		return l.items
	case CloneList:
		return CopyList(l.items)
	}
	return CloneRecords(l.items)
}
