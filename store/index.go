package store

import (
	"log/slog"
	"slices"
)

// IndexRef identifies an index either by the name it was registered under or
// by the handle AddIndex returned.
type IndexRef interface {
	indexRef()
}

// IndexName references an index by registered name.
type IndexName string

func (IndexName) indexRef() {}

func (*Index) indexRef() {}

// Index maps the value of one field to a record (OneToOne) or to the ordered
// records holding that value (OneToMany). It is derived state: the List
// rebuilds or routes into it on every mutation.
type Index struct {
	spec    IndexSpec
	keyName string // primary key field of the owning list
	one     map[any]Record
	many    map[any][]Record
}

func newIndex(spec IndexSpec, keyName string) *Index {
	idx := &Index{spec: spec, keyName: keyName}
	idx.reset()
	return idx
}

func (idx *Index) Spec() IndexSpec            { return idx.spec }
func (idx *Index) Field() string              { return idx.spec.Field }
func (idx *Index) Name() string               { return idx.spec.Name }
func (idx *Index) Relationship() Relationship { return idx.spec.Relationship }

// Len returns the number of distinct keys held.
func (idx *Index) Len() int {
	if idx.spec.Relationship == OneToOne {
		return len(idx.one)
	}
	return len(idx.many)
}

// Keys returns the distinct normalized keys held, in no particular order.
func (idx *Index) Keys() []any {
	keys := make([]any, 0, idx.Len())
	if idx.spec.Relationship == OneToOne {
		for k := range idx.one {
			keys = append(keys, k)
		}
		return keys
	}
	for k := range idx.many {
		keys = append(keys, k)
	}
	return keys
}

func (idx *Index) reset() {
	if idx.spec.Relationship == OneToOne {
		idx.one = make(map[any]Record)
		idx.many = nil
		return
	}
	idx.one = nil
	idx.many = make(map[any][]Record)
}

func (idx *Index) rebuild(items []Record) {
	idx.reset()
	for _, r := range items {
		idx.insert(r)
	}
	slog.Debug("Index.rebuild", "field", idx.spec.Field, "name", idx.spec.Name, "records", len(items), "keys", idx.Len())
}

func (idx *Index) insert(r Record) {
	key := FieldKey(r, idx.spec.Field)
	if idx.spec.Relationship == OneToOne {
		idx.one[key] = r
		return
	}
	idx.many[key] = append(idx.many[key], r)
}

// remove drops prior from the bucket its field value points at. prior must be
// the record as the index last saw it, never a caller-modified replacement.
func (idx *Index) remove(prior Record) {
	key := FieldKey(prior, idx.spec.Field)
	pk := FieldKey(prior, idx.keyName)

	if idx.spec.Relationship == OneToOne {
		// another record may have claimed the slot since; leave it alone
		if cur, ok := idx.one[key]; ok && FieldKey(cur, idx.keyName) == pk {
			delete(idx.one, key)
		}
		return
	}

	bucket, ok := idx.many[key]
	if !ok {
		return
	}
	kept := make([]Record, 0, len(bucket))
	for _, r := range bucket {
		if FieldKey(r, idx.keyName) != pk {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(idx.many, key)
		return
	}
	idx.many[key] = kept
}

// replace routes an update. Unchanged field values are replaced in place,
// matched by primary key; changed ones move buckets.
func (idx *Index) replace(prior, next Record) {
	oldKey := FieldKey(prior, idx.spec.Field)
	newKey := FieldKey(next, idx.spec.Field)
	if oldKey != newKey {
		idx.remove(prior)
		idx.insert(next)
		return
	}

	pk := FieldKey(prior, idx.keyName)
	if idx.spec.Relationship == OneToOne {
		if cur, ok := idx.one[oldKey]; !ok || FieldKey(cur, idx.keyName) == pk {
			idx.one[oldKey] = next
		}
		return
	}

	bucket := idx.many[oldKey]
	i := slices.IndexFunc(bucket, func(r Record) bool {
		return FieldKey(r, idx.keyName) == pk
	})
	if i < 0 {
		idx.many[oldKey] = append(bucket, next)
		return
	}
	bucket[i] = next
}
