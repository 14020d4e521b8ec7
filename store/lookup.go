package store

import (
	"fmt"

	"github.com/guyvdb/recstore/fault"
)

// Lookup is the result of GetByIndex. For a CloneShallow lookup the records
// are copied when read, and reading fails with fault.ErrStaleView once the
// List has been mutated since the lookup was made.
type Lookup struct {
	rel      Relationship
	one      Record
	many     []Record
	deferred bool
	list     *List
	version  uint64
}

func (lk *Lookup) Relationship() Relationship { return lk.rel }

// Found reports whether the key matched anything.
func (lk *Lookup) Found() bool {
	if lk.rel == OneToOne {
		return lk.one != nil
	}
	return len(lk.many) > 0
}

// Len returns the number of matched records.
func (lk *Lookup) Len() int {
	if lk.rel == OneToOne {
		if lk.one == nil {
			return 0
		}
		return 1
	}
	return len(lk.many)
}

// One returns the matched record of a OneToOne lookup, or nil.
func (lk *Lookup) One() Record {
	return lk.one
}

// At returns the i'th matched record of a OneToMany lookup.
func (lk *Lookup) At(i int) (Record, error) {
	if i < 0 || i >= len(lk.many) {
		return nil, fmt.Errorf("lookup position %d of %d: %w", i, len(lk.many), fault.ErrNotFound)
	}
	if !lk.deferred {
		return lk.many[i], nil
	}
	if err := lk.fresh(); err != nil {
		return nil, err
	}
	return CloneRecord(lk.many[i]), nil
}

// All returns every matched record. A OneToOne lookup yields zero or one.
func (lk *Lookup) All() ([]Record, error) {
	if lk.rel == OneToOne {
		if lk.one == nil {
			return []Record{}, nil
		}
		return []Record{lk.one}, nil
	}
	if !lk.deferred {
		return lk.many, nil
	}
	if err := lk.fresh(); err != nil {
		return nil, err
	}
	return CloneRecords(lk.many), nil
}

func (lk *Lookup) fresh() error {
	if lk.list.version != lk.version {
		return fmt.Errorf("lookup taken at version %d, list now at %d: %w", lk.version, lk.list.version, fault.ErrStaleView)
	}
	return nil
}
