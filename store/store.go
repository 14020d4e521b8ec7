package store

// GetOptions controls copying and absence handling on lookups.
type GetOptions struct {
	// SkipClone returns live references into the store. The caller takes on
	// the responsibility of not mutating them.
	SkipClone bool
	// CloneShallow copies only the list container of a OneToMany lookup and
	// defers element copies until they are read through the Lookup.
	CloneShallow bool
	// RequireFound turns a miss into fault.ErrNotFound.
	RequireFound bool
}

// Store is the surface the record-store facade builds on. List implements it.
type Store interface {
	PrimaryField() string
	AddIndex(spec IndexSpec) (*Index, error)
	Index(ref IndexRef) (*Index, error)
	Indexes() []*Index

	GetItem(key any, opts GetOptions) (Record, error)
	GetByIndex(ref IndexRef, key any, opts GetOptions) (*Lookup, error)
	Has(key any) bool
	Len() int
	Items(mode CloneMode) []Record

	AddItem(r Record) error
	UpdateItem(r Record) error
	DeleteItem(r Record) error

	Rebuild(ref IndexRef) error
	RebuildAll()
	Truncate()
}
