// Package dyno exposes records as explicit accessor objects. An Object owns a
// private copy of its record; reads return copies and writes are limited to
// the fields its Shape declares.
package dyno

import (
	"log/slog"
	"slices"

	"github.com/guyvdb/recstore/store"
)

// Shape is the allow-list an Object is validated against. It is built once per
// entity and passed explicitly to everything that creates objects.
type Shape struct {
	Entity   string
	KeyField string
	fields   []string
	allowed  map[string]struct{}
}

// NewShape declares the fields of an entity. The key field is always allowed;
// an empty keyField means store.DefaultPrimaryField.
func NewShape(entity, keyField string, fields ...string) *Shape {
	if keyField == "" {
		keyField = store.DefaultPrimaryField
	}
	s := &Shape{
		Entity:   entity,
		KeyField: keyField,
		allowed:  make(map[string]struct{}, len(fields)+1),
	}
	for _, f := range append([]string{keyField}, fields...) {
		if _, dup := s.allowed[f]; dup {
			continue
		}
		s.allowed[f] = struct{}{}
		s.fields = append(s.fields, f)
	}
	slog.Debug("dyno.NewShape", "entity", entity, "keyField", keyField, "fields", s.fields)
	return s
}

// Fields returns the declared fields, key field first.
func (s *Shape) Fields() []string {
	return slices.Clone(s.fields)
}

func (s *Shape) Allows(field string) bool {
	_, ok := s.allowed[field]
	return ok
}

// New returns an empty object of this shape.
func (s *Shape) New() *Object {
	return &Object{shape: s, props: store.Record{}}
}

// FromRecord ingests a raw record. The object keeps its own copy, so later
// changes to r are not seen. Fields outside the allow-list are carried through
// to Record but cannot be read or written through the object.
func (s *Shape) FromRecord(r store.Record) *Object {
	props := store.CloneRecord(r)
	if props == nil {
		props = store.Record{}
	}
	return &Object{shape: s, props: props}
}
