package dyno

import (
	"encoding/json"
	"fmt"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/store"
)

// Object is an accessor over a private record copy.
type Object struct {
	shape *Shape
	props store.Record
}

func (o *Object) Shape() *Shape {
	return o.shape
}

// Key returns the primary key value, or nil when it has not been set.
func (o *Object) Key() any {
	if o.shape == nil {
		return nil
	}
	return o.props[o.shape.KeyField]
}

func (o *Object) allows(name string) error {
	if o.shape == nil {
		return fmt.Errorf("dyno.Object: %s: no shape: %w", name, fault.ErrFieldNotAllowed)
	}
	if !o.shape.Allows(name) {
		return fmt.Errorf("%s.%s: %w", o.shape.Entity, name, fault.ErrFieldNotAllowed)
	}
	return nil
}

// Get returns a copy of a declared field's value.
func (o *Object) Get(name string) (any, error) {
	if err := o.allows(name); err != nil {
		return nil, err
	}
	return store.CloneValue(o.props[name]), nil
}

// Set writes a declared field. The key field can be set once; after that it
// is immutable.
func (o *Object) Set(name string, value any) error {
	if err := o.allows(name); err != nil {
		return err
	}
	if name == o.shape.KeyField {
		if cur, ok := o.props[name]; ok && cur != nil && store.IndexKey(cur) != store.IndexKey(value) {
			return fmt.Errorf("%s.%s: key is immutable: %w", o.shape.Entity, name, fault.ErrFieldNotAllowed)
		}
	}
	if o.props == nil {
		o.props = store.Record{}
	}
	o.props[name] = store.CloneValue(value)
	return nil
}

// String reads a declared string field.
func (o *Object) String(name string) (string, error) {
	v, err := o.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s.%s is %T: %w", o.shape.Entity, name, v, fault.ErrFieldType)
	}
	return s, nil
}

// Int reads a declared integral field. Integral floats, as decoded from JSON,
// are accepted.
func (o *Object) Int(name string) (int64, error) {
	v, err := o.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := store.IndexKey(v).(int64)
	if !ok {
		return 0, fmt.Errorf("%s.%s is %T: %w", o.shape.Entity, name, v, fault.ErrFieldType)
	}
	return n, nil
}

// Bool reads a declared bool field.
func (o *Object) Bool(name string) (bool, error) {
	v, err := o.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s.%s is %T: %w", o.shape.Entity, name, v, fault.ErrFieldType)
	}
	return b, nil
}

// Record extracts a copy of the underlying record.
func (o *Object) Record() store.Record {
	return store.CloneRecord(o.props)
}

// MarshalJSON serializes the underlying record.
func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.props)
}

// UnmarshalJSON replaces the underlying record. The object must already carry
// a shape, normally from Shape.New.
func (o *Object) UnmarshalJSON(data []byte) error {
	if o.shape == nil {
		return fmt.Errorf("dyno.Object: unmarshal without shape: %w", fault.ErrUnmarshalFailed)
	}
	props := store.Record{}
	if err := json.Unmarshal(data, &props); err != nil {
		return fmt.Errorf("%s: %w: %w", o.shape.Entity, fault.ErrUnmarshalFailed, err)
	}
	o.props = props
	return nil
}
