package store

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Record is a single associative data unit. The store only ever reads the
// primary key field and the fields its indexes are declared on.
type Record map[string]any

// CloneMode selects how much of the master sequence Items copies.
type CloneMode int

const (
	// CloneDeep copies the container and every record in it.
	CloneDeep CloneMode = iota
	// CloneList copies the container only; records are shared with the store.
	CloneList
	// CloneNone returns the live master sequence.
	CloneNone
)

func (m CloneMode) String() string {
	names := [...]string{"Deep", "List", "None"}
	if m < 0 || int(m) >= len(names) {
		return fmt.Sprintf("CloneMode(%d)", int(m))
	}
	return names[m]
}

// CloneRecord returns a deep copy of r. Nested maps and slices are copied;
// pointers and other reference types are shared.
func CloneRecord(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneRecords deep copies a list of records.
func CloneRecords(rs []Record) []Record {
	if rs == nil {
		return nil
	}
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = CloneRecord(r)
	}
	return out
}

// CopyList copies the container only.
func CopyList(rs []Record) []Record {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs)
}

// CloneValue deep copies a single field value the same way CloneRecord does.
func CloneValue(v any) any {
	return cloneValue(v)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return t
	case Record:
		return CloneRecord(t)
	case map[string]any:
		return map[string]any(CloneRecord(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []Record:
		return CloneRecords(t)
	case []string:
		return slices.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

// cloneReflect handles slice, array and map kinds the type switch above does
// not name.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneElem(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out
	}
	return v
}

func cloneElem(e reflect.Value) reflect.Value {
	if e.Kind() == reflect.Interface {
		if e.IsNil() {
			return e
		}
		c := cloneValue(e.Interface())
		if c == nil {
			return reflect.Zero(e.Type())
		}
		return reflect.ValueOf(c)
	}
	return cloneReflect(e)
}
