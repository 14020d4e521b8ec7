package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
)

// CompositeKey is the index key for a field value that cannot be used as a
// map key directly (maps, slices, NaN). It holds the value's JSON text.
type CompositeKey string

// IndexKey normalizes a field value into a comparable map key. Numbers that
// hold an integral value collapse to int64, so 1, int32(1), float64(1) and
// json.Number("1") all index identically. A nil value indexes under nil.
func IndexKey(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int64:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return uintKey(uint64(t))
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return uintKey(t)
	case float32:
		return floatKey(float64(t))
	case float64:
		return floatKey(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return floatKey(f)
		}
		return string(t)
	}

	if reflect.ValueOf(v).Comparable() {
		return v
	}
	return compositeKey(v)
}

// FieldKey returns the normalized index key of field in r.
func FieldKey(r Record, field string) any {
	return IndexKey(r[field])
}

func uintKey(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

func floatKey(f float64) any {
	if math.IsNaN(f) {
		return CompositeKey("NaN")
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

func compositeKey(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("store.IndexKey: value not JSON encodable, falling back to Go syntax", "type", fmt.Sprintf("%T", v), "err", err)
		return CompositeKey(fmt.Sprintf("%#v", v))
	}
	return CompositeKey(b)
}
