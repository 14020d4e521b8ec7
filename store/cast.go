package store

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/guyvdb/recstore/fault"
)

// As decodes a record into T using the json tag names of T's fields.
// Typically T is a plain struct describing the record shape.
func As[T any](r Record) (T, error) {
	var out T
	if r == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("store.As: %w: %w", fault.ErrDecodeFailed, err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return out, fmt.Errorf("store.As: %T: %w: %w", out, fault.ErrDecodeFailed, err)
	}
	return out, nil
}

// AllAs decodes every record, failing on the first one that does not fit.
func AllAs[T any](rs []Record) ([]T, error) {
	out := make([]T, 0, len(rs))
	for i, r := range rs {
		v, err := As[T](r)
		if err != nil {
			return nil, fmt.Errorf("store.AllAs: record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
