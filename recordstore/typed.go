package recordstore

import (
	"github.com/guyvdb/recstore/store"
)

// GetAs is Get decoded into T through the json tags of T's fields.
func GetAs[T any](s *Store, key any) (T, error) {
	r, err := s.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := store.As[T](r)
	if err != nil {
		return v, s.fail("get", r[s.KeyField()], err)
	}
	return v, nil
}

// GetByAs is GetBy decoded into T.
func GetByAs[T any](s *Store, field string, value any) ([]T, error) {
	rs, err := s.GetBy(field, value)
	if err != nil {
		return nil, err
	}
	out, err := store.AllAs[T](rs)
	if err != nil {
		return nil, s.fail("getBy", value, err)
	}
	return out, nil
}

// ListAs decodes every record into T, in master sequence order.
func ListAs[T any](s *Store) ([]T, error) {
	out, err := store.AllAs[T](s.List())
	if err != nil {
		return nil, s.fail("list", nil, err)
	}
	return out, nil
}
