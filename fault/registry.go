package fault

import "errors"

var (
	ErrSourceExists      = errors.New("source already registered")
	ErrSourceNotFound    = errors.New("source not found")
	ErrDanglingReference = errors.New("dangling reference")
)
