package fault

import "errors"

var (
	ErrFieldNotAllowed = errors.New("field not allowed")
	ErrFieldType       = errors.New("field has unexpected type")
	ErrDecodeFailed    = errors.New("decode failed")
)
