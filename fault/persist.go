package fault

import "errors"

var (
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrMalformedDocument  = errors.New("malformed document")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrBucketCreateFailed = errors.New("bucket create failed")
	ErrUnmarshalFailed    = errors.New("unmarshal failed")
	ErrMarshalFailed      = errors.New("marshal failed")
	ErrPutFailed          = errors.New("put failed")
)
