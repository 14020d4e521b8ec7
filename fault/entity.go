package fault

import "fmt"

// EntityError decorates a store error with the entity and key it concerns so
// that end users get a message like:
//
//	widget "w-1": update: not found
type EntityError struct {
	Entity string
	Key    any
	Op     string
	Err    error
}

func (e *EntityError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("%s: %s: %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Entity, fmt.Sprint(e.Key), e.Op, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}
