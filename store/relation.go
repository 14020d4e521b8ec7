package store

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/guyvdb/recstore/fault"
)

// Relationship is the cardinality of an index. The zero value is unset and
// rejected by AddIndex.
type Relationship int

const (
	// OneToOne maps a unique key to a single record.
	OneToOne Relationship = iota + 1
	// OneToMany maps a key to the ordered list of records holding it.
	OneToMany
)

func (r Relationship) String() string {
	switch r {
	case OneToOne:
		return "OneToOne"
	case OneToMany:
		return "OneToMany"
	}
	return fmt.Sprintf("Relationship(%d)", int(r))
}

// ParseRelationship accepts the short ("one", "many") and long
// ("one_to_one", "ONE_TO_MANY", ...) spellings.
func ParseRelationship(s string) (Relationship, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one", "one_to_one", "onetoone":
		return OneToOne, nil
	case "many", "one_to_many", "onetomany":
		return OneToMany, nil
	}
	return 0, fmt.Errorf("relationship %q: %w", s, fault.ErrConfiguration)
}

// PrimaryIndexName is the name the primary index is registered under.
const PrimaryIndexName = "primary"

// IndexSpec declares an index. Field and Relationship are fixed once the
// index is created.
type IndexSpec struct {
	Field        string       `json:"field" yaml:"field" validate:"required"`
	Relationship Relationship `json:"relationship" yaml:"relationship" validate:"required,oneof=1 2"`
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports a missing field or cardinality as fault.ErrConfiguration.
func (s IndexSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("index spec %q: %w: %w", s.Field, fault.ErrConfiguration, err)
	}
	return nil
}
