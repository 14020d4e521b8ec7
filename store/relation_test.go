package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyvdb/recstore/fault"
)

func TestParseRelationship(t *testing.T) {
	cases := map[string]Relationship{
		"one":         OneToOne,
		"ONE_TO_ONE":  OneToOne,
		"one_to_one":  OneToOne,
		"many":        OneToMany,
		" MANY ":      OneToMany,
		"ONE_TO_MANY": OneToMany,
	}
	for in, want := range cases {
		got, err := ParseRelationship(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRelationship("some")
	assert.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestRelationship_String(t *testing.T) {
	assert.Equal(t, "OneToOne", OneToOne.String())
	assert.Equal(t, "OneToMany", OneToMany.String())
	assert.Equal(t, "Relationship(0)", Relationship(0).String())
}
