package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyvdb/recstore/fault"
)

type widget struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	Serial string `json:"serial"`
}

func TestGetAs(t *testing.T) {
	s := newWidgets(t)

	w, err := GetAs[widget](s, 2)
	require.NoError(t, err)
	assert.Equal(t, widget{ID: 2, Type: "bar", Serial: "s2"}, w)

	_, err = GetAs[widget](s, 9)
	assert.ErrorIs(t, err, fault.ErrNotFound)

	_, err = GetAs[struct {
		Serial map[string]any `json:"serial"`
	}](s, 1)
	assert.ErrorIs(t, err, fault.ErrDecodeFailed)
}

func TestGetByAsAndListAs(t *testing.T) {
	s := newWidgets(t)

	foo, err := GetByAs[widget](s, "type", "foo")
	require.NoError(t, err)
	require.Len(t, foo, 2)
	assert.Equal(t, "s1", foo[0].Serial)
	assert.Equal(t, 3, foo[1].ID)

	all, err := ListAs[widget](s)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
