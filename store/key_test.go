package store

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexKey_NumbersCollapse(t *testing.T) {
	want := any(int64(7))
	for _, v := range []any{7, int8(7), int16(7), int32(7), int64(7), uint(7), uint8(7), uint16(7), uint32(7), uint64(7), float32(7), float64(7), json.Number("7")} {
		assert.Equal(t, want, IndexKey(v), "%T", v)
	}
}

func TestIndexKey_Scalars(t *testing.T) {
	assert.Nil(t, IndexKey(nil))
	assert.Equal(t, "7", IndexKey("7"))
	assert.Equal(t, true, IndexKey(true))
	assert.Equal(t, 1.5, IndexKey(1.5))
	assert.Equal(t, 1.5, IndexKey(json.Number("1.5")))
	assert.Equal(t, uint64(math.MaxUint64), IndexKey(uint64(math.MaxUint64)))
	assert.Equal(t, CompositeKey("NaN"), IndexKey(math.NaN()))
	assert.Equal(t, 1e300, IndexKey(1e300))
}

func TestIndexKey_Composite(t *testing.T) {
	assert.Equal(t, CompositeKey(`["a",1]`), IndexKey([]any{"a", 1}))
	assert.Equal(t, CompositeKey(`{"a":1,"b":2}`), IndexKey(map[string]any{"b": 2, "a": 1}))

	type pair struct{ A, B int }
	assert.Equal(t, pair{1, 2}, IndexKey(pair{1, 2}))
}

func TestFieldKey(t *testing.T) {
	r := Record{"id": float64(3), "tags": []any{"x"}}
	assert.Equal(t, int64(3), FieldKey(r, "id"))
	assert.Equal(t, CompositeKey(`["x"]`), FieldKey(r, "tags"))
	assert.Nil(t, FieldKey(r, "missing"))
}
