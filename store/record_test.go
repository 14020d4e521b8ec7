package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneRecord_Deep(t *testing.T) {
	orig := Record{
		"id":     1,
		"meta":   map[string]any{"owner": "ops", "labels": []any{"a", "b"}},
		"nested": Record{"x": 1},
		"list":   []Record{{"y": 2}},
		"names":  []string{"p", "q"},
		"counts": map[string]int{"n": 1},
		"matrix": [][]int{{1, 2}},
	}
	cp := CloneRecord(orig)
	require.Equal(t, orig, cp)

	cp["meta"].(map[string]any)["owner"] = "dev"
	cp["meta"].(map[string]any)["labels"].([]any)[0] = "z"
	cp["nested"].(Record)["x"] = 9
	cp["list"].([]Record)[0]["y"] = 9
	cp["names"].([]string)[0] = "z"
	cp["counts"].(map[string]int)["n"] = 9
	cp["matrix"].([][]int)[0][0] = 9

	assert.Equal(t, "ops", orig["meta"].(map[string]any)["owner"])
	assert.Equal(t, "a", orig["meta"].(map[string]any)["labels"].([]any)[0])
	assert.Equal(t, 1, orig["nested"].(Record)["x"])
	assert.Equal(t, 2, orig["list"].([]Record)[0]["y"])
	assert.Equal(t, "p", orig["names"].([]string)[0])
	assert.Equal(t, 1, orig["counts"].(map[string]int)["n"])
	assert.Equal(t, 1, orig["matrix"].([][]int)[0][0])
}

func TestCloneRecord_Nil(t *testing.T) {
	assert.Nil(t, CloneRecord(nil))
	assert.Nil(t, CloneRecords(nil))
	assert.Nil(t, CopyList(nil))
}

func TestCopyList_SharesRecords(t *testing.T) {
	rs := []Record{{"id": 1}}
	cp := CopyList(rs)
	cp[0]["id"] = 2
	assert.Equal(t, 2, rs[0]["id"])

	cp[0] = Record{"id": 3}
	assert.Equal(t, 2, rs[0]["id"])
}

func TestCloneMode_String(t *testing.T) {
	assert.Equal(t, "Deep", CloneDeep.String())
	assert.Equal(t, "List", CloneList.String())
	assert.Equal(t, "None", CloneNone.String())
	assert.Equal(t, "CloneMode(7)", CloneMode(7).String())
	assert.Equal(t, "CloneMode(-1)", CloneMode(-1).String())
}
