package recordstore

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/store"
)

func widgetConfig() Config {
	return Config{
		Entity: "widget",
		Indexes: []store.IndexSpec{
			{Field: "type", Relationship: store.OneToMany},
			{Field: "serial", Relationship: store.OneToOne, Name: "bySerial"},
		},
	}
}

func widgets() []store.Record {
	return []store.Record{
		{"id": 1, "type": "foo", "serial": "s1"},
		{"id": 2, "type": "bar", "serial": "s2"},
		{"id": 3, "type": "foo", "serial": "s3"},
	}
}

func newWidgets(t *testing.T) *Store {
	t.Helper()
	s, err := New(widgetConfig(), widgets())
	require.NoError(t, err)
	return s
}

func keys(rs []store.Record) []any {
	out := make([]any, len(rs))
	for i, r := range rs {
		out[i] = store.FieldKey(r, "id")
	}
	return out
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.ErrorIs(t, err, fault.ErrConfiguration)

	_, err = New(Config{Entity: "w", Indexes: []store.IndexSpec{{Field: "type"}}}, nil)
	assert.ErrorIs(t, err, fault.ErrConfiguration)

	_, err = New(Config{Entity: "w", Indexes: []store.IndexSpec{
		{Field: "type", Relationship: store.OneToMany},
		{Field: "type", Relationship: store.OneToOne},
	}}, nil)
	assert.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestNew_RejectsMissingAndDuplicateKeys(t *testing.T) {
	_, err := New(widgetConfig(), []store.Record{{"type": "foo"}})
	assert.ErrorIs(t, err, fault.ErrConfiguration)

	_, err = New(widgetConfig(), []store.Record{{"id": 1}, {"id": float64(1)}})
	require.ErrorIs(t, err, fault.ErrDuplicateKey)

	var ee *fault.EntityError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "widget", ee.Entity)
	assert.Equal(t, "load", ee.Op)
	assert.Equal(t, `widget "1": load: duplicate key`, err.Error())
}

func TestScenarioA(t *testing.T) {
	s := newWidgets(t)

	foo, err := s.GetBy("type", "foo")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(3)}, keys(foo))

	require.NoError(t, s.Delete(1))

	foo, err = s.GetBy("type", "foo")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3)}, keys(foo))
}

func TestScenarioB(t *testing.T) {
	s := newWidgets(t)
	require.NoError(t, s.Delete(1))

	require.NoError(t, s.Update(store.Record{"id": 3, "type": "new", "serial": "s3"}))

	foo, err := s.GetBy("type", "foo")
	require.NoError(t, err)
	assert.Empty(t, foo)

	fresh, err := s.GetBy("type", "new")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 3, fresh[0]["id"])
}

func TestScenarioC_DuplicateAdd(t *testing.T) {
	s := newWidgets(t)

	err := s.Add(store.Record{"id": 2, "type": "foo", "serial": "s9"})
	assert.ErrorIs(t, err, fault.ErrDuplicateKey)

	foo, err := s.GetBy("type", "foo")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(3)}, keys(foo))
	_, err = s.GetOneBy("serial", "s9")
	assert.ErrorIs(t, err, fault.ErrNotFound)
	assert.Equal(t, 3, s.Len())
}

func TestScenarioD_Truncate(t *testing.T) {
	s := newWidgets(t)
	s.Truncate()

	assert.Empty(t, s.List())
	for _, typ := range []string{"foo", "bar"} {
		rs, err := s.GetBy("type", typ)
		require.NoError(t, err)
		assert.Empty(t, rs)
	}
	for _, serial := range []string{"s1", "s2", "s3"} {
		_, err := s.GetOneBy("serial", serial)
		assert.ErrorIs(t, err, fault.ErrNotFound)
	}
}

func TestScenarioE_DeleteMissing(t *testing.T) {
	s := newWidgets(t)

	err := s.Delete(42)
	assert.ErrorIs(t, err, fault.ErrNotFound)
	assert.ErrorIs(t, err, fault.ErrConsistency)
	assert.True(t, strings.HasPrefix(err.Error(), `widget "42": delete:`), err.Error())
	assert.Equal(t, 3, s.Len())
}

func TestGetFindHas(t *testing.T) {
	s := newWidgets(t)

	r, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "bar", r["type"])
	r["type"] = "mutated"

	again, ok := s.Find(2)
	require.True(t, ok)
	assert.Equal(t, "bar", again["type"])

	_, err = s.Get(9)
	assert.ErrorIs(t, err, fault.ErrNotFound)
	assert.Equal(t, `widget "9": get: not found`, err.Error())

	_, ok = s.Find(9)
	assert.False(t, ok)
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(9))
}

func TestAdd_RequiresKey(t *testing.T) {
	s := newWidgets(t)
	assert.ErrorIs(t, s.Add(store.Record{"type": "foo"}), fault.ErrConfiguration)
	assert.ErrorIs(t, s.Add(nil), fault.ErrConfiguration)
	assert.ErrorIs(t, s.Update(store.Record{"id": nil}), fault.ErrConfiguration)
}

func TestUpsert(t *testing.T) {
	s := newWidgets(t)
	require.NoError(t, s.Upsert(store.Record{"id": 4, "type": "bar", "serial": "s4"}))
	require.NoError(t, s.Upsert(store.Record{"id": 1, "type": "bar", "serial": "s1"}))

	bar, err := s.GetBy("type", "bar")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(4), int64(1)}, keys(bar))
}

func TestNormalizeKey(t *testing.T) {
	cfg := widgetConfig()
	cfg.NormalizeKey = func(k any) any {
		if s, ok := k.(string); ok {
			return strings.ToLower(s)
		}
		return k
	}
	s, err := New(cfg, []store.Record{{"id": "W1", "type": "foo"}})
	require.NoError(t, err)

	r, err := s.Get("w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", r["id"])

	in := store.Record{"id": "W2", "type": "bar"}
	require.NoError(t, s.Add(in))
	assert.Equal(t, "W2", in["id"], "caller record modified")
	assert.True(t, s.Has("W2"))
	assert.ErrorIs(t, s.Add(store.Record{"id": "w2"}), fault.ErrDuplicateKey)

	require.NoError(t, s.Delete("W1"))
	assert.False(t, s.Has("w1"))
}

func TestAccessors(t *testing.T) {
	s := newWidgets(t)
	assert.Equal(t, []string{"getBySerial", "getByType"}, s.AccessorNames())

	getByType, ok := s.Accessor("getByType")
	require.True(t, ok)
	foo, err := getByType("foo")
	require.NoError(t, err)
	assert.Len(t, foo, 2)

	bySerial, err := s.Call("getBySerial", "s2")
	require.NoError(t, err)
	require.Len(t, bySerial, 1)
	assert.Equal(t, 2, bySerial[0]["id"])

	none, err := s.Call("getBySerial", "nope")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.Call("getByColor", "red")
	assert.ErrorIs(t, err, fault.ErrNotFound)

	_, ok = s.Accessor("getByColor")
	assert.False(t, ok)
}

func TestAccessorName(t *testing.T) {
	assert.Equal(t, "getByType", AccessorName("type"))
	assert.Equal(t, "getByOwnerId", AccessorName("ownerId"))
	assert.Equal(t, "getByOwner-id", AccessorName("owner-id"))
	assert.Equal(t, "getByFirst name", AccessorName("first name"))
	assert.Equal(t, "getByÉtat", AccessorName("état"))
	assert.Equal(t, "getBy", AccessorName(""))
}

func TestNew_FailedLoadLeavesRecordsUntouched(t *testing.T) {
	cfg := widgetConfig()
	cfg.NormalizeKey = store.IndexKey
	records := []store.Record{{"id": float64(1)}, {"id": float64(2)}, {"id": 1}}

	_, err := New(cfg, records)
	require.ErrorIs(t, err, fault.ErrDuplicateKey)
	assert.Equal(t, float64(1), records[0]["id"])
	assert.Equal(t, float64(2), records[1]["id"])

	records = []store.Record{{"id": float64(1)}, {"type": "foo"}}
	_, err = New(cfg, records)
	require.ErrorIs(t, err, fault.ErrConfiguration)
	assert.Equal(t, float64(1), records[0]["id"])
}

func TestStoredKeysAreNotRenormalized(t *testing.T) {
	cfg := widgetConfig()
	cfg.Fields = []string{"type", "serial"}
	cfg.NormalizeKey = func(k any) any {
		if s, ok := k.(string); ok {
			return strings.TrimPrefix(s, "0")
		}
		return k
	}
	s, err := New(cfg, []store.Record{{"id": "001", "type": "foo", "serial": "s1"}})
	require.NoError(t, err)
	require.True(t, s.Has("01"))

	o, err := s.Object("01")
	require.NoError(t, err)
	require.NoError(t, o.Set("type", "bar"))
	require.NoError(t, s.SaveObject(o))

	assert.Equal(t, 1, s.Len())
	r, err := s.Get("01")
	require.NoError(t, err)
	assert.Equal(t, "bar", r["type"])

	require.NoError(t, s.Delete("01"))
	assert.Equal(t, 0, s.Len())
}

func TestGetBy_Unindexed(t *testing.T) {
	s := newWidgets(t)
	_, err := s.GetBy("color", "red")
	assert.ErrorIs(t, err, fault.ErrNotFound)
	_, err = s.GetOneBy("type", "foo")
	assert.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestObjects(t *testing.T) {
	s := newWidgets(t)

	o, err := s.Object(1)
	require.NoError(t, err)
	require.NoError(t, o.Set("type", "bar"))
	assert.ErrorIs(t, o.Set("color", "red"), fault.ErrFieldNotAllowed)

	// not written back yet
	foo, err := s.GetBy("type", "foo")
	require.NoError(t, err)
	assert.Len(t, foo, 2)

	require.NoError(t, s.SaveObject(o))
	bar, err := s.GetBy("type", "bar")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(1)}, keys(bar))

	n := s.Shape().New()
	require.NoError(t, n.Set("id", 7))
	require.NoError(t, n.Set("type", "baz"))
	require.NoError(t, s.SaveObject(n))
	assert.True(t, s.Has(7))

	other, err := New(Config{Entity: "gadget"}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, other.SaveObject(n), fault.ErrConfiguration)

	_, err = s.Object(99)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestValidate(t *testing.T) {
	cfg := widgetConfig()
	cfg.Check = func(r store.Record) error {
		if r["type"] == "bar" {
			return fmt.Errorf("bar widgets are retired")
		}
		return nil
	}
	s, err := New(cfg, []store.Record{
		{"id": 1, "type": "foo", "serial": "s1"},
		{"id": 2, "type": "bar", "serial": "s2"},
		{"id": 3, "type": "foo", "serial": "s1"},
	})
	require.NoError(t, err)

	err = s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrDuplicateKey)
	assert.Contains(t, err.Error(), `widget "2": validate: bar widgets are retired`)
	assert.Contains(t, err.Error(), `widget "3": validate: serial s1 also held by 1`)

	require.NoError(t, newWidgets(t).Validate())
}
