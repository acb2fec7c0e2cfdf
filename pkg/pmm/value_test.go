package pmm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmmjson "github.com/ajitpratap0/featherpmm/pkg/json"
)

func TestValueKinds(t *testing.T) {
	assert.True(t, NoneValue().IsNone())

	b, ok := BoolValue(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	i, ok := IntValue(-3).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(-3), i)

	// Accessors fail across kinds.
	_, ok = IntValue(1).AsReal()
	assert.False(t, ok)
	_, ok = StringValue("x").AsInt()
	assert.False(t, ok)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, IntValue(5).Equal(IntValue(5)))
	assert.False(t, IntValue(5).Equal(RealValue(5)), "integer and real are distinct")
	assert.True(t, ListValue(IntValue(1), StringValue("a")).
		Equal(ListValue(IntValue(1), StringValue("a"))))
	assert.False(t, ListValue(IntValue(1)).Equal(ListValue(IntValue(2))))

	d := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, DateValue(d).Equal(DateValue(d)))

	m1 := NewTags()
	m1.Set("a", IntValue(1))
	m1.Set("b", IntValue(2))
	m2 := NewTags()
	m2.Set("b", IntValue(2))
	m2.Set("a", IntValue(1))
	assert.True(t, MapValue(m1).Equal(MapValue(m2)), "map order does not matter")
}

func TestValueFromWireNumbers(t *testing.T) {
	v, err := valueFromWire(pmmjson.Number("42"))
	require.NoError(t, err)
	_, isInt := v.AsInt()
	assert.True(t, isInt)

	v, err = valueFromWire(pmmjson.Number("42.0"))
	require.NoError(t, err)
	_, isReal := v.AsReal()
	assert.True(t, isReal)

	v, err = valueFromWire(pmmjson.Number("1e3"))
	require.NoError(t, err)
	_, isReal = v.AsReal()
	assert.True(t, isReal, "exponent form decodes as real")
}

func TestValueFromWireContainers(t *testing.T) {
	v, err := valueFromWire([]interface{}{true, "x", nil})
	require.NoError(t, err)
	elems, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, elems, 3)
	assert.True(t, elems[2].IsNone())

	v, err = valueFromWire(map[string]interface{}{"z": 1, "a": 2})
	require.NoError(t, err)
	tags, ok := v.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "z"}, tags.Keys(), "wire maps are stored sorted")
}

func TestTagsOrderAndMutation(t *testing.T) {
	tags := NewTags()
	tags.Set("c", IntValue(1))
	tags.Set("a", IntValue(2))
	tags.Set("c", IntValue(3)) // existing key keeps position
	assert.Equal(t, []string{"c", "a"}, tags.Keys())

	v, ok := tags.Get("c")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(3), i)

	assert.True(t, tags.Delete("c"))
	assert.False(t, tags.Delete("c"))
	assert.Equal(t, []string{"a"}, tags.Keys())

	tags.Set("b", IntValue(4))
	tags.SortKeys()
	assert.Equal(t, []string{"a", "b"}, tags.Keys())
}

func TestTagsClone(t *testing.T) {
	tags := NewTags()
	tags.Set("a", IntValue(1))
	c := tags.Clone()
	c.Set("b", IntValue(2))
	assert.False(t, tags.Has("b"))
	assert.True(t, tags.Equal(tags))
	assert.False(t, tags.Equal(c))
}
