package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"github.com/ajitpratap0/featherpmm/pkg/table"
)

func newTestDataset(t *testing.T, cols ...*table.Column) *Dataset {
	t.Helper()
	tbl, err := table.New(cols...)
	require.NoError(t, err)
	ds, err := New("test", tbl, nil)
	require.NoError(t, err)
	return ds
}

func TestUpdateMetadataAddsAndRemoves(t *testing.T) {
	ds := newTestDataset(t,
		table.NewColumn("a", table.Int64, []interface{}{int64(1)}),
	)

	// Table drifts: a disappears, b appears.
	ds.Table.Remove("a")
	require.NoError(t, ds.Table.AddColumn(
		table.NewColumn("b", table.Float64, []interface{}{2.5})))

	require.NoError(t, ds.UpdateMetadata())
	assert.Equal(t, []string{"b"}, ds.Meta.FieldNames())
	b, _ := ds.Meta.Field("b")
	assert.Equal(t, pmm.TypeReal, b.Type())
	assert.Equal(t, int64(1), ds.Meta.RecordCount())
	assert.Equal(t, int64(1), ds.Meta.FieldCount())
}

func TestUpdateMetadataReordersWithoutRetyping(t *testing.T) {
	ds := newTestDataset(t,
		table.NewColumn("a", table.Float64, []interface{}{1.0}),
		table.NewColumn("b", table.String, []interface{}{"x"}),
	)
	a, _ := ds.Meta.Field("a")
	require.NoError(t, a.SetType(pmm.TypeInteger))
	a.SetTag("unique", pmm.BoolValue(true))

	require.NoError(t, ds.Table.Reorder([]string{"b", "a"}))
	require.NoError(t, ds.UpdateMetadata())

	assert.Equal(t, []string{"b", "a"}, ds.Meta.FieldNames())
	a2, _ := ds.Meta.Field("a")
	assert.Equal(t, pmm.TypeInteger, a2.Type(), "reorder preserves declared type")
	assert.True(t, a2.Tags().Has("unique"), "reorder preserves tags")
}

func TestUpdateMetadataIdempotent(t *testing.T) {
	ds := newTestDataset(t,
		table.NewColumn("a", table.Int64, []interface{}{int64(1), int64(2)}),
		table.NewColumn("b", table.Bool, []interface{}{true, false}),
	)
	require.NoError(t, ds.UpdateMetadata())

	before, err := ds.Meta.Canonical()
	require.NoError(t, err)
	require.NoError(t, ds.UpdateMetadata())
	after, err := ds.Meta.Canonical()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestMergeMetadata(t *testing.T) {
	primary := newTestDataset(t,
		table.NewColumn("age", table.Int64, []interface{}{int64(30)}),
	)

	bonus, err := pmm.NewField("bonus", pmm.TypeReal, pmm.RoleAuxiliary, nil, nil)
	require.NoError(t, err)
	age2, err := pmm.NewField("age", pmm.TypeString, pmm.RoleIgnore, nil, nil)
	require.NoError(t, err)
	other, err := pmm.NewMetadata("other", 0, []*pmm.Field{bonus, age2}, nil)
	require.NoError(t, err)

	// Without override, the primary's age declaration wins; bonus is new.
	MergeMetadata(primary.Meta, other, nil)
	assert.Equal(t, []string{"age", "bonus"}, primary.Meta.FieldNames())
	age, _ := primary.Meta.Field("age")
	assert.Equal(t, pmm.TypeInteger, age.Type())

	// Merging again with no override changes nothing.
	MergeMetadata(primary.Meta, other, nil)
	assert.Equal(t, []string{"age", "bonus"}, primary.Meta.FieldNames())
	age, _ = primary.Meta.Field("age")
	assert.Equal(t, pmm.TypeInteger, age.Type())

	// Explicit override replaces the declared field.
	MergeMetadata(primary.Meta, other, []string{"age"})
	age, _ = primary.Meta.Field("age")
	assert.Equal(t, pmm.TypeString, age.Type())
	assert.Equal(t, pmm.RoleIgnore, age.Role())
}

func TestAppendDatasets(t *testing.T) {
	left := newTestDataset(t,
		table.NewColumn("a", table.Int64, []interface{}{int64(1)}),
	)
	right := newTestDataset(t,
		table.NewColumn("a", table.Int64, []interface{}{int64(2)}),
		table.NewColumn("b", table.String, []interface{}{"x"}),
	)

	out, err := left.Append(right)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Table.NumRows())
	assert.Equal(t, []string{"a", "b"}, out.Meta.FieldNames())
	assert.Equal(t, int64(2), out.Meta.RecordCount())
}
