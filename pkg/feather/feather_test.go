package feather

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
	"github.com/ajitpratap0/featherpmm/pkg/table"
)

func TestRoundTrip(t *testing.T) {
	ts := time.Date(2023, 7, 14, 9, 30, 0, 0, time.UTC)
	tbl, err := table.New(
		table.NewColumn("flag", table.Bool, []interface{}{true, nil, false}),
		table.NewColumn("count", table.Int64, []interface{}{int64(1), int64(2), nil}),
		table.NewColumn("score", table.Float64, []interface{}{0.5, math.NaN(), 2.0}),
		table.NewColumn("label", table.String, []interface{}{"a", "b", nil}),
		table.NewColumn("when", table.Timestamp, []interface{}{ts, nil, ts.Add(time.Hour)}),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.feather")
	require.NoError(t, Write(path, tbl))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Names(), got.Names())
	require.Equal(t, 3, got.NumRows())

	flag, _ := got.Column("flag")
	assert.Equal(t, table.Bool, flag.DType)
	assert.Equal(t, true, flag.Values[0])
	assert.True(t, flag.IsNull(1))

	count, _ := got.Column("count")
	assert.Equal(t, int64(2), count.Values[1])

	score, _ := got.Column("score")
	assert.Equal(t, 0.5, score.Values[0])
	assert.True(t, math.IsNaN(score.Values[1].(float64)), "NaN survives as a value")
	assert.Equal(t, 2.0, score.Values[2])

	when, _ := got.Column("when")
	assert.True(t, ts.Equal(when.Values[0].(time.Time)))
	assert.True(t, when.IsNull(1))
}

func TestEmptyTable(t *testing.T) {
	tbl, err := table.New(
		table.NewColumn("a", table.String, nil),
		table.NewColumn("b", table.Float64, nil),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.feather")
	require.NoError(t, Write(path, tbl))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, []string{"a", "b"}, got.Names())
	a, _ := got.Column("a")
	assert.Equal(t, table.String, a.DType)
}

func TestObjectColumnStringified(t *testing.T) {
	tbl, err := table.New(
		table.NewColumn("mixed", table.Object, []interface{}{"x", int64(3), nil}),
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mixed.feather")
	require.NoError(t, Write(path, tbl))

	got, err := Read(path)
	require.NoError(t, err)
	mixed, _ := got.Column("mixed")
	assert.Equal(t, table.String, mixed.DType)
	assert.Equal(t, "x", mixed.Values[0])
	assert.Equal(t, "3", mixed.Values[1])
	assert.True(t, mixed.IsNull(2))
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.feather"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTableUnavailable))
}

func TestCellTypeMismatch(t *testing.T) {
	tbl, err := table.New(
		table.NewColumn("n", table.Int64, []interface{}{"not a number"}),
	)
	require.NoError(t, err)
	err = Write(filepath.Join(t.TempDir(), "bad.feather"), tbl)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}
