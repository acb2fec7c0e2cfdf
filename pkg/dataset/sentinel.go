package dataset

import (
	"math"
	"strings"

	"github.com/ajitpratap0/featherpmm/pkg/logger"
	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"github.com/ajitpratap0/featherpmm/pkg/table"
	"go.uber.org/zap"
)

// The storage format cannot hold an all-null string column, nor a
// boolean column of zero rows, without corrupting the write. Such
// columns are smuggled through as all-NaN float columns under a
// synthesized name: the original name, a null-marker suffix, and one
// type character recovered from the declared field type. Decoding
// inverts the rename exactly; name collisions on either side are
// skipped silently.

// NullSuffix is the marker inserted between a column's original name
// and its type character in a sentinel name.
const NullSuffix = "_∅"

func sentinelTypeChar(m *pmm.Metadata, name string) byte {
	if m == nil {
		return 'u'
	}
	f, ok := m.Field(name)
	if !ok {
		return 'u'
	}
	switch f.Type() {
	case pmm.TypeBoolean:
		return 'b'
	case pmm.TypeString:
		return 's'
	default:
		return 'u'
	}
}

// EncodeNullColumns returns a copy of the dataset's table with every
// unstorable column replaced by its sentinel. The dataset itself is
// untouched. Columns with any non-null cell are never encoded.
func EncodeNullColumns(ds *Dataset) *table.Table {
	out := ds.Table.Clone()
	rows := out.NumRows()
	for i := 0; i < out.NumCols(); i++ {
		col := out.ColumnAt(i)
		encode := false
		switch col.DType {
		case table.String, table.Object:
			encode = col.AllNull()
		case table.Bool:
			encode = rows == 0
		}
		if !encode {
			continue
		}
		name := col.Name + NullSuffix + string(sentinelTypeChar(ds.Meta, col.Name))
		if out.Has(name) {
			logger.Debug("sentinel name collision, column left as is",
				zap.String("column", col.Name), zap.String("sentinel", name))
			continue
		}
		vals := make([]interface{}, rows)
		for r := range vals {
			vals[r] = math.NaN()
		}
		// ReplaceAt cannot fail here: the position is valid and the
		// sentinel name was just checked for collisions.
		_ = out.ReplaceAt(i, table.NewColumn(name, table.Float64, vals))
	}
	return out
}

// DecodeNullColumns restores sentinel columns in place: every all-null
// float column whose name carries the marker gets its original name and
// declared type back, with every cell null. A surviving column under
// the recovered name leaves the sentinel untouched.
func DecodeNullColumns(t *table.Table) {
	rows := t.NumRows()
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		name := col.Name
		if len(name) < len(NullSuffix)+2 {
			continue
		}
		prefix := name[:len(name)-1]
		if !strings.HasSuffix(prefix, NullSuffix) {
			continue
		}
		if col.DType != table.Float64 || !col.AllNull() {
			continue
		}
		truename := strings.TrimSuffix(prefix, NullSuffix)
		if t.Has(truename) {
			logger.Debug("sentinel and plain column coexist, skipping decode",
				zap.String("sentinel", name), zap.String("column", truename))
			continue
		}
		dtype := table.String
		if name[len(name)-1] == 'b' && rows == 0 {
			dtype = table.Bool
		}
		_ = t.ReplaceAt(i, table.NewColumn(truename, dtype, make([]interface{}, rows)))
	}
}
