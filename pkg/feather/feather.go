// Package feather reads and writes tables as Arrow IPC files, the
// physical format PMM sidecars describe.
package feather

import (
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
	"github.com/ajitpratap0/featherpmm/pkg/table"
)

// Read loads an Arrow IPC file into a table. A missing file is reported
// as a table-unavailable error so callers can distinguish it from a
// corrupt one.
func Read(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrorTypeTableUnavailable,
				"no table file at %s", path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening table "+path)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading table "+path)
	}
	defer r.Close()

	schema := r.Schema()
	cols := make([]*table.Column, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)
		dtype, err := dtypeFromArrow(field.Type)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeUnknownStorageType,
				"column "+field.Name)
		}
		cols[i] = table.NewColumn(field.Name, dtype, nil)
	}

	for b := 0; b < r.NumRecords(); b++ {
		rec, err := r.Record(b)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading table "+path)
		}
		for i := range cols {
			if err := appendArrowColumn(cols[i], rec.Column(i)); err != nil {
				return nil, err
			}
		}
	}

	return table.New(cols...)
}

// Write stores a table as an Arrow IPC file at path, as a single record
// batch.
func Write(path string, t *table.Table) error {
	schema, err := arrowSchema(t)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "creating table "+path)
	}
	defer f.Close()

	alloc := memory.NewGoAllocator()
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(alloc))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing table "+path)
	}

	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		if err := appendColumnValues(builder.Field(i), col); err != nil {
			w.Close()
			return err
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()
	if err := w.Write(rec); err != nil {
		w.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "writing table "+path)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "closing table "+path)
	}
	return nil
}

func arrowSchema(t *table.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		at, err := arrowType(col.DType)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeUnknownStorageType,
				"column "+col.Name)
		}
		fields[i] = arrow.Field{Name: col.Name, Type: at, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowType(d table.DType) (arrow.DataType, error) {
	switch d {
	case table.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case table.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case table.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case table.String, table.Object:
		// Mixed-type columns are stringified on the way out.
		return arrow.BinaryTypes.String, nil
	case table.Timestamp:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	}
	return nil, errors.Newf(errors.ErrorTypeUnknownStorageType,
		"no storage mapping for dtype %s", d)
}

func dtypeFromArrow(dt arrow.DataType) (table.DType, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return table.Bool, nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return table.Int64, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return table.Float64, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return table.String, nil
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return table.Timestamp, nil
	}
	return 0, errors.Newf(errors.ErrorTypeUnknownStorageType,
		"unsupported storage type %s", dt)
}

func appendColumnValues(b array.Builder, col *table.Column) error {
	for i, v := range col.Values {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch ab := b.(type) {
		case *array.BooleanBuilder:
			bv, ok := v.(bool)
			if !ok {
				return cellError(col, i, v)
			}
			ab.Append(bv)
		case *array.Int64Builder:
			switch iv := v.(type) {
			case int64:
				ab.Append(iv)
			case int:
				ab.Append(int64(iv))
			default:
				return cellError(col, i, v)
			}
		case *array.Float64Builder:
			fv, ok := v.(float64)
			if !ok {
				return cellError(col, i, v)
			}
			ab.Append(fv)
		case *array.StringBuilder:
			if sv, ok := v.(string); ok {
				ab.Append(sv)
			} else {
				ab.Append(fmt.Sprintf("%v", v))
			}
		case *array.TimestampBuilder:
			tv, ok := v.(time.Time)
			if !ok {
				return cellError(col, i, v)
			}
			ab.Append(arrow.Timestamp(tv.UnixNano()))
		default:
			return errors.Newf(errors.ErrorTypeUnknownStorageType,
				"unsupported builder %T for column %s", b, col.Name)
		}
	}
	return nil
}

func cellError(col *table.Column, row int, v interface{}) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch,
		"column %s row %d: cannot store %T as %s", col.Name, row, v, col.DType)
}

func appendArrowColumn(col *table.Column, a arrow.Array) error {
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) {
			col.Values = append(col.Values, nil)
			continue
		}
		switch arr := a.(type) {
		case *array.Boolean:
			col.Values = append(col.Values, arr.Value(i))
		case *array.Int8:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Int16:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Int32:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Int64:
			col.Values = append(col.Values, arr.Value(i))
		case *array.Uint8:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Uint16:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Uint32:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Uint64:
			col.Values = append(col.Values, int64(arr.Value(i)))
		case *array.Float32:
			col.Values = append(col.Values, float64(arr.Value(i)))
		case *array.Float64:
			col.Values = append(col.Values, arr.Value(i))
		case *array.String:
			col.Values = append(col.Values, arr.Value(i))
		case *array.LargeString:
			col.Values = append(col.Values, arr.Value(i))
		case *array.Timestamp:
			unit := arr.DataType().(*arrow.TimestampType).Unit
			col.Values = append(col.Values, arr.Value(i).ToTime(unit).UTC())
		case *array.Date32:
			col.Values = append(col.Values, arr.Value(i).ToTime().UTC())
		case *array.Date64:
			col.Values = append(col.Values, arr.Value(i).ToTime().UTC())
		default:
			return errors.Newf(errors.ErrorTypeUnknownStorageType,
				"unsupported array type %T for column %s", a, col.Name)
		}
	}
	return nil
}
