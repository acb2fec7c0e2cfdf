package dataset

import (
	"github.com/ajitpratap0/featherpmm/pkg/errors"
	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"github.com/ajitpratap0/featherpmm/pkg/table"
)

// InferFieldType maps a column's storage type to its canonical type. An
// explicit non-empty override bypasses inference but must itself be
// canonical. Mixed-type columns are inspected at their first non-null
// cell: a boolean cell infers boolean, anything else infers string.
func InferFieldType(col *table.Column, override pmm.FieldType) (pmm.FieldType, error) {
	if override != "" {
		if !pmm.ValidFieldType(override) {
			return "", errors.Newf(errors.ErrorTypeUnknownCanonicalType,
				"unknown type %s for column %s", override, col.Name)
		}
		return override, nil
	}
	switch col.DType {
	case table.Bool:
		return pmm.TypeBoolean, nil
	case table.Int64:
		return pmm.TypeInteger, nil
	case table.Float64:
		return pmm.TypeReal, nil
	case table.Timestamp:
		return pmm.TypeDatestamp, nil
	case table.String:
		return pmm.TypeString, nil
	case table.Object:
		if v, ok := col.FirstNonNull(); ok {
			if _, isBool := v.(bool); isBool {
				return pmm.TypeBoolean, nil
			}
		}
		return pmm.TypeString, nil
	}
	return "", errors.Newf(errors.ErrorTypeUnknownStorageType,
		"no canonical mapping for column %s with dtype %s", col.Name, col.DType)
}

// InferMetadata synthesizes fresh metadata for a table: one field per
// column with an inferred (or overridden) type, an unspecified role and
// empty tags. Override names must refer to existing columns.
func InferMetadata(name string, t *table.Table, overrides map[string]pmm.FieldType) (*pmm.Metadata, error) {
	for colName := range overrides {
		if !t.Has(colName) {
			return nil, errors.Newf(errors.ErrorTypeUnknownAttribute,
				"type override for unknown column %s", colName)
		}
	}

	fields := make([]*pmm.Field, 0, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		typ, err := InferFieldType(col, overrides[col.Name])
		if err != nil {
			return nil, err
		}
		f, err := pmm.NewField(col.Name, typ, pmm.RoleUnspecified, nil, nil)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return pmm.NewMetadata(name, int64(t.NumRows()), fields, nil)
}
