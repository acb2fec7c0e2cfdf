package dataset

import (
	"github.com/ajitpratap0/featherpmm/pkg/logger"
	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"go.uber.org/zap"
)

// UpdateMetadata brings the metadata's field list into exact
// correspondence with the table's columns: fields with no matching
// column are dropped, columns with no matching field get a freshly
// inferred one, the field order is rebuilt to the column order, and the
// record and field counts are recomputed. Existing fields keep their
// type, role and tags; only position changes. Idempotent.
func (ds *Dataset) UpdateMetadata() error {
	m, t := ds.Meta, ds.Table

	for _, name := range m.FieldNames() {
		if !t.Has(name) {
			m.RemoveField(name)
			logger.Debug("dropped field with no matching column",
				zap.String("field", name), zap.String("dataset", m.Name()))
		}
	}

	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		if _, ok := m.Field(col.Name); ok {
			continue
		}
		typ, err := InferFieldType(col, "")
		if err != nil {
			return err
		}
		f, err := pmm.NewField(col.Name, typ, pmm.RoleUnspecified, nil, nil)
		if err != nil {
			return err
		}
		m.AddField(f)
		logger.Debug("added inferred field",
			zap.String("field", col.Name), zap.String("type", string(typ)))
	}

	names := t.Names()
	if !orderMatches(m.FieldNames(), names) {
		ordered := make([]*pmm.Field, len(names))
		for i, name := range names {
			f, _ := m.Field(name)
			ordered[i] = f
		}
		m.SetFields(ordered)
	}

	m.SetRecordCount(int64(t.NumRows()))
	return nil
}

func orderMatches(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MergeMetadata folds fields from another metadata source into m.
// Fields only the other source declares are appended; fields m already
// declares are kept unless their name is explicitly listed in
// overrides, in which case the other source's field replaces them.
func MergeMetadata(m, other *pmm.Metadata, overrides []string) {
	override := make(map[string]bool, len(overrides))
	for _, name := range overrides {
		override[name] = true
	}
	for _, f := range other.Fields() {
		if _, exists := m.Field(f.Name()); exists && !override[f.Name()] {
			continue
		}
		m.AddField(f)
	}
}
