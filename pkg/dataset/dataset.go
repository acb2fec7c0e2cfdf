// Package dataset pairs an in-memory table with its PMM metadata and
// keeps the two consistent across mutation, merge and the load/save
// boundary.
package dataset

import (
	"github.com/ajitpratap0/featherpmm/pkg/errors"
	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"github.com/ajitpratap0/featherpmm/pkg/table"
)

// Dataset owns its metadata and references the table's column set. It
// never copies column data.
type Dataset struct {
	Table *table.Table
	Meta  *pmm.Metadata
}

// New pairs a table with existing metadata. Nil metadata is synthesized
// by inference under the given name.
func New(name string, t *table.Table, m *pmm.Metadata) (*Dataset, error) {
	if m == nil {
		var err error
		m, err = InferMetadata(name, t, nil)
		if err != nil {
			return nil, err
		}
	}
	return &Dataset{Table: t, Meta: m}, nil
}

// Name returns the dataset name recorded in the metadata.
func (ds *Dataset) Name() string { return ds.Meta.Name() }

// AddField adds a column to the table and declares a matching field.
// An empty type is inferred from the column; an unspecified role is
// allowed.
func (ds *Dataset) AddField(col *table.Column, typ pmm.FieldType, role pmm.Role) error {
	inferred, err := InferFieldType(col, typ)
	if err != nil {
		return err
	}
	if err := ds.Table.AddColumn(col); err != nil {
		return err
	}
	f, err := pmm.NewField(col.Name, inferred, role, nil, nil)
	if err != nil {
		ds.Table.Remove(col.Name)
		return err
	}
	ds.Meta.AddField(f)
	return nil
}

// DeclareField overrides the canonical type of an existing column's
// field. When the column holds no data at all its storage type is
// retyped to match, so the declaration survives a save/load cycle.
func (ds *Dataset) DeclareField(name string, typ pmm.FieldType) error {
	col, ok := ds.Table.Column(name)
	if !ok {
		return errors.Newf(errors.ErrorTypeUnknownAttribute,
			"no column %s in dataset %s", name, ds.Name())
	}
	f, ok := ds.Meta.Field(name)
	if !ok {
		nf, err := pmm.NewField(name, typ, pmm.RoleUnspecified, nil, nil)
		if err != nil {
			return err
		}
		ds.Meta.AddField(nf)
	} else if err := f.SetType(typ); err != nil {
		return err
	}
	if col.AllNull() {
		col.DType = storageFor(typ)
	}
	return nil
}

func storageFor(typ pmm.FieldType) table.DType {
	switch typ {
	case pmm.TypeBoolean:
		return table.Bool
	case pmm.TypeInteger:
		return table.Int64
	case pmm.TypeReal:
		return table.Float64
	case pmm.TypeDatestamp:
		return table.Timestamp
	default:
		return table.String
	}
}

// TagDataset sets a dataset-level tag.
func (ds *Dataset) TagDataset(name string, v pmm.Value) {
	ds.Meta.SetTag(name, v)
}

// TagField sets a tag on a declared field.
func (ds *Dataset) TagField(fieldName, tagName string, v pmm.Value) error {
	return ds.Meta.SetFieldTag(fieldName, tagName, v)
}

// Append concatenates another dataset's rows onto this one, returning a
// new dataset. Fields only the other dataset declares are merged in;
// the result is reconciled against the combined table.
func (ds *Dataset) Append(other *Dataset) (*Dataset, error) {
	combined, err := ds.Table.AppendRows(other.Table)
	if err != nil {
		return nil, err
	}
	out := &Dataset{Table: combined, Meta: ds.Meta}
	MergeMetadata(out.Meta, other.Meta, nil)
	if err := out.UpdateMetadata(); err != nil {
		return nil, err
	}
	return out, nil
}
