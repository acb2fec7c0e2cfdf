// Package table provides the small in-memory columnar table the dataset
// layer works against: named, typed columns of equal length with
// nullable cells. It is a host-side stand-in for a dataframe, not a
// query engine.
package table

import (
	"math"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
)

// DType is the physical storage type of a column.
type DType uint8

const (
	// Bool holds bool cells
	Bool DType = iota
	// Int64 holds int64 cells
	Int64
	// Float64 holds float64 cells; NaN cells count as null
	Float64
	// String holds string cells
	String
	// Timestamp holds time.Time cells
	Timestamp
	// Object holds mixed cells of any of the above
	Object
)

var dtypeNames = map[DType]string{
	Bool:      "bool",
	Int64:     "int64",
	Float64:   "float64",
	String:    "string",
	Timestamp: "timestamp",
	Object:    "object",
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return "unknown"
}

// Column is one named, typed column. A nil cell is null; for Float64
// columns NaN also counts as null.
type Column struct {
	Name   string
	DType  DType
	Values []interface{}
}

// NewColumn creates a column over the given cells.
func NewColumn(name string, dtype DType, values []interface{}) *Column {
	return &Column{Name: name, DType: dtype, Values: values}
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// IsNull reports whether cell i is null.
func (c *Column) IsNull(i int) bool {
	v := c.Values[i]
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}

// NonNullCount returns the number of non-null cells.
func (c *Column) NonNullCount() int {
	n := 0
	for i := range c.Values {
		if !c.IsNull(i) {
			n++
		}
	}
	return n
}

// AllNull reports whether every cell is null. An empty column is all
// null.
func (c *Column) AllNull() bool { return c.NonNullCount() == 0 }

// FirstNonNull returns the first non-null cell, if any.
func (c *Column) FirstNonNull() (interface{}, bool) {
	for i, v := range c.Values {
		if !c.IsNull(i) {
			return v, true
		}
	}
	return nil, false
}

// Clone returns a copy sharing no cell slice with the original.
func (c *Column) Clone() *Column {
	vals := make([]interface{}, len(c.Values))
	copy(vals, c.Values)
	return &Column{Name: c.Name, DType: c.DType, Values: vals}
}

// Table is an ordered collection of equal-length columns with unique
// names.
type Table struct {
	cols  []*Column
	index map[string]int
}

// New builds a table from columns, rejecting duplicate names and ragged
// lengths.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the row count (zero for an empty table).
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, if present.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

// AddColumn appends a column. The name must be new and the length must
// match the table's row count (any length is accepted into an empty
// table).
func (t *Table) AddColumn(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return errors.Newf(errors.ErrorTypeDuplicateFieldName,
			"column %s already exists", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return errors.Newf(errors.ErrorTypeInternal,
			"column %s has %d rows, table has %d", c.Name, c.Len(), t.NumRows())
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// SetColumn replaces the same-named column in place, or appends when no
// column with that name exists.
func (t *Table) SetColumn(c *Column) error {
	if i, ok := t.index[c.Name]; ok {
		if c.Len() != t.NumRows() {
			return errors.Newf(errors.ErrorTypeInternal,
				"column %s has %d rows, table has %d", c.Name, c.Len(), t.NumRows())
		}
		t.cols[i] = c
		return nil
	}
	return t.AddColumn(c)
}

// ReplaceAt swaps in a column at position i, reindexing when the name
// changes.
func (t *Table) ReplaceAt(i int, c *Column) error {
	if i < 0 || i >= len(t.cols) {
		return errors.Newf(errors.ErrorTypeInternal, "no column at %d", i)
	}
	old := t.cols[i]
	if c.Name != old.Name {
		if _, ok := t.index[c.Name]; ok {
			return errors.Newf(errors.ErrorTypeDuplicateFieldName,
				"column %s already exists", c.Name)
		}
		delete(t.index, old.Name)
		t.index[c.Name] = i
	}
	t.cols[i] = c
	return nil
}

// Remove deletes the named column, reporting whether it was present.
func (t *Table) Remove(name string) bool {
	i, ok := t.index[name]
	if !ok {
		return false
	}
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.cols); j++ {
		t.index[t.cols[j].Name] = j
	}
	return true
}

// Reorder rearranges the columns into the given order, which must name
// every column exactly once.
func (t *Table) Reorder(names []string) error {
	if len(names) != len(t.cols) {
		return errors.Newf(errors.ErrorTypeInternal,
			"reorder names %d columns, table has %d", len(names), len(t.cols))
	}
	cols := make([]*Column, 0, len(names))
	index := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return errors.Newf(errors.ErrorTypeInternal, "no column %s", name)
		}
		if _, dup := index[name]; dup {
			return errors.Newf(errors.ErrorTypeDuplicateFieldName,
				"column %s named twice in reorder", name)
		}
		index[name] = len(cols)
		cols = append(cols, t.cols[i])
	}
	t.cols = cols
	t.index = index
	return nil
}

// Clone deep-copies the table structure and cell slices. Cell values
// themselves are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.index)),
	}
	for i, col := range t.cols {
		c.cols[i] = col.Clone()
		c.index[col.Name] = i
	}
	return c
}

// AppendRows returns a new table holding this table's rows followed by
// the other's. The column set is the union: cells missing on either
// side are null-filled, and a column's dtype falls back to Object when
// the two sides disagree.
func (t *Table) AppendRows(o *Table) (*Table, error) {
	out := &Table{index: make(map[string]int)}
	nt, no := t.NumRows(), o.NumRows()

	appendCol := func(name string, dtype DType, a, b *Column) error {
		vals := make([]interface{}, 0, nt+no)
		if a != nil {
			vals = append(vals, a.Values...)
		} else {
			vals = append(vals, make([]interface{}, nt)...)
		}
		if b != nil {
			vals = append(vals, b.Values...)
		} else {
			vals = append(vals, make([]interface{}, no)...)
		}
		return out.AddColumn(&Column{Name: name, DType: dtype, Values: vals})
	}

	for _, c := range t.cols {
		other, ok := o.Column(c.Name)
		dtype := c.DType
		if ok && other.DType != c.DType {
			dtype = Object
		}
		if !ok {
			other = nil
		}
		if err := appendCol(c.Name, dtype, c, other); err != nil {
			return nil, err
		}
	}
	for _, c := range o.cols {
		if t.Has(c.Name) {
			continue
		}
		if err := appendCol(c.Name, c.DType, nil, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
