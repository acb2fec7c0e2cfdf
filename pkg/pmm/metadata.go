package pmm

import (
	"github.com/ajitpratap0/featherpmm/pkg/errors"
)

// Version is the single supported sidecar format version.
const Version = "0.1"

// DefaultDateTagFormat is the layout used for date-valued tags when the
// metadata does not declare one.
const DefaultDateTagFormat = "2006-01-02 15:04:05"

// FieldType is one of the five canonical column types the format tracks,
// independent of physical storage representation.
type FieldType string

const (
	// TypeBoolean marks a logically boolean column
	TypeBoolean FieldType = "boolean"
	// TypeInteger marks a conceptually integral column, even when storage
	// has widened it to floating point
	TypeInteger FieldType = "integer"
	// TypeReal marks a floating-point column
	TypeReal FieldType = "real"
	// TypeString marks a text column
	TypeString FieldType = "string"
	// TypeDatestamp marks a date/time column
	TypeDatestamp FieldType = "datestamp"
)

// FieldTypes lists the closed canonical type set.
var FieldTypes = []FieldType{TypeBoolean, TypeInteger, TypeReal, TypeString, TypeDatestamp}

// ValidFieldType reports whether t is in the canonical type set.
func ValidFieldType(t FieldType) bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// Role describes how a field participates in modelling.
type Role string

const (
	// RoleIndependent is a left-hand side predictor
	RoleIndependent Role = "independent"
	// RoleDependent is a right-hand side outcome
	RoleDependent Role = "dependent"
	// RoleTreatment specifies which treatment, if any
	RoleTreatment Role = "treatment"
	// RoleWeight is a weight field of some kind
	RoleWeight Role = "weight"
	// RoleAuxiliary is an auxiliary field, e.g. a value field
	RoleAuxiliary Role = "auxiliary"
	// RoleValidation specifies a cross-validation partition
	RoleValidation Role = "validation"
	// RoleIgnore marks a field to be ignored
	RoleIgnore Role = "ignore"
	// RoleUnspecified is the default empty role
	RoleUnspecified Role = ""
)

// Roles lists the fixed role enumeration.
var Roles = []Role{
	RoleIndependent, RoleDependent, RoleTreatment, RoleWeight,
	RoleAuxiliary, RoleValidation, RoleIgnore, RoleUnspecified,
}

// Well-known tag names.
const (
	TagCategorical = "categorical"
	TagOrdinal     = "ordinal"
	TagUnique      = "unique"
	TagMaximize    = "maximize"
	TagMinimize    = "minimize"
)

// Per-entity schema tables, computed once at definition time.
var (
	flatFileFormatSchema = newRecordSchema("FlatFileFormat", []attr{
		{name: "encoding", kind: attrDefaulted, typ: stringType(), def: "UTF-8"},
		{name: "separator", kind: attrDefaulted, typ: stringType(), def: ","},
		{name: "quote", kind: attrDefaulted, typ: stringType(), def: `"`},
		{name: "escape", kind: attrDefaulted, typ: stringType(), def: `\`},
		{name: "nullmarker", kind: attrDefaulted, typ: stringType(), def: ""},
		{name: "headerrowcount", kind: attrDefaulted, typ: intType(), def: int64(1)},
		{name: "dateformat", kind: attrOptional, typ: stringType()},
	})

	flatFileSchema = newRecordSchema("FlatFile", []attr{
		{name: "name", kind: attrRequired, typ: stringType()},
		{name: "format", kind: attrRequired, typ: recordType(flatFileFormatSchema)},
	})

	dataSchema = newRecordSchema("Data", []attr{
		{name: "flatfile", kind: attrRequired, typ: recordType(flatFileSchema)},
	})

	statsSchema = newRecordSchema("Stats", []attr{
		{name: "nnulls", kind: attrOptional, typ: intType()},
		{name: "nuniques", kind: attrOptional, typ: intType()},
		{name: "min", kind: attrOptional, typ: anyType()},
		{name: "max", kind: attrOptional, typ: anyType()},
		{name: "mean", kind: attrOptional, typ: realType()},
	})

	fieldSchema = newRecordSchema("Field", []attr{
		{name: "name", kind: attrRequired, typ: stringType()},
		{name: "type", kind: attrRequired, typ: stringType()},
		{name: "role", kind: attrRequired, typ: stringType()},
		{name: "tags", kind: attrRequired, typ: tagsType()},
		{name: "stats", kind: attrRequired, typ: recordType(statsSchema)},
		{name: "values", kind: attrOptional, typ: seqOf(anyType())},
		{name: "longname", kind: attrOptional, typ: stringType()},
		{name: "description", kind: attrOptional, typ: stringType()},
	})

	metadataSchema = newRecordSchema("Metadata", []attr{
		{name: "pmmversion", kind: attrRequired, typ: stringType()},
		{name: "name", kind: attrRequired, typ: stringType()},
		{name: "recordcount", kind: attrRequired, typ: intType()},
		{name: "fieldcount", kind: attrRequired, typ: intType()},
		{name: "fields", kind: attrRequired, typ: seqOf(recordType(fieldSchema))},
		{name: "tags", kind: attrRequired, typ: tagsType()},
		{name: "data", kind: attrOptional, typ: recordType(dataSchema)},
		{name: "description", kind: attrOptional, typ: stringType()},
		{name: "creator", kind: attrOptional, typ: stringType()},
		{name: "contributor", kind: attrOptional, typ: stringType()},
		{name: "permissions", kind: attrOptional, typ: stringType()},
		{name: "datetagformat", kind: attrOptional, typ: stringType()},
	})
)

// FlatFileFormat describes the physical shape of the flat file a dataset
// was originally derived from. Purely informational.
type FlatFileFormat struct{ rec *record }

// NewFlatFileFormat creates a format descriptor with the standard
// defaults (UTF-8, comma separated, one header row).
func NewFlatFileFormat() *FlatFileFormat {
	rec, err := flatFileFormatSchema.build(nil, nil)
	if err != nil {
		panic(err) // no required attrs; cannot fail
	}
	return &FlatFileFormat{rec: rec}
}

// Encoding returns the file encoding.
func (f *FlatFileFormat) Encoding() string { return f.rec.getString("encoding") }

// SetEncoding sets the file encoding.
func (f *FlatFileFormat) SetEncoding(v string) { _ = f.rec.set("encoding", v) }

// Separator returns the field separator.
func (f *FlatFileFormat) Separator() string { return f.rec.getString("separator") }

// SetSeparator sets the field separator.
func (f *FlatFileFormat) SetSeparator(v string) { _ = f.rec.set("separator", v) }

// Quote returns the quote character.
func (f *FlatFileFormat) Quote() string { return f.rec.getString("quote") }

// SetQuote sets the quote character.
func (f *FlatFileFormat) SetQuote(v string) { _ = f.rec.set("quote", v) }

// Escape returns the escape character.
func (f *FlatFileFormat) Escape() string { return f.rec.getString("escape") }

// SetEscape sets the escape character.
func (f *FlatFileFormat) SetEscape(v string) { _ = f.rec.set("escape", v) }

// NullMarker returns the null marker string.
func (f *FlatFileFormat) NullMarker() string { return f.rec.getString("nullmarker") }

// SetNullMarker sets the null marker string.
func (f *FlatFileFormat) SetNullMarker(v string) { _ = f.rec.set("nullmarker", v) }

// HeaderRowCount returns the number of header rows.
func (f *FlatFileFormat) HeaderRowCount() int64 { return f.rec.getInt("headerrowcount") }

// SetHeaderRowCount sets the number of header rows.
func (f *FlatFileFormat) SetHeaderRowCount(n int64) { _ = f.rec.set("headerrowcount", n) }

// DateFormat returns the declared date format, if any.
func (f *FlatFileFormat) DateFormat() (string, bool) {
	v, ok := f.rec.get("dateformat")
	if !ok {
		return "", false
	}
	return v.(string), true
}

// SetDateFormat sets the declared date format.
func (f *FlatFileFormat) SetDateFormat(v string) { _ = f.rec.set("dateformat", v) }

// FlatFile names a source flat file and its format.
type FlatFile struct{ rec *record }

// NewFlatFile creates a flat file descriptor.
func NewFlatFile(name string, format *FlatFileFormat) (*FlatFile, error) {
	if format == nil {
		format = NewFlatFileFormat()
	}
	rec, err := flatFileSchema.build([]interface{}{name, format.rec}, nil)
	if err != nil {
		return nil, err
	}
	return &FlatFile{rec: rec}, nil
}

// Name returns the flat file name.
func (f *FlatFile) Name() string { return f.rec.getString("name") }

// Format returns the flat file format descriptor.
func (f *FlatFile) Format() *FlatFileFormat {
	v, _ := f.rec.get("format")
	return &FlatFileFormat{rec: v.(*record)}
}

// Data is the provenance descriptor for the file a dataset was derived
// from. Never validated against the live table.
type Data struct{ rec *record }

// NewData creates a provenance descriptor around a flat file.
func NewData(flatfile *FlatFile) (*Data, error) {
	if flatfile == nil {
		return nil, errors.New(errors.ErrorTypeMissingRequiredAttribute,
			"Data missing required attribute flatfile")
	}
	rec, err := dataSchema.build([]interface{}{flatfile.rec}, nil)
	if err != nil {
		return nil, err
	}
	return &Data{rec: rec}, nil
}

// FlatFile returns the described flat file.
func (d *Data) FlatFile() *FlatFile {
	v, _ := d.rec.get("flatfile")
	return &FlatFile{rec: v.(*record)}
}

// Stats is an optional per-field summary. All attributes are optional.
type Stats struct{ rec *record }

// NewStats creates an empty stats record.
func NewStats() *Stats {
	rec, err := statsSchema.build(nil, nil)
	if err != nil {
		panic(err) // no required attrs; cannot fail
	}
	return &Stats{rec: rec}
}

// NullCount returns the null count, if recorded.
func (s *Stats) NullCount() (int64, bool) {
	v, ok := s.rec.get("nnulls")
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// SetNullCount records the null count.
func (s *Stats) SetNullCount(n int64) { _ = s.rec.set("nnulls", n) }

// UniqueCount returns the unique count, if recorded.
func (s *Stats) UniqueCount() (int64, bool) {
	v, ok := s.rec.get("nuniques")
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// SetUniqueCount records the unique count.
func (s *Stats) SetUniqueCount(n int64) { _ = s.rec.set("nuniques", n) }

// Min returns the recorded minimum, if any.
func (s *Stats) Min() (Value, bool) {
	v, ok := s.rec.get("min")
	if !ok {
		return Value{}, false
	}
	return v.(Value), true
}

// SetMin records the minimum.
func (s *Stats) SetMin(v Value) { _ = s.rec.set("min", v) }

// Max returns the recorded maximum, if any.
func (s *Stats) Max() (Value, bool) {
	v, ok := s.rec.get("max")
	if !ok {
		return Value{}, false
	}
	return v.(Value), true
}

// SetMax records the maximum.
func (s *Stats) SetMax(v Value) { _ = s.rec.set("max", v) }

// Mean returns the recorded mean, if any.
func (s *Stats) Mean() (float64, bool) {
	v, ok := s.rec.get("mean")
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// SetMean records the mean.
func (s *Stats) SetMean(f float64) { _ = s.rec.set("mean", f) }

// Field is the column-level descriptor.
type Field struct{ rec *record }

// NewField creates a field descriptor. Nil tags or stats become empty
// ones. The type must be one of the five canonical types.
func NewField(name string, typ FieldType, role Role, tags *Tags, stats *Stats) (*Field, error) {
	if !ValidFieldType(typ) {
		return nil, errors.Newf(errors.ErrorTypeUnknownCanonicalType,
			"unknown type %s for field %s", typ, name)
	}
	if tags == nil {
		tags = NewTags()
	}
	if stats == nil {
		stats = NewStats()
	}
	rec, err := fieldSchema.build(
		[]interface{}{name, string(typ), string(role), tags, stats.rec}, nil)
	if err != nil {
		return nil, err
	}
	return &Field{rec: rec}, nil
}

// Name returns the field name.
func (f *Field) Name() string { return f.rec.getString("name") }

// Type returns the canonical type.
func (f *Field) Type() FieldType { return FieldType(f.rec.getString("type")) }

// SetType declares the canonical type.
func (f *Field) SetType(t FieldType) error {
	if !ValidFieldType(t) {
		return errors.Newf(errors.ErrorTypeUnknownCanonicalType,
			"unknown type %s for field %s", t, f.Name())
	}
	return f.rec.set("type", string(t))
}

// Role returns the field role.
func (f *Field) Role() Role { return Role(f.rec.getString("role")) }

// SetRole sets the field role.
func (f *Field) SetRole(r Role) { _ = f.rec.set("role", string(r)) }

// Tags returns the field's tag map. The field owns it; mutations are
// visible on the field.
func (f *Field) Tags() *Tags {
	v, _ := f.rec.get("tags")
	return v.(*Tags)
}

// SetTag sets a tag on the field.
func (f *Field) SetTag(name string, v Value) {
	f.Tags().Set(name, v)
}

// Stats returns the field's stats record.
func (f *Field) Stats() *Stats {
	v, _ := f.rec.get("stats")
	return &Stats{rec: v.(*record)}
}

// SetStats replaces the field's stats record.
func (f *Field) SetStats(s *Stats) {
	if s == nil {
		s = NewStats()
	}
	_ = f.rec.set("stats", s.rec)
}

// Values returns the sample values list, if present.
func (f *Field) Values() ([]Value, bool) {
	raw, ok := f.rec.get("values")
	if !ok {
		return nil, false
	}
	stored := raw.([]interface{})
	out := make([]Value, len(stored))
	for i, v := range stored {
		out[i] = v.(Value)
	}
	return out, true
}

// SetValues records sample values for the field.
func (f *Field) SetValues(vals []Value) {
	stored := make([]interface{}, len(vals))
	for i, v := range vals {
		stored[i] = v
	}
	f.rec.vals["values"] = stored
}

// LongName returns the long name, if present.
func (f *Field) LongName() (string, bool) {
	v, ok := f.rec.get("longname")
	if !ok {
		return "", false
	}
	return v.(string), true
}

// SetLongName sets the long name.
func (f *Field) SetLongName(s string) { _ = f.rec.set("longname", s) }

// Description returns the description, if present.
func (f *Field) Description() (string, bool) {
	v, ok := f.rec.get("description")
	if !ok {
		return "", false
	}
	return v.(string), true
}

// SetDescription sets the description.
func (f *Field) SetDescription(s string) { _ = f.rec.set("description", s) }

// Equal reports structural equality with another field.
func (f *Field) Equal(o *Field) bool { return f.rec.equal(o.rec) }

// Metadata is the dataset-level descriptor: format version, identity,
// counts, the ordered field list, free-form tags and optional provenance.
type Metadata struct{ rec *record }

// NewMetadata creates a descriptor for a dataset. The format version and
// field count are filled in automatically.
func NewMetadata(name string, recordCount int64, fields []*Field, tags *Tags) (*Metadata, error) {
	if tags == nil {
		tags = NewTags()
	}
	fieldRecs := make([]interface{}, len(fields))
	for i, f := range fields {
		fieldRecs[i] = f.rec
	}
	rec, err := metadataSchema.build([]interface{}{
		Version, name, recordCount, int64(len(fields)), fieldRecs, tags,
	}, nil)
	if err != nil {
		return nil, err
	}
	m := &Metadata{rec: rec}
	if err := m.checkCounts(); err != nil {
		return nil, err
	}
	return m, nil
}

// metadataFromWire constructs a Metadata from a decoded wire document and
// enforces the load-time invariants.
func metadataFromWire(raw map[string]interface{}) (*Metadata, error) {
	rec, err := metadataSchema.build(nil, raw)
	if err != nil {
		return nil, err
	}
	m := &Metadata{rec: rec}
	if err := m.checkCounts(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metadata) checkCounts() error {
	if m.FieldCount() != int64(len(m.fieldRecs())) {
		return errors.Newf(errors.ErrorTypeFieldCountMismatch,
			"fieldcount %d does not match %d fields",
			m.FieldCount(), len(m.fieldRecs()))
	}
	if m.PMMVersion() != Version {
		return errors.Newf(errors.ErrorTypeUnsupportedFormatVersion,
			"cannot handle pmmversion %s (supported: %s)", m.PMMVersion(), Version)
	}
	return nil
}

// PMMVersion returns the declared format version.
func (m *Metadata) PMMVersion() string { return m.rec.getString("pmmversion") }

// Name returns the dataset name.
func (m *Metadata) Name() string { return m.rec.getString("name") }

// SetName sets the dataset name.
func (m *Metadata) SetName(s string) { _ = m.rec.set("name", s) }

// RecordCount returns the declared record count.
func (m *Metadata) RecordCount() int64 { return m.rec.getInt("recordcount") }

// SetRecordCount sets the declared record count.
func (m *Metadata) SetRecordCount(n int64) { _ = m.rec.set("recordcount", n) }

// FieldCount returns the declared field count. It always matches the
// length of the field list; mutators keep it in step.
func (m *Metadata) FieldCount() int64 { return m.rec.getInt("fieldcount") }

func (m *Metadata) fieldRecs() []interface{} {
	v, _ := m.rec.get("fields")
	return v.([]interface{})
}

func (m *Metadata) setFieldRecs(recs []interface{}) {
	m.rec.vals["fields"] = recs
	m.rec.vals["fieldcount"] = int64(len(recs))
}

// Fields returns the ordered field descriptors. The returned wrappers
// share state with the metadata; mutating a field mutates the document.
func (m *Metadata) Fields() []*Field {
	recs := m.fieldRecs()
	out := make([]*Field, len(recs))
	for i, r := range recs {
		out[i] = &Field{rec: r.(*record)}
	}
	return out
}

// Field returns the named field descriptor, if declared.
func (m *Metadata) Field(name string) (*Field, bool) {
	for _, r := range m.fieldRecs() {
		f := &Field{rec: r.(*record)}
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names in order.
func (m *Metadata) FieldNames() []string {
	recs := m.fieldRecs()
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = (&Field{rec: r.(*record)}).Name()
	}
	return names
}

// AddField declares a field: an existing field with the same name is
// replaced in place, otherwise the field is appended.
func (m *Metadata) AddField(f *Field) {
	recs := m.fieldRecs()
	for i, r := range recs {
		if (&Field{rec: r.(*record)}).Name() == f.Name() {
			recs[i] = f.rec
			m.setFieldRecs(recs)
			return
		}
	}
	m.setFieldRecs(append(recs, f.rec))
}

// RemoveField deletes the named field, reporting whether it was present.
func (m *Metadata) RemoveField(name string) bool {
	recs := m.fieldRecs()
	for i, r := range recs {
		if (&Field{rec: r.(*record)}).Name() == name {
			m.setFieldRecs(append(recs[:i], recs[i+1:]...))
			return true
		}
	}
	return false
}

// SetFields replaces the whole field list, updating fieldcount.
func (m *Metadata) SetFields(fields []*Field) {
	recs := make([]interface{}, len(fields))
	for i, f := range fields {
		recs[i] = f.rec
	}
	m.setFieldRecs(recs)
}

// Tags returns the dataset-level tag map. The metadata owns it.
func (m *Metadata) Tags() *Tags {
	v, _ := m.rec.get("tags")
	return v.(*Tags)
}

// SetTag sets a dataset-level tag.
func (m *Metadata) SetTag(name string, v Value) {
	m.Tags().Set(name, v)
}

// SetFieldTag sets a tag on the named field. The field must already be
// declared.
func (m *Metadata) SetFieldTag(fieldName, tagName string, v Value) error {
	f, ok := m.Field(fieldName)
	if !ok {
		return errors.Newf(errors.ErrorTypeUnknownAttribute,
			"no field %s in metadata for %s", fieldName, m.Name())
	}
	f.SetTag(tagName, v)
	return nil
}

// Data returns the provenance descriptor, if present.
func (m *Metadata) Data() (*Data, bool) {
	v, ok := m.rec.get("data")
	if !ok {
		return nil, false
	}
	return &Data{rec: v.(*record)}, true
}

// SetData attaches a provenance descriptor.
func (m *Metadata) SetData(d *Data) { _ = m.rec.set("data", d.rec) }

// Description returns the dataset description, if present.
func (m *Metadata) Description() (string, bool) { return m.optString("description") }

// SetDescription sets the dataset description.
func (m *Metadata) SetDescription(s string) { _ = m.rec.set("description", s) }

// Creator returns the creator, if present.
func (m *Metadata) Creator() (string, bool) { return m.optString("creator") }

// SetCreator sets the creator.
func (m *Metadata) SetCreator(s string) { _ = m.rec.set("creator", s) }

// Contributor returns the contributor, if present.
func (m *Metadata) Contributor() (string, bool) { return m.optString("contributor") }

// SetContributor sets the contributor.
func (m *Metadata) SetContributor(s string) { _ = m.rec.set("contributor", s) }

// Permissions returns the permissions string, if present.
func (m *Metadata) Permissions() (string, bool) { return m.optString("permissions") }

// SetPermissions sets the permissions string.
func (m *Metadata) SetPermissions(s string) { _ = m.rec.set("permissions", s) }

// DateTagFormat returns the recorded date-tag layout, if any.
func (m *Metadata) DateTagFormat() (string, bool) { return m.optString("datetagformat") }

// SetDateTagFormat records the date-tag layout.
func (m *Metadata) SetDateTagFormat(layout string) { _ = m.rec.set("datetagformat", layout) }

func (m *Metadata) optString(name string) (string, bool) {
	v, ok := m.rec.get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Validate checks the document invariants: supported version, field
// count consistency, unique field names, canonical field types.
func (m *Metadata) Validate() error {
	if err := m.checkCounts(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(m.fieldRecs()))
	for _, f := range m.Fields() {
		if !ValidFieldType(f.Type()) {
			return errors.Newf(errors.ErrorTypeUnknownCanonicalType,
				"unknown type %s for field %s", f.Type(), f.Name())
		}
		if seen[f.Name()] {
			return errors.Newf(errors.ErrorTypeDuplicateFieldName,
				"field name %s is not unique", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// Equal reports structural equality with another metadata document.
func (m *Metadata) Equal(o *Metadata) bool { return m.rec.equal(o.rec) }

// sortAllTags orders the dataset-level and every field's tag map
// lexicographically, the order the canonical form is written in.
func (m *Metadata) sortAllTags() {
	m.Tags().SortKeys()
	for _, f := range m.Fields() {
		f.Tags().SortKeys()
	}
}
