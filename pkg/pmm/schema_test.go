package pmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
)

func TestFlatFileFormatDefaults(t *testing.T) {
	f := NewFlatFileFormat()
	assert.Equal(t, "UTF-8", f.Encoding())
	assert.Equal(t, ",", f.Separator())
	assert.Equal(t, `"`, f.Quote())
	assert.Equal(t, `\`, f.Escape())
	assert.Equal(t, "", f.NullMarker())
	assert.Equal(t, int64(1), f.HeaderRowCount())

	_, ok := f.DateFormat()
	assert.False(t, ok, "dateformat has no default")
}

func TestNewFieldValidation(t *testing.T) {
	f, err := NewField("age", TypeInteger, RoleIndependent, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "age", f.Name())
	assert.Equal(t, TypeInteger, f.Type())
	assert.Equal(t, RoleIndependent, f.Role())
	assert.Equal(t, 0, f.Tags().Len())

	_, err = NewField("age", FieldType("int32"), RoleIndependent, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownCanonicalType))
}

func TestBuildMissingRequired(t *testing.T) {
	_, err := fieldSchema.build(nil, map[string]interface{}{
		"name": "x",
		"type": "string",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingRequiredAttribute))
}

func TestBuildUnknownAttribute(t *testing.T) {
	_, err := statsSchema.build(nil, map[string]interface{}{"median": 3})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownAttribute))
}

func TestBuildTooManyArguments(t *testing.T) {
	_, err := dataSchema.build([]interface{}{nil, nil}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTooManyArguments))
}

func TestBuildNamedOverridesPositional(t *testing.T) {
	rec, err := flatFileFormatSchema.build(
		[]interface{}{"latin-1"},
		map[string]interface{}{"encoding": "UTF-16"})
	require.NoError(t, err)
	f := &FlatFileFormat{rec: rec}
	assert.Equal(t, "UTF-16", f.Encoding())
}

func TestBuildTypeMismatch(t *testing.T) {
	_, err := flatFileFormatSchema.build(nil, map[string]interface{}{
		"headerrowcount": "two",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestNewMetadataCounts(t *testing.T) {
	f1, err := NewField("a", TypeString, RoleUnspecified, nil, nil)
	require.NoError(t, err)
	f2, err := NewField("b", TypeReal, RoleDependent, nil, nil)
	require.NoError(t, err)

	m, err := NewMetadata("demo", 42, []*Field{f1, f2}, nil)
	require.NoError(t, err)
	assert.Equal(t, Version, m.PMMVersion())
	assert.Equal(t, int64(2), m.FieldCount())
	assert.Equal(t, []string{"a", "b"}, m.FieldNames())
}

func TestMetadataFieldMutation(t *testing.T) {
	f1, _ := NewField("a", TypeString, RoleUnspecified, nil, nil)
	m, err := NewMetadata("demo", 0, []*Field{f1}, nil)
	require.NoError(t, err)

	// Replacement in place keeps position and count.
	f1b, _ := NewField("a", TypeInteger, RoleIgnore, nil, nil)
	m.AddField(f1b)
	assert.Equal(t, int64(1), m.FieldCount())
	got, ok := m.Field("a")
	require.True(t, ok)
	assert.Equal(t, TypeInteger, got.Type())

	f2, _ := NewField("b", TypeBoolean, RoleUnspecified, nil, nil)
	m.AddField(f2)
	assert.Equal(t, int64(2), m.FieldCount())

	assert.True(t, m.RemoveField("a"))
	assert.False(t, m.RemoveField("a"))
	assert.Equal(t, []string{"b"}, m.FieldNames())
	assert.Equal(t, int64(1), m.FieldCount())
}

func TestSetFieldTagUnknownField(t *testing.T) {
	m, err := NewMetadata("demo", 0, nil, nil)
	require.NoError(t, err)
	err = m.SetFieldTag("ghost", TagUnique, BoolValue(true))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownAttribute))
}

func TestValidateDuplicateFieldName(t *testing.T) {
	f1, _ := NewField("x", TypeString, RoleUnspecified, nil, nil)
	f2, _ := NewField("x", TypeString, RoleUnspecified, nil, nil)
	m, err := NewMetadata("demo", 0, []*Field{f1, f2}, nil)
	require.NoError(t, err)
	err = m.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateFieldName))
}
