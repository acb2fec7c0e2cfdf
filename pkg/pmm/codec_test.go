package pmm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
)

func buildSample(t *testing.T) *Metadata {
	t.Helper()

	stats := NewStats()
	stats.SetNullCount(0)

	fieldTags := NewTags()
	fieldTags.Set(TagCategorical, BoolValue(true))

	f, err := NewField("flag", TypeBoolean, RoleUnspecified, fieldTags, stats)
	require.NoError(t, err)

	tags := NewTags()
	tags.Set("b", IntValue(2))
	tags.Set("a", StringValue("z"))

	m, err := NewMetadata("notes", 3, []*Field{f}, tags)
	require.NoError(t, err)
	return m
}

func TestCanonicalText(t *testing.T) {
	m := buildSample(t)
	got, err := m.Canonical()
	require.NoError(t, err)

	want := strings.Join([]string{
		`{`,
		`    "pmmversion": "0.1",`,
		`    "name": "notes",`,
		`    "recordcount": 3,`,
		`    "fieldcount": 1,`,
		`    "fields": [`,
		`        {`,
		`            "name": "flag",`,
		`            "type": "boolean",`,
		`            "role": "",`,
		`            "tags": {`,
		`                "categorical": true`,
		`            },`,
		`            "stats": {`,
		`                "nnulls": 0`,
		`            }`,
		`        }`,
		`    ],`,
		`    "tags": {`,
		`        "a": "z",`,
		`        "b": 2`,
		`    }`,
		`}`,
	}, "\n")
	assert.Equal(t, want, string(got))
}

func TestCanonicalRoundTrip(t *testing.T) {
	m := buildSample(t)
	m.SetDescription("round trip sample")
	m.SetTag("ratio", RealValue(0.5))
	m.SetTag("count", RealValue(2)) // integral real keeps its .0

	text, err := m.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(text), `"ratio": 0.5`)
	assert.Contains(t, string(text), `"count": 2.0`)

	parsed, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, m.Equal(parsed), "decode(encode(m)) must equal m")

	resaved, err := parsed.Canonical()
	require.NoError(t, err)
	assert.Equal(t, string(text), string(resaved), "resave must be byte identical")
}

func TestCanonicalSortsTags(t *testing.T) {
	m := buildSample(t)
	_, err := m.Canonical()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Tags().Keys())
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		errType errors.ErrorType
	}{
		{
			name:    "malformed json",
			text:    `{"pmmversion": `,
			errType: errors.ErrorTypeFile,
		},
		{
			name:    "non-object root",
			text:    `[1, 2]`,
			errType: errors.ErrorTypeTypeMismatch,
		},
		{
			name: "field count mismatch",
			text: `{"pmmversion": "0.1", "name": "x", "recordcount": 0,
				"fieldcount": 2, "fields": [], "tags": {}}`,
			errType: errors.ErrorTypeFieldCountMismatch,
		},
		{
			name: "unsupported version",
			text: `{"pmmversion": "0.2", "name": "x", "recordcount": 0,
				"fieldcount": 0, "fields": [], "tags": {}}`,
			errType: errors.ErrorTypeUnsupportedFormatVersion,
		},
		{
			name: "unknown attribute",
			text: `{"pmmversion": "0.1", "name": "x", "recordcount": 0,
				"fieldcount": 0, "fields": [], "tags": {}, "color": "red"}`,
			errType: errors.ErrorTypeUnknownAttribute,
		},
		{
			name: "missing required attribute",
			text: `{"pmmversion": "0.1", "recordcount": 0,
				"fieldcount": 0, "fields": [], "tags": {}}`,
			errType: errors.ErrorTypeMissingRequiredAttribute,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.text))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tc.errType),
				"want %s, got %v", tc.errType, err)
		})
	}
}

func TestParsePreservesIntegerRealDistinction(t *testing.T) {
	text := `{"pmmversion": "0.1", "name": "x", "recordcount": 0,
		"fieldcount": 0, "fields": [], "tags": {"i": 7, "r": 7.0}}`
	m, err := Parse([]byte(text))
	require.NoError(t, err)

	iv, _ := m.Tags().Get("i")
	_, isInt := iv.AsInt()
	assert.True(t, isInt)

	rv, _ := m.Tags().Get("r")
	_, isReal := rv.AsReal()
	assert.True(t, isReal)
}

func TestWideDocumentRoundTrip(t *testing.T) {
	types := []FieldType{
		TypeInteger, TypeString, TypeReal, TypeBoolean, TypeBoolean,
		TypeString, TypeBoolean, TypeString, TypeString, TypeBoolean,
		TypeBoolean, TypeReal,
	}
	fields := make([]*Field, len(types))
	for i, typ := range types {
		f, err := NewField(fmt.Sprintf("col%02d", i), typ, RoleIndependent, nil, nil)
		require.NoError(t, err)
		fields[i] = f
	}
	m, err := NewMetadata("wide", 64000, fields, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), m.FieldCount())

	text, err := m.Canonical()
	require.NoError(t, err)

	parsed, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, m.Equal(parsed))
	assert.Equal(t, int64(64000), parsed.RecordCount())

	resaved, err := parsed.Canonical()
	require.NoError(t, err)
	assert.Equal(t, string(text), string(resaved))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pmm")

	m := buildSample(t)
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.HasSuffix(string(data), "\n"), "no trailing newline")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, m.Equal(loaded))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.pmm"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestSaveValidatesFirst(t *testing.T) {
	f1, _ := NewField("x", TypeString, RoleUnspecified, nil, nil)
	f2, _ := NewField("x", TypeString, RoleUnspecified, nil, nil)
	m, err := NewMetadata("demo", 0, []*Field{f1, f2}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "demo.pmm")
	err = m.Save(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateFieldName))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "invalid document must not be written")
}
