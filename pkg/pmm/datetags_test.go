package pmm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTagsConvertAroundSave(t *testing.T) {
	m, err := NewMetadata("dated", 0, nil, nil)
	require.NoError(t, err)

	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	m.SetTag("created", DateValue(created))

	text, err := m.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(text), `"created": "2020-01-02 03:04:05"`)
	assert.Contains(t, string(text), `"datetagformat": "2006-01-02 15:04:05"`)

	// The live document is restored after serialization.
	v, ok := m.Tags().Get("created")
	require.True(t, ok)
	d, isDate := v.AsDate()
	assert.True(t, isDate)
	assert.True(t, created.Equal(d))

	parsed, err := Parse(text)
	require.NoError(t, err)
	pv, _ := parsed.Tags().Get("created")
	pd, isDate := pv.AsDate()
	require.True(t, isDate)
	assert.True(t, created.Equal(pd))
}

func TestDateTagsCustomLayout(t *testing.T) {
	m, err := NewMetadata("dated", 0, nil, nil)
	require.NoError(t, err)
	m.SetDateTagFormat("2006/01/02")
	m.SetTag("asof", DateValue(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))

	text, err := m.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(text), `"asof": "2024/06/30"`)

	parsed, err := Parse(text)
	require.NoError(t, err)
	pv, _ := parsed.Tags().Get("asof")
	_, isDate := pv.AsDate()
	assert.True(t, isDate)
}

func TestDateTagsNested(t *testing.T) {
	m, err := NewMetadata("dated", 0, nil, nil)
	require.NoError(t, err)

	inner := NewTags()
	inner.Set("from", DateValue(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)))
	inner.Set("note", StringValue("window start"))
	m.SetTag("window", MapValue(inner))
	m.SetTag("milestones", ListValue(
		DateValue(time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)),
		IntValue(7),
	))

	text, err := m.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(text), `"from": "2021-03-01 00:00:00"`)
	assert.Contains(t, string(text), `"2021-04-01 00:00:00"`)

	// Conversion happened on copies; the originals still hold dates.
	wv, _ := m.Tags().Get("window")
	wt, _ := wv.AsMap()
	fv, _ := wt.Get("from")
	_, isDate := fv.AsDate()
	assert.True(t, isDate)

	parsed, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, m.Equal(parsed))
}

func TestNoDateTagsNoLayoutRecorded(t *testing.T) {
	m, err := NewMetadata("plain", 0, nil, nil)
	require.NoError(t, err)
	m.SetTag("label", StringValue("no dates here"))

	text, err := m.Canonical()
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(text), "datetagformat"))
	_, ok := m.DateTagFormat()
	assert.False(t, ok)
}

func TestInterpretLeavesNonDatesAlone(t *testing.T) {
	text := `{"pmmversion": "0.1", "name": "x", "recordcount": 0,
		"fieldcount": 0, "fields": [],
		"tags": {"when": "2022-05-06 07:08:09", "what": "maintenance"},
		"datetagformat": "2006-01-02 15:04:05"}`
	m, err := Parse([]byte(text))
	require.NoError(t, err)

	when, _ := m.Tags().Get("when")
	_, isDate := when.AsDate()
	assert.True(t, isDate)

	what, _ := m.Tags().Get("what")
	_, isString := what.AsString()
	assert.True(t, isString)
}
