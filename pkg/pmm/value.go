package pmm

import (
	"sort"
	"strings"
	"time"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
	pmmjson "github.com/ajitpratap0/featherpmm/pkg/json"
	stringpool "github.com/ajitpratap0/featherpmm/pkg/strings"
)

// Kind identifies the active variant of a tag Value.
type Kind uint8

const (
	// KindNone is the absent/null value
	KindNone Kind = iota
	// KindBool is a boolean value
	KindBool
	// KindInt is an integer value
	KindInt
	// KindReal is a floating-point value
	KindReal
	// KindString is a text value
	KindString
	// KindDate is a date/time value
	KindDate
	// KindList is an ordered sequence of values
	KindList
	// KindMap is an ordered string-keyed map of values
	KindMap
)

// Value is the closed tagged-variant type used for free-form tag values
// and for the untyped stats attributes (min, max). Values nest: lists and
// maps hold further Values with string keys throughout.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	l    []Value
	m    *Tags
}

// NoneValue returns the null Value. The zero Value is also None.
func NoneValue() Value { return Value{} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// RealValue returns a floating-point Value.
func RealValue(f float64) Value { return Value{kind: KindReal, f: f} }

// StringValue returns a text Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// DateValue returns a date/time Value.
func DateValue(t time.Time) Value { return Value{kind: KindDate, t: t} }

// ListValue returns a sequence Value over the given elements.
func ListValue(elems ...Value) Value {
	return Value{kind: KindList, l: elems}
}

// MapValue returns a map Value over the given tag map.
func MapValue(t *Tags) Value {
	if t == nil {
		t = NewTags()
	}
	return Value{kind: KindMap, m: t}
}

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether the value is the null variant.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsBool returns the boolean payload and whether the variant matches.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload and whether the variant matches.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsReal returns the float payload and whether the variant matches.
func (v Value) AsReal() (float64, bool) { return v.f, v.kind == KindReal }

// AsString returns the text payload and whether the variant matches.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsDate returns the date payload and whether the variant matches.
func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == KindDate }

// AsList returns the sequence payload and whether the variant matches.
func (v Value) AsList() ([]Value, bool) { return v.l, v.kind == KindList }

// AsMap returns the map payload and whether the variant matches.
func (v Value) AsMap() (*Tags, bool) { return v.m, v.kind == KindMap }

// Equal reports structural equality. Map equality is key-set based; key
// order is a serialization concern, not an identity one.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindReal:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindDate:
		return v.t.Equal(o.t)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.m.Equal(o.m)
	}
	return false
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return stringpool.Sprintf("%d", v.i)
	case KindReal:
		return stringpool.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format(DefaultDateTagFormat)
	case KindList:
		parts := make([]string, len(v.l))
		for i, e := range v.l {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, 0, v.m.Len())
		v.m.Range(func(name string, val Value) bool {
			parts = append(parts, name+": "+val.String())
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "?"
}

// valueFromWire converts decoded wire data (or native Go scalars supplied
// by host applications) into a Value. Wire numbers arrive as json.Number
// and keep their integer/real distinction.
func valueFromWire(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NoneValue(), nil
	case Value:
		return v, nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case pmmjson.Number:
		if isIntegerLiteral(string(v)) {
			i, err := v.Int64()
			if err == nil {
				return IntValue(i), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, errors.Newf(errors.ErrorTypeTypeMismatch,
				"malformed number %q", string(v))
		}
		return RealValue(f), nil
	case int:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case float64:
		return RealValue(v), nil
	case time.Time:
		return DateValue(v), nil
	case []Value:
		return ListValue(v...), nil
	case []interface{}:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := valueFromWire(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return ListValue(elems...), nil
	case *Tags:
		return MapValue(v), nil
	case map[string]interface{}:
		t, err := tagsFromWire(v)
		if err != nil {
			return Value{}, err
		}
		return MapValue(t), nil
	default:
		return Value{}, errors.Newf(errors.ErrorTypeTypeMismatch,
			"unsupported tag value of type %T", raw)
	}
}

func isIntegerLiteral(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}

// sortedKeys returns the map's keys in lexicographic order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
