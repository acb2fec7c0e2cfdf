package pmm

import (
	"github.com/ajitpratap0/featherpmm/pkg/errors"
	pmmjson "github.com/ajitpratap0/featherpmm/pkg/json"
)

// The typed record model. Every metadata entity declares an ordered
// attribute table (required, then defaulted, then optional) and a generic
// builder constructs and validates instances from positional and named
// arguments. The tables are built once at package init; no reflection is
// involved anywhere.

type attrKind uint8

const (
	attrRequired attrKind = iota
	attrDefaulted
	attrOptional
)

type typeKind uint8

const (
	typeString typeKind = iota
	typeInt
	typeReal
	typeAny  // tagged-variant Value
	typeTags // ordered tag map
	typeRecord
	typeSeq // one-element sequence of elem
)

// attrType is a declared attribute type: a scalar kind, a nested record
// schema, or a sequence over another attrType.
type attrType struct {
	kind typeKind
	rec  *recordSchema
	elem *attrType
}

func stringType() attrType        { return attrType{kind: typeString} }
func intType() attrType           { return attrType{kind: typeInt} }
func realType() attrType          { return attrType{kind: typeReal} }
func anyType() attrType           { return attrType{kind: typeAny} }
func tagsType() attrType          { return attrType{kind: typeTags} }
func recordType(s *recordSchema) attrType {
	return attrType{kind: typeRecord, rec: s}
}
func seqOf(t attrType) attrType {
	elem := t
	return attrType{kind: typeSeq, elem: &elem}
}

// attr is one (name, kind, type) triple of an entity's schema table.
type attr struct {
	name string
	kind attrKind
	typ  attrType
	def  interface{} // stored-representation default, defaulted attrs only
}

// recordSchema is the per-entity attribute table, memoized at definition
// time with a name index and the positional argument order.
type recordSchema struct {
	entity     string
	attrs      []attr
	byName     map[string]int
	positional []string // required then defaulted names, declaration order
}

func newRecordSchema(entity string, attrs []attr) *recordSchema {
	s := &recordSchema{
		entity: entity,
		attrs:  attrs,
		byName: make(map[string]int, len(attrs)),
	}
	for i, a := range attrs {
		s.byName[a.name] = i
		if a.kind == attrRequired || a.kind == attrDefaulted {
			s.positional = append(s.positional, a.name)
		}
	}
	return s
}

// record is a constructed entity instance: the schema plus the present
// attributes in their stored representation (string, int64, float64,
// Value, *Tags, *record, []interface{}).
type record struct {
	schema *recordSchema
	vals   map[string]interface{}
}

// build constructs a record from positional and named arguments.
// Positional arguments are consumed in declaration order across required
// then defaulted attributes; named arguments win when both are supplied.
// Nil argument values are treated as absent.
func (s *recordSchema) build(args []interface{}, kwargs map[string]interface{}) (*record, error) {
	r := &record{schema: s, vals: make(map[string]interface{}, len(s.attrs))}

	if len(args) > len(s.positional) {
		return nil, errors.Newf(errors.ErrorTypeTooManyArguments,
			"%s takes at most %d positional arguments, %d given",
			s.entity, len(s.positional), len(args))
	}
	for i, v := range args {
		if v == nil {
			continue
		}
		if err := r.set(s.positional[i], v); err != nil {
			return nil, err
		}
	}

	// Named arguments override positional ones.
	for k, v := range kwargs {
		if v == nil {
			continue
		}
		if err := r.set(k, v); err != nil {
			return nil, err
		}
	}

	for _, a := range s.attrs {
		if a.kind == attrDefaulted {
			if _, ok := r.vals[a.name]; !ok && a.def != nil {
				if err := r.set(a.name, a.def); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, a := range s.attrs {
		if a.kind == attrRequired {
			if _, ok := r.vals[a.name]; !ok {
				return nil, errors.Newf(errors.ErrorTypeMissingRequiredAttribute,
					"%s missing required attribute %s", s.entity, a.name)
			}
		}
	}

	return r, nil
}

// set coerces v to the attribute's declared type and stores it.
func (r *record) set(name string, v interface{}) error {
	i, ok := r.schema.byName[name]
	if !ok {
		return errors.Newf(errors.ErrorTypeUnknownAttribute,
			"unknown attribute %s for %s", name, r.schema.entity)
	}
	coerced, err := coerce(v, r.schema.attrs[i].typ)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeTypeMismatch,
			"attribute "+name+" of "+r.schema.entity)
	}
	r.vals[name] = coerced
	return nil
}

func (r *record) get(name string) (interface{}, bool) {
	v, ok := r.vals[name]
	return v, ok
}

func (r *record) has(name string) bool {
	_, ok := r.vals[name]
	return ok
}

func (r *record) clear(name string) {
	delete(r.vals, name)
}

func (r *record) getString(name string) string {
	if v, ok := r.vals[name]; ok {
		return v.(string)
	}
	return ""
}

func (r *record) getInt(name string) int64 {
	if v, ok := r.vals[name]; ok {
		return v.(int64)
	}
	return 0
}

// coerce converts a supplied value to the stored representation of the
// declared type. Nested records are built recursively from plain wire
// maps so decoded documents construct transparently.
func coerce(v interface{}, t attrType) (interface{}, error) {
	switch t.kind {
	case typeSeq:
		var elems []interface{}
		switch seq := v.(type) {
		case []interface{}:
			elems = seq
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"expected sequence, got %T", v)
		}
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			c, err := coerce(e, *t.elem)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil

	case typeAny:
		return valueFromWire(v)

	case typeTags:
		switch tv := v.(type) {
		case *Tags:
			return tv, nil
		case map[string]interface{}:
			return tagsFromWire(tv)
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"expected tag map, got %T", v)
		}

	case typeRecord:
		switch rv := v.(type) {
		case *record:
			return rv, nil
		case map[string]interface{}:
			return t.rec.build(nil, rv)
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"expected %s, got %T", t.rec.entity, v)
		}

	case typeString:
		switch sv := v.(type) {
		case string:
			return sv, nil
		case []byte:
			return string(sv), nil
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"expected string, got %T", v)
		}

	case typeInt:
		switch iv := v.(type) {
		case int:
			return int64(iv), nil
		case int64:
			return iv, nil
		case float64:
			return int64(iv), nil
		case pmmjson.Number:
			if i, err := iv.Int64(); err == nil {
				return i, nil
			}
			f, err := iv.Float64()
			if err != nil {
				return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
					"malformed integer %q", string(iv))
			}
			return int64(f), nil
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"expected integer, got %T", v)
		}

	case typeReal:
		switch fv := v.(type) {
		case float64:
			return fv, nil
		case int:
			return float64(fv), nil
		case int64:
			return float64(fv), nil
		case pmmjson.Number:
			f, err := fv.Float64()
			if err != nil {
				return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
					"malformed real %q", string(fv))
			}
			return f, nil
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"expected real, got %T", v)
		}
	}

	return nil, errors.Newf(errors.ErrorTypeInternal, "unhandled type kind %d", t.kind)
}

// equal compares two records structurally: same schema, same present
// attributes, equal values.
func (r *record) equal(o *record) bool {
	if r.schema != o.schema || len(r.vals) != len(o.vals) {
		return false
	}
	for name, v := range r.vals {
		ov, ok := o.vals[name]
		if !ok || !storedEqual(v, ov) {
			return false
		}
	}
	return true
}

func storedEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case Value:
		bv, ok := b.(Value)
		return ok && av.Equal(bv)
	case *Tags:
		bv, ok := b.(*Tags)
		return ok && av.Equal(bv)
	case *record:
		bv, ok := b.(*record)
		return ok && av.equal(bv)
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !storedEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}
