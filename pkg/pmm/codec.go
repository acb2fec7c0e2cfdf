package pmm

import (
	"bytes"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
	pmmjson "github.com/ajitpratap0/featherpmm/pkg/json"
	"github.com/ajitpratap0/featherpmm/pkg/pool"
)

// Canonical serialization. A document is written by walking each
// record's attribute table in declared order (required, defaulted,
// optional), emitting every present attribute. Indentation is fixed at
// four spaces, tag keys are sorted, no line carries trailing whitespace
// and there is no trailing newline, so two logically identical documents
// produce byte-identical text.

const canonicalIndent = "    "

// Canonical renders the document to its canonical UTF-8 text form.
// Date-valued tags are transiently converted to strings around the walk;
// the in-memory document is unchanged afterwards except that tag maps
// end up in sorted key order.
func (m *Metadata) Canonical() ([]byte, error) {
	undo := m.convertDateTags()
	defer undo.restore()
	m.sortAllTags()

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	w := &canonicalWriter{buf: buf, layout: m.dateTagLayout()}
	if err := w.writeRecord(m.rec, 0); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Parse decodes canonical (or any equivalent JSON) text into a Metadata
// document, enforcing the load-time invariants and re-interpreting date
// tags.
func Parse(data []byte) (*Metadata, error) {
	raw, err := pmmjson.DecodeValue(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "malformed sidecar document")
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
			"sidecar document must be an object, got %T", raw)
	}
	m, err := metadataFromWire(doc)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.interpretDateTags()
	return m, nil
}

// Load reads and parses a sidecar file.
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading sidecar "+path)
	}
	return Parse(data)
}

// Save validates the document and writes its canonical text to path.
func (m *Metadata) Save(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	text, err := m.Canonical()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, text, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing sidecar "+path)
	}
	return nil
}

type canonicalWriter struct {
	buf    *bytes.Buffer
	layout string
}

func (w *canonicalWriter) indent(depth int) {
	for i := 0; i < depth; i++ {
		w.buf.WriteString(canonicalIndent)
	}
}

func (w *canonicalWriter) writeRecord(r *record, depth int) error {
	type entry struct {
		name string
		val  interface{}
	}
	present := make([]entry, 0, len(r.schema.attrs))
	for _, a := range r.schema.attrs {
		if v, ok := r.vals[a.name]; ok {
			present = append(present, entry{name: a.name, val: v})
		}
	}
	if len(present) == 0 {
		w.buf.WriteString("{}")
		return nil
	}

	w.buf.WriteString("{\n")
	for i, e := range present {
		w.indent(depth + 1)
		if err := w.writeKey(e.name); err != nil {
			return err
		}
		if err := w.writeStored(e.val, depth+1); err != nil {
			return err
		}
		if i < len(present)-1 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteByte('\n')
	}
	w.indent(depth)
	w.buf.WriteByte('}')
	return nil
}

func (w *canonicalWriter) writeKey(name string) error {
	if err := w.writeString(name); err != nil {
		return err
	}
	w.buf.WriteString(": ")
	return nil
}

func (w *canonicalWriter) writeStored(v interface{}, depth int) error {
	switch sv := v.(type) {
	case string:
		return w.writeString(sv)
	case int64:
		w.buf.WriteString(strconv.FormatInt(sv, 10))
		return nil
	case float64:
		w.writeReal(sv)
		return nil
	case Value:
		return w.writeVariant(sv, depth)
	case *Tags:
		return w.writeTags(sv, depth)
	case *record:
		return w.writeRecord(sv, depth)
	case []interface{}:
		return w.writeSeq(sv, depth)
	}
	return errors.Newf(errors.ErrorTypeInternal, "unserializable value of type %T", v)
}

func (w *canonicalWriter) writeSeq(elems []interface{}, depth int) error {
	if len(elems) == 0 {
		w.buf.WriteString("[]")
		return nil
	}
	w.buf.WriteString("[\n")
	for i, e := range elems {
		w.indent(depth + 1)
		if err := w.writeStored(e, depth+1); err != nil {
			return err
		}
		if i < len(elems)-1 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteByte('\n')
	}
	w.indent(depth)
	w.buf.WriteByte(']')
	return nil
}

func (w *canonicalWriter) writeTags(t *Tags, depth int) error {
	if t.Len() == 0 {
		w.buf.WriteString("{}")
		return nil
	}
	w.buf.WriteString("{\n")
	keys := t.Keys()
	for i, k := range keys {
		v, _ := t.Get(k)
		w.indent(depth + 1)
		if err := w.writeKey(k); err != nil {
			return err
		}
		if err := w.writeVariant(v, depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			w.buf.WriteByte(',')
		}
		w.buf.WriteByte('\n')
	}
	w.indent(depth)
	w.buf.WriteByte('}')
	return nil
}

func (w *canonicalWriter) writeVariant(v Value, depth int) error {
	switch v.Kind() {
	case KindNone:
		w.buf.WriteString("null")
	case KindBool:
		b, _ := v.AsBool()
		if b {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case KindInt:
		i, _ := v.AsInt()
		w.buf.WriteString(strconv.FormatInt(i, 10))
	case KindReal:
		f, _ := v.AsReal()
		w.writeReal(f)
	case KindString:
		s, _ := v.AsString()
		return w.writeString(s)
	case KindDate:
		// Dates are normally converted before the walk; render any
		// straggler with the active layout.
		d, _ := v.AsDate()
		return w.writeString(d.Format(w.layout))
	case KindList:
		elems, _ := v.AsList()
		if len(elems) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteString("[\n")
		for i, e := range elems {
			w.indent(depth + 1)
			if err := w.writeVariant(e, depth+1); err != nil {
				return err
			}
			if i < len(elems)-1 {
				w.buf.WriteByte(',')
			}
			w.buf.WriteByte('\n')
		}
		w.indent(depth)
		w.buf.WriteByte(']')
	case KindMap:
		t, _ := v.AsMap()
		return w.writeTags(t, depth)
	}
	return nil
}

func (w *canonicalWriter) writeString(s string) error {
	enc, err := pmmjson.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "encoding string")
	}
	w.buf.Write(enc)
	return nil
}

// writeReal keeps the integer/real distinction on the wire: integral
// floats carry a trailing .0 so they decode back as reals.
func (w *canonicalWriter) writeReal(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.buf.WriteString("null")
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	w.buf.WriteString(s)
}
