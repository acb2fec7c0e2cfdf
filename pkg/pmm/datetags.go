package pmm

import "time"

// Date tag transcoding. Date-valued tags cannot ride the wire directly,
// so they are rendered to strings with the metadata's date-tag layout
// just before serialization and the original in-memory values are put
// back immediately after. On load the transform runs the other way,
// opportunistically: any string tag that parses under the recorded (or
// default) layout becomes a date, and anything else stays a string.

// tagUndo records the top-level tag values replaced during conversion so
// the live document can be restored after the canonical text is built.
type tagUndo struct {
	entries []tagUndoEntry
}

type tagUndoEntry struct {
	tags *Tags
	key  string
	val  Value
}

func (u *tagUndo) restore() {
	for _, e := range u.entries {
		e.tags.Set(e.key, e.val)
	}
}

// dateTagLayout returns the layout dates are rendered with: the recorded
// one when present, otherwise the default.
func (m *Metadata) dateTagLayout() string {
	if layout, ok := m.DateTagFormat(); ok && layout != "" {
		return layout
	}
	return DefaultDateTagFormat
}

// convertDateTags renders every date-valued tag (at any nesting depth in
// the dataset-level and field-level tag maps) to a formatted string. If
// at least one conversion occurred the layout is recorded on the
// metadata so the transform can be reversed on load.
func (m *Metadata) convertDateTags() *tagUndo {
	layout := m.dateTagLayout()
	undo := &tagUndo{}
	n := convertTags(m.Tags(), layout, undo)
	for _, f := range m.Fields() {
		n += convertTags(f.Tags(), layout, undo)
	}
	if n > 0 {
		m.SetDateTagFormat(layout)
	}
	return undo
}

func convertTags(tags *Tags, layout string, undo *tagUndo) int {
	n := 0
	for _, key := range tags.Keys() {
		v, _ := tags.Get(key)
		converted, changed := convertDateValue(v, layout)
		if changed {
			undo.entries = append(undo.entries, tagUndoEntry{tags: tags, key: key, val: v})
			tags.Set(key, converted)
			n++
		}
	}
	return n
}

// convertDateValue rewrites dates to strings, copying containers rather
// than mutating them so the undo snapshot stays intact.
func convertDateValue(v Value, layout string) (Value, bool) {
	switch v.Kind() {
	case KindDate:
		d, _ := v.AsDate()
		return StringValue(d.Format(layout)), true
	case KindList:
		elems, _ := v.AsList()
		changed := false
		out := make([]Value, len(elems))
		for i, e := range elems {
			ce, c := convertDateValue(e, layout)
			out[i] = ce
			changed = changed || c
		}
		if !changed {
			return v, false
		}
		return ListValue(out...), true
	case KindMap:
		nested, _ := v.AsMap()
		changed := false
		out := NewTags()
		nested.Range(func(name string, nv Value) bool {
			cv, c := convertDateValue(nv, layout)
			out.Set(name, cv)
			changed = changed || c
			return true
		})
		if !changed {
			return v, false
		}
		return MapValue(out), true
	default:
		return v, false
	}
}

// interpretDateTags re-parses string tags into dates after decoding.
// Parse failures are not errors; the value stays a string.
func (m *Metadata) interpretDateTags() {
	layout := m.dateTagLayout()
	interpretTags(m.Tags(), layout)
	for _, f := range m.Fields() {
		interpretTags(f.Tags(), layout)
	}
}

func interpretTags(tags *Tags, layout string) {
	for _, key := range tags.Keys() {
		v, _ := tags.Get(key)
		if parsed, changed := interpretDateValue(v, layout); changed {
			tags.Set(key, parsed)
		}
	}
}

func interpretDateValue(v Value, layout string) (Value, bool) {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		if d, err := time.Parse(layout, s); err == nil {
			return DateValue(d), true
		}
		return v, false
	case KindList:
		elems, _ := v.AsList()
		changed := false
		out := make([]Value, len(elems))
		for i, e := range elems {
			pe, c := interpretDateValue(e, layout)
			out[i] = pe
			changed = changed || c
		}
		if !changed {
			return v, false
		}
		return ListValue(out...), true
	case KindMap:
		nested, _ := v.AsMap()
		changed := false
		out := NewTags()
		nested.Range(func(name string, nv Value) bool {
			pv, c := interpretDateValue(nv, layout)
			out.Set(name, pv)
			changed = changed || c
			return true
		})
		if !changed {
			return v, false
		}
		return MapValue(out), true
	default:
		return v, false
	}
}
