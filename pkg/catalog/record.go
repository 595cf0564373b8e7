package catalog

import (
	"slices"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
)

// Field names the reconciliation reads or writes.
const (
	FieldName         = "name"
	FieldGroup        = "gender"
	FieldCover        = "photo"
	FieldHeight       = "height"
	FieldMeasurements = "measurements"
	FieldHair         = "hair"
	FieldEyes         = "eyes"
	FieldShoe         = "shoe"
	FieldAvailability = "availability"
	FieldMedia        = "portfolio"
	FieldSocial       = "instagram"
)

const (
	markerPrefix = "// === Model: "
	markerSuffix = " ==="
	endMarker    = "// === End Model ==="
)

// Record is one subject block of the catalog:
//
//	// === Model: Adan ===
//	{
//	  name: "Adan",
//	  ...
//	}, // === End Model ===
//
// The marker lines are optional when parsing. Every line is kept as read
// unless a field was changed through the record's setters.
type Record struct {
	// gap holds the lines between the previous record (or nothing, for the
	// first record) and this one.
	gap    []string
	marker string
	open   string
	fields []*Field
	close  []string
}

// Name returns the value of the name field.
func (r *Record) Name() string {
	v, _ := r.Scalar(FieldName)
	return v
}

// Slug is the canonical identifier of the record's subject.
func (r *Record) Slug() string {
	return identifiers.Slugify(r.Name())
}

func (r *Record) field(key string) *Field {
	for _, f := range r.fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// Scalar returns the value of a quoted scalar field.
func (r *Record) Scalar(key string) (string, bool) {
	f := r.field(key)
	if f == nil || f.List || f.opaque {
		return "", false
	}
	return f.Value, true
}

// List returns the items of a list field.
func (r *Record) List(key string) ([]string, bool) {
	f := r.field(key)
	if f == nil || !f.List {
		return nil, false
	}
	return append([]string(nil), f.Items...), true
}

// Cover is the record's cover media URL.
func (r *Record) Cover() string {
	v, _ := r.Scalar(FieldCover)
	return v
}

// Media is the record's ordered media list.
func (r *Record) Media() []string {
	v, _ := r.List(FieldMedia)
	return v
}

// HasMedia reports whether the record has a cover or at least one media entry.
func (r *Record) HasMedia() bool {
	if r.Cover() != "" {
		return true
	}
	for _, m := range r.Media() {
		if m != "" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		gap:    append([]string(nil), r.gap...),
		marker: r.marker,
		open:   r.open,
		close:  append([]string(nil), r.close...),
		fields: make([]*Field, len(r.fields)),
	}
	for i, f := range r.fields {
		c.fields[i] = f.clone()
	}
	return c
}

// Lines returns the record's lines, without the gap that precedes it.
func (r *Record) Lines() []string {
	out := []string{}
	if r.marker != "" {
		out = append(out, r.marker)
	}
	out = append(out, r.open)
	for _, f := range r.fields {
		out = append(out, f.lines()...)
	}
	return append(out, r.close...)
}

func (r *Record) String() string {
	return strings.Join(r.Lines(), "\n")
}

// SetScalar sets a quoted scalar field, adding it when missing. Setting the
// current value leaves the field's text untouched.
func (r *Record) SetScalar(key, value string) {
	f := r.field(key)
	if f == nil {
		r.addField(&Field{Key: key, Value: value, dirty: true})
		return
	}
	if !f.List && !f.opaque && f.Value == value {
		return
	}
	f.Value = value
	f.Items = nil
	f.List = false
	f.opaque = false
	f.dirty = true
}

// SetList sets a list field, adding it when missing. Setting the current items
// leaves the field's text untouched.
func (r *Record) SetList(key string, items []string) {
	items = append([]string{}, items...)
	f := r.field(key)
	if f == nil {
		r.addField(&Field{Key: key, Items: items, List: true, dirty: true})
		return
	}
	if f.List && slices.Equal(f.Items, items) {
		return
	}
	f.Items = items
	f.Value = ""
	f.List = true
	f.opaque = false
	f.dirty = true
}

// addField inserts f after the last keyed field, or before it when that field
// is the trailing one without a comma.
func (r *Record) addField(f *Field) {
	f.comma = true
	f.indent = defaultFieldIndent

	last := -1
	for i, existing := range r.fields {
		if existing.Key != "" {
			last = i
			f.indent = existing.indent
		}
	}

	at := len(r.fields)
	if last >= 0 {
		at = last + 1
		if !r.fields[last].comma {
			at = last
		}
	}
	r.fields = append(r.fields, nil)
	copy(r.fields[at+1:], r.fields[at:])
	r.fields[at] = f
}

// ApplyMediaUpdate returns a copy of r with the cover and media list replaced
// and reports whether the record's text changed. Every other field keeps its
// text, and applying the same update twice gives the same record.
func ApplyMediaUpdate(r *Record, cover string, media []string) (*Record, bool) {
	next := r.Clone()
	next.SetScalar(FieldCover, cover)
	next.SetList(FieldMedia, media)
	return next, next.String() != r.String()
}
