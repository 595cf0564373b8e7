package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultRecordIndent = "  "
	defaultFieldIndent  = "    "

	// AvailabilityOn is the availability of records created by the pipeline.
	AvailabilityOn = "on"

	fileHeader = "import { ScoutingModel } from './scouting-model.types';\n\n" +
		"export const galleryModels: ScoutingModel[] = ["
	fileFooter = "];\n"
)

// GroupLabel turns a manifest group tag into the label stored on records:
// "girls" becomes "Girls".
func GroupLabel(group string) string {
	// Casers keep state, so each call gets its own.
	return cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(group)))
}

// NewRecordInput describes a record synthesized for a subject the catalog
// doesn't have yet.
type NewRecordInput struct {
	Name  string
	Group string
	Cover string
	Media []string
}

// NewRecord builds a record in the catalog's usual layout with blank
// operator-owned attributes and availability "on".
func NewRecord(in NewRecordInput) *Record {
	scalar := func(key, value string) *Field {
		return &Field{Key: key, Value: value, indent: defaultFieldIndent, comma: true, dirty: true}
	}

	return &Record{
		marker: defaultRecordIndent + markerPrefix + in.Name + markerSuffix,
		open:   defaultRecordIndent + "{",
		fields: []*Field{
			scalar(FieldName, in.Name),
			scalar(FieldGroup, GroupLabel(in.Group)),
			scalar(FieldCover, in.Cover),
			scalar(FieldHeight, ""),
			scalar(FieldMeasurements, ""),
			scalar(FieldHair, ""),
			scalar(FieldEyes, ""),
			scalar(FieldShoe, ""),
			scalar(FieldAvailability, AvailabilityOn),
			{Key: FieldMedia, Items: append([]string{}, in.Media...), List: true, indent: defaultFieldIndent, comma: true, dirty: true},
			{Key: FieldSocial, Items: []string{}, List: true, indent: defaultFieldIndent, dirty: true},
		},
		close: []string{defaultRecordIndent + "}, " + endMarker},
	}
}

// Render writes a complete catalog file holding records in the given order,
// one blank line between records.
func Render(records []*Record) string {
	var b strings.Builder
	b.WriteString(fileHeader)
	b.WriteString("\n")
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.String())
	}
	if len(records) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(fileFooter)
	return b.String()
}
