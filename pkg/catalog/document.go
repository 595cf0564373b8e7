package catalog

import (
	"fmt"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/pkg/errors"
)

// Document is a parsed catalog file: the text before the first record, the
// records, and the text after the last one (the list terminator).
type Document struct {
	prefix  []string
	records []*Record
	suffix  []string
}

// Parse reads a catalog file. Untouched documents are written back byte for
// byte by String.
func Parse(text string) (*Document, error) {
	lines := strings.Split(text, "\n")
	doc := &Document{}

	start := nextRecordStart(lines, 0)
	if start < 0 {
		cut := lastListEnd(lines)
		doc.prefix = lines[:cut]
		doc.suffix = lines[cut:]
		return doc, nil
	}
	doc.prefix = lines[:start]

	gapStart := start
	for start >= 0 {
		rec, next, err := parseRecord(lines, start)
		if err != nil {
			return nil, err
		}
		rec.gap = lines[gapStart:start]
		doc.records = append(doc.records, rec)

		gapStart = next
		start = nextRecordStart(lines, next)
	}
	doc.suffix = lines[gapStart:]

	return doc, nil
}

func isMarker(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, markerPrefix) && strings.HasSuffix(t, markerSuffix) && len(t) >= len(markerPrefix)+len(markerSuffix)
}

func isOpen(line string) bool {
	return strings.TrimSpace(line) == "{"
}

// nextRecordStart returns the index of the first line at or after from that
// starts a record: a marker line directly followed by "{", or a bare "{".
func nextRecordStart(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if isOpen(lines[i]) {
			return i
		}
		if isMarker(lines[i]) && i+1 < len(lines) && isOpen(lines[i+1]) {
			return i
		}
	}
	return -1
}

// lastListEnd finds the list terminator of a catalog without records.
func lastListEnd(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "]") {
			return i
		}
	}
	return len(lines)
}

func parseRecord(lines []string, start int) (*Record, int, error) {
	rec := &Record{}
	i := start
	if isMarker(lines[i]) {
		rec.marker = lines[i]
		i++
	}
	rec.open = lines[i]
	bodyStart := i + 1

	for j := bodyStart; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if isOpen(lines[j]) || (isMarker(lines[j]) && j+1 < len(lines) && isOpen(lines[j+1])) {
			break
		}
		if !strings.HasPrefix(t, "}") {
			continue
		}

		rec.fields = parseFields(lines[bodyStart:j])
		rec.close = []string{lines[j]}
		next := j + 1
		if !strings.Contains(t, endMarker) && next < len(lines) && strings.TrimSpace(lines[next]) == endMarker {
			rec.close = append(rec.close, lines[next])
			next++
		}
		return rec, next, nil
	}

	return nil, 0, errcodes.ValidationError(fmt.Sprintf("unterminated record starting at line %d", start+1))
}

// Records returns the records in file order.
func (d *Document) Records() []*Record {
	return append([]*Record(nil), d.records...)
}

// Len returns the number of records.
func (d *Document) Len() int {
	return len(d.records)
}

// Record returns the record at index i.
func (d *Document) Record(i int) *Record {
	return d.records[i]
}

// Slugs returns the set of record slugs.
func (d *Document) Slugs() map[string]struct{} {
	slugs := make(map[string]struct{}, len(d.records))
	for _, r := range d.records {
		slugs[r.Slug()] = struct{}{}
	}
	return slugs
}

// Find returns the index of the record for name, or -1. Records whose slug
// equals the name's slug win over records related through an alias.
func (d *Document) Find(name string, aliases *identifiers.Aliases) int {
	slug := identifiers.Slugify(name)
	if slug == "" {
		return -1
	}
	for i, r := range d.records {
		if r.Slug() == slug {
			return i
		}
	}
	for i, r := range d.records {
		if aliases.SameSlug(slug, r.Slug()) {
			return i
		}
	}
	return -1
}

// Replace swaps the record at index i for r. r takes over the position and the
// surrounding blank lines of the record it replaces.
func (d *Document) Replace(i int, r *Record) {
	r.gap = d.records[i].gap
	d.records[i] = r
}

// Insert appends r before the list terminator, separated from the previous
// record by one blank line.
func (d *Document) Insert(r *Record) {
	r = r.Clone()
	r.gap = nil
	if len(d.records) > 0 {
		r.gap = []string{""}
	}
	d.records = append(d.records, r)
}

// RemoveAt deletes the record at index i together with the lines that
// separate it from the previous record.
func (d *Document) RemoveAt(i int) {
	removed := d.records[i]
	d.records = append(d.records[:i], d.records[i+1:]...)
	if i == 0 && len(d.records) > 0 {
		// The new first record sits right after the list opener, like the
		// removed one did.
		d.records[0].gap = removed.gap
	}
}

// Remove deletes every record whose name has the same slug as name and
// returns how many were removed. Aliases aren't consulted.
func (d *Document) Remove(name string) int {
	slug := identifiers.Slugify(name)
	if slug == "" {
		return 0
	}
	removed := 0
	for i := 0; i < len(d.records); {
		if d.records[i].Slug() == slug {
			d.RemoveAt(i)
			removed++
			continue
		}
		i++
	}
	return removed
}

func (d *Document) String() string {
	lines := append([]string(nil), d.prefix...)
	for _, r := range d.records {
		lines = append(lines, r.gap...)
		lines = append(lines, r.Lines()...)
	}
	lines = append(lines, d.suffix...)
	return strings.Join(lines, "\n")
}

// ParseFile is Parse with the path in the error message.
func ParseFile(path, text string) (*Document, error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse %s", path)
	}
	return doc, nil
}
