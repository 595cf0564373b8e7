package catalog

import (
	"strings"
)

const itemIndent = "  "

// Field is one line (or, for multi-line lists, one run of lines) of a record
// body. Lines that aren't key/value pairs are kept as fields with an empty
// Key so the body can be written back unchanged.
type Field struct {
	Key   string
	Value string
	Items []string
	List  bool

	indent string
	comma  bool
	// opaque fields have a key but a value that isn't a quoted string or a
	// list of quoted strings, e.g. `height: 180,`.
	opaque bool
	raw    []string
	dirty  bool
}

func (f *Field) clone() *Field {
	c := *f
	c.Items = append([]string(nil), f.Items...)
	c.raw = append([]string(nil), f.raw...)
	return &c
}

func (f *Field) lines() []string {
	if !f.dirty {
		return f.raw
	}
	return f.render()
}

func (f *Field) render() []string {
	comma := ""
	if f.comma {
		comma = ","
	}
	if !f.List {
		return []string{f.indent + f.Key + `: "` + escape(f.Value) + `"` + comma}
	}
	if len(f.Items) == 0 {
		return []string{f.indent + f.Key + ": []" + comma}
	}
	out := make([]string, 0, len(f.Items)+2)
	out = append(out, f.indent+f.Key+": [")
	for _, item := range f.Items {
		out = append(out, f.indent+itemIndent+`"`+escape(item)+`",`)
	}
	return append(out, f.indent+"]"+comma)
}

// parseFields splits a record body into fields.
func parseFields(lines []string) []*Field {
	fields := make([]*Field, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		indent, key, rest, ok := splitKey(line)
		if !ok {
			fields = append(fields, &Field{raw: []string{line}})
			continue
		}

		f := &Field{Key: key, indent: indent, raw: []string{line}}
		value, comma := cutComma(rest)
		f.comma = comma

		switch {
		case value == "[":
			end := -1
			for j := i + 1; j < len(lines); j++ {
				if strings.HasPrefix(strings.TrimSpace(lines[j]), "]") {
					end = j
					break
				}
			}
			if end < 0 {
				f.opaque = true
				f.Value = value
				break
			}
			_, f.comma = cutComma(strings.TrimSpace(lines[end]))
			f.List = true
			f.Items = listItems(lines[i+1 : end])
			f.raw = append([]string(nil), lines[i:end+1]...)
			i = end
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			f.List = true
			f.Items = inlineItems(value[1 : len(value)-1])
		case value != "" && (value[0] == '"' || value[0] == '\''):
			v, tail, ok := unquote(value)
			if !ok || strings.TrimSpace(tail) != "" {
				f.opaque = true
				f.Value = value
				break
			}
			f.Value = v
		default:
			f.opaque = true
			f.Value = value
		}

		fields = append(fields, f)
	}
	return fields
}

// splitKey recognises `<indent><identifier>: <rest>`.
func splitKey(line string) (indent, key, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	indent = line[:len(line)-len(trimmed)]

	n := 0
	for n < len(trimmed) && isIdentByte(trimmed[n]) {
		n++
	}
	if n == 0 {
		return "", "", "", false
	}
	after := strings.TrimLeft(trimmed[n:], " \t")
	if !strings.HasPrefix(after, ":") {
		return "", "", "", false
	}
	return indent, trimmed[:n], strings.TrimSpace(after[1:]), true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func cutComma(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ",") {
		return strings.TrimSpace(strings.TrimSuffix(s, ",")), true
	}
	return s, false
}

// listItems reads one quoted string per line. Blank lines and comment lines
// are skipped.
func listItems(lines []string) []string {
	items := []string{}
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "//") {
			continue
		}
		if t[0] != '"' && t[0] != '\'' {
			continue
		}
		if v, _, ok := unquote(t); ok {
			items = append(items, v)
		}
	}
	return items
}

// inlineItems reads the quoted strings of a single-line list body.
func inlineItems(s string) []string {
	items := []string{}
	for {
		s = strings.TrimLeft(s, " \t,")
		if s == "" || (s[0] != '"' && s[0] != '\'') {
			return items
		}
		v, rest, ok := unquote(s)
		if !ok {
			return items
		}
		items = append(items, v)
		s = rest
	}
}

// unquote reads the quoted string at the start of s and returns its value and
// whatever follows the closing quote.
func unquote(s string) (value, rest string, ok bool) {
	if s == "" {
		return "", s, false
	}
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == quote:
			return b.String(), s[i+1:], true
		default:
			b.WriteByte(c)
		}
	}
	return "", s, false
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
