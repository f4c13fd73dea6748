package format

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through JSON first so struct tags decide
// key names; object keys become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&x); err != nil {
		return err
	}

	e := &ednWriter{pretty: pretty}
	e.value(x, 0)
	e.sb.WriteByte('\n')
	_, err = io.WriteString(w, e.sb.String())
	return err
}

type ednWriter struct {
	sb     strings.Builder
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case json.Number:
		e.sb.WriteString(t.String())
	case string:
		e.sb.WriteString(strconv.Quote(t))
	case []any:
		e.vector(t, depth)
	case map[string]any:
		e.mapping(t, depth)
	default:
		e.sb.WriteString("nil")
	}
}

func (e *ednWriter) vector(xs []any, depth int) {
	e.sb.WriteByte('[')
	for i, x := range xs {
		e.sep(i, depth+1)
		e.value(x, depth+1)
	}
	e.close(len(xs), depth)
	e.sb.WriteByte(']')
}

func (e *ednWriter) mapping(m map[string]any, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.sb.WriteByte('{')
	for i, k := range keys {
		e.sep(i, depth+1)
		e.sb.WriteByte(':')
		e.sb.WriteString(keyword(k))
		e.sb.WriteByte(' ')
		e.value(m[k], depth+1)
	}
	e.close(len(keys), depth)
	e.sb.WriteByte('}')
}

func (e *ednWriter) sep(i, depth int) {
	if e.pretty {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat("  ", depth))
		return
	}
	if i > 0 {
		e.sb.WriteByte(' ')
	}
}

func (e *ednWriter) close(n, depth int) {
	if e.pretty && n > 0 {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat("  ", depth))
	}
}

func keyword(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
