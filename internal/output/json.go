package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// The json renderers write objects with the record's field order intact,
// which encoding/json cannot do for maps. Output uses ": " and ", "
// separators, matching the documented examples.

// renderJSON writes the record set as a JSON array of objects.
func renderJSON(w io.Writer, rs *RecordSet) error {
	var b strings.Builder
	b.WriteString("[")
	for i, rec := range rs.Records {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := encodeObject(&b, rs.Fields, rec); err != nil {
			return err
		}
	}
	b.WriteString("]\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// renderJSONObject writes a single record as a JSON object.
func renderJSONObject(w io.Writer, rs *RecordSet) error {
	var rec Record
	if len(rs.Records) > 0 {
		rec = rs.Records[0]
	}
	var b strings.Builder
	if err := encodeObject(&b, rs.Fields, rec); err != nil {
		return err
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func encodeObject(b *strings.Builder, fields []string, rec Record) error {
	b.WriteString("{")
	for i, name := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		b.Write(key)
		b.WriteString(": ")
		if err := encodeValue(b, rec[name]); err != nil {
			return err
		}
	}
	b.WriteString("}")
	return nil
}

// encodeValue writes one value. Nested mappings are emitted with keys in
// ascending order so the encoding is deterministic.
func encodeValue(b *strings.Builder, value any) error {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(key)
			b.WriteString(": ")
			if err := encodeValue(b, v[k]); err != nil {
				return err
			}
		}
		b.WriteString("}")
		return nil
	case []any:
		b.WriteString("[")
		for i, item := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := encodeValue(b, item); err != nil {
				return err
			}
		}
		b.WriteString("]")
		return nil
	case json.Number:
		b.WriteString(v.String())
		return nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode value: %w", err)
		}
		b.Write(data)
		return nil
	}
}
