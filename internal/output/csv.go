package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	csvDelim = ","
	csvQuote = `"`
)

// renderCSV writes a header row followed by one row per record.
//
// Quoting preserves value types on re-read: strings are always quoted,
// numbers and booleans are never quoted, null is an unquoted empty field,
// and complex values are emitted as their JSON text and quoted only when
// that text contains the delimiter, the quote character or a newline.
// The legacy implementation's quoting differed between platform versions;
// this is the normalized behavior on every platform.
func renderCSV(w io.Writer, rs *RecordSet) error {
	var b strings.Builder
	writeCSVRow(&b, rs.Fields, func(name string) (string, error) {
		return csvField(name)
	})
	for _, rec := range rs.Records {
		rec := rec
		writeCSVRow(&b, rs.Fields, func(name string) (string, error) {
			return csvField(rec[name])
		})
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCSVRow(b *strings.Builder, fields []string, get func(string) (string, error)) {
	for i, name := range fields {
		if i > 0 {
			b.WriteString(csvDelim)
		}
		text, err := get(name)
		if err != nil {
			text = ""
		}
		b.WriteString(text)
	}
	b.WriteString("\n")
}

// csvField renders one value with the type-dependent quoting rule.
func csvField(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case json.Number:
		return v.String(), nil
	case string:
		return csvQuoted(v), nil
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode csv value: %w", err)
		}
		text := string(data)
		if strings.ContainsAny(text, csvDelim+csvQuote+"\n") {
			return csvQuoted(text), nil
		}
		return text, nil
	default:
		return csvQuoted(fmt.Sprint(v)), nil
	}
}

func csvQuoted(s string) string {
	return csvQuote + strings.ReplaceAll(s, csvQuote, csvQuote+csvQuote) + csvQuote
}
