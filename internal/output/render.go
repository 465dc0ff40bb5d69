package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// innerFormat maps an outer table format to the format used for nested
// sequence/mapping values inside a cell. Formats not mapped here nest
// with their own format. "gosyntax" renders the value with %#v-style
// notation instead of an inner grid.
var innerFormat = map[Format]Format{
	FormatPsql:   FormatPlain,
	FormatTable:  FormatPlain,
	FormatSimple: FormatPlain,
	FormatRst:    FormatPlain,
	FormatLatex:  "gosyntax",
}

// Render writes a record set in the requested format. For table formats,
// transpose swaps rows and columns (the header row becomes the first
// column); it is ignored for json and csv.
func Render(w io.Writer, rs *RecordSet, format Format, transpose bool) error {
	switch {
	case format == FormatJSON:
		return renderJSON(w, rs)
	case format == FormatCSV:
		return renderCSV(w, rs)
	case IsTableFormat(format):
		return renderGrid(w, rs, format, transpose)
	default:
		return fmt.Errorf("invalid output format: %s", format)
	}
}

// RenderProperties writes a single record as a two-column
// "Field Name" / "Value" listing, sorted by field name. In json and csv
// formats the record is emitted directly.
func RenderProperties(w io.Writer, props Record, format Format, transpose bool) error {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	switch {
	case format == FormatJSON:
		rs := &RecordSet{Fields: names, Records: []Record{props}}
		return renderJSONObject(w, rs)
	case format == FormatCSV:
		rs := &RecordSet{Fields: names, Records: []Record{props}}
		return renderCSV(w, rs)
	case IsTableFormat(format):
		rs := NewRecordSet("Field Name", "Value")
		for _, name := range names {
			rs.Append(Record{"Field Name": name, "Value": props[name]})
		}
		return renderGrid(w, rs, format, transpose)
	default:
		return fmt.Errorf("invalid output format: %s", format)
	}
}

// renderGrid stringifies the record set into a cell matrix and hands it
// to the grid renderer for the format.
func renderGrid(w io.Writer, rs *RecordSet, format Format, transpose bool) error {
	if format == FormatTable {
		format = FormatPsql
	}

	headers := rs.Fields
	rows := make([][]string, 0, len(rs.Records))
	for _, rec := range rs.Records {
		row := make([]string, len(rs.Fields))
		for i, name := range rs.Fields {
			row[i] = cellText(rec[name], format)
		}
		rows = append(rows, row)
	}

	if transpose {
		headers, rows = transposeGrid(headers, rows)
	}

	out := formatGrid(headers, rows, format)
	_, err := io.WriteString(w, out+"\n")
	return err
}

// transposeGrid turns the header row into the leading column.
func transposeGrid(headers []string, rows [][]string) ([]string, [][]string) {
	tRows := make([][]string, len(headers))
	for i, h := range headers {
		tRow := make([]string, 0, len(rows)+1)
		tRow = append(tRow, h)
		for _, row := range rows {
			tRow = append(tRow, row[i])
		}
		tRows[i] = tRow
	}
	return nil, tRows
}

// cellText converts a value to its table cell text. Nested sequences and
// mappings become inner grids in the format's inner format.
func cellText(value any, format Format) string {
	inner, ok := innerFormat[format]
	if !ok {
		inner = format
	}
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case json.Number:
		if _, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return v.String()
		}
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return fmt.Sprintf("%.2f", f)
	case []any:
		return listAsCell(v, inner)
	case map[string]any:
		return mapAsCell(v, inner)
	default:
		return fmt.Sprint(v)
	}
}

// listAsCell renders a nested sequence as a headerless one-column grid.
func listAsCell(values []any, format Format) string {
	if format == "gosyntax" {
		return fmt.Sprintf("%#v", values)
	}
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{cellText(v, format)})
	}
	return formatGrid(nil, rows, format)
}

// mapAsCell renders a nested mapping as a headerless key/value grid with
// keys in ascending order.
func mapAsCell(m map[string]any, format Format) string {
	if format == "gosyntax" {
		return fmt.Sprintf("%#v", m)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, cellText(m[k], format)})
	}
	return formatGrid(nil, rows, format)
}
