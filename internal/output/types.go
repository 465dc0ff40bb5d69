package output

import "fmt"

// Format represents the output rendering format.
type Format string

const (
	FormatTable     Format = "table"
	FormatPlain     Format = "plain"
	FormatSimple    Format = "simple"
	FormatPsql      Format = "psql"
	FormatRst       Format = "rst"
	FormatMediawiki Format = "mediawiki"
	FormatHTML      Format = "html"
	FormatLatex     Format = "latex"
	FormatJSON      Format = "json"
	FormatCSV       Format = "csv"
)

// Formats lists all supported output formats, in the order they are
// documented in the command help.
var Formats = []Format{
	FormatTable, FormatPlain, FormatSimple, FormatPsql, FormatRst,
	FormatMediawiki, FormatHTML, FormatLatex, FormatJSON, FormatCSV,
}

// tableFormats are the formats rendered as a grid (everything except
// json and csv). "table" is an alias for "psql".
var tableFormats = map[Format]bool{
	FormatTable:     true,
	FormatPlain:     true,
	FormatSimple:    true,
	FormatPsql:      true,
	FormatRst:       true,
	FormatMediawiki: true,
	FormatHTML:      true,
	FormatLatex:     true,
}

// ParseFormat validates a format string from the command line.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid output format: %s", s)
}

// IsTableFormat reports whether f renders as a grid.
func IsTableFormat(f Format) bool {
	return tableFormats[f]
}

// Record is one result row: a mapping of field name to value. Values are
// limited to nil, bool, int64, float64, json.Number, string, []any and
// map[string]any, i.e. what encoding/json produces.
type Record map[string]any

// RecordSet is an ordered sequence of records sharing a field-name set.
// Fields defines both the selection and the column order; a field missing
// from a record renders as empty.
type RecordSet struct {
	Fields  []string
	Records []Record
}

// NewRecordSet creates a RecordSet with the given column order.
func NewRecordSet(fields ...string) *RecordSet {
	return &RecordSet{Fields: fields}
}

// Append adds a record.
func (rs *RecordSet) Append(r Record) {
	rs.Records = append(rs.Records, r)
}

// Len returns the number of records.
func (rs *RecordSet) Len() int {
	return len(rs.Records)
}
