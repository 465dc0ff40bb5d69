package output_test

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/openzhmc/zhmc/internal/output"
)

func sampleSet() *output.RecordSet {
	rs := output.NewRecordSet("name", "status")
	rs.Append(output.Record{"name": "P1", "status": "operating"})
	return rs
}

func render(t *testing.T, rs *output.RecordSet, format output.Format) string {
	t.Helper()
	var b strings.Builder
	if err := output.Render(&b, rs, format, false); err != nil {
		t.Fatalf("render %s: %v", format, err)
	}
	return b.String()
}

func TestParseFormat(t *testing.T) {
	for _, f := range output.Formats {
		got, err := output.ParseFormat(string(f))
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", f, err)
		}
		if got != f {
			t.Errorf("ParseFormat(%q) = %q", f, got)
		}
	}
	if _, err := output.ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderJSONExample(t *testing.T) {
	got := render(t, sampleSet(), output.FormatJSON)
	want := `[{"name": "P1", "status": "operating"}]` + "\n"
	if got != want {
		t.Errorf("json output:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderPlainExample(t *testing.T) {
	got := render(t, sampleSet(), output.FormatPlain)
	want := "name  status\nP1    operating\n"
	if got != want {
		t.Errorf("plain output:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderPsql(t *testing.T) {
	got := render(t, sampleSet(), output.FormatPsql)
	want := strings.Join([]string{
		"+------+-----------+",
		"| name | status    |",
		"|------+-----------|",
		"| P1   | operating |",
		"+------+-----------+",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("psql output:\ngot\n%s\nwant\n%s", got, want)
	}
}

func TestTableAliasesPsql(t *testing.T) {
	if render(t, sampleSet(), output.FormatTable) != render(t, sampleSet(), output.FormatPsql) {
		t.Error("table format must render identically to psql")
	}
}

func TestEmptyRecordSetTableFormats(t *testing.T) {
	empty := output.NewRecordSet("name", "status")
	for _, f := range output.Formats {
		if !output.IsTableFormat(f) {
			continue
		}
		got := render(t, empty, f)
		if got == "" {
			t.Errorf("%s: expected header-only grid, got empty output", f)
		}
		if f != output.FormatLatex && !strings.Contains(got, "name") {
			t.Errorf("%s: header missing from empty grid:\n%s", f, got)
		}
	}
}

func TestEmptyRecordSetPlainIsHeaderOnly(t *testing.T) {
	empty := output.NewRecordSet("name", "status")
	got := render(t, empty, output.FormatPlain)
	if got != "name  status\n" {
		t.Errorf("plain empty grid: got %q", got)
	}
}

func typedSet() *output.RecordSet {
	rs := output.NewRecordSet("name", "enabled", "count", "share", "parent", "tags")
	rs.Append(output.Record{
		"name":    "PART1",
		"enabled": true,
		"count":   int64(12),
		"share":   json.Number("0.25"),
		"parent":  nil,
		"tags":    []any{"a", "b"},
	})
	rs.Append(output.Record{
		"name":    "PART2",
		"enabled": false,
		"count":   int64(0),
		"share":   json.Number("1"),
		"parent":  "PART1",
		"tags":    []any{},
	})
	return rs
}

func TestJSONRoundTrip(t *testing.T) {
	rs := typedSet()
	got := render(t, rs, output.FormatJSON)

	dec := json.NewDecoder(strings.NewReader(got))
	dec.UseNumber()
	var parsed []map[string]any
	if err := dec.Decode(&parsed); err != nil {
		t.Fatalf("re-parse json: %v\noutput: %s", err, got)
	}
	if len(parsed) != rs.Len() {
		t.Fatalf("expected %d records, got %d", rs.Len(), len(parsed))
	}
	first := parsed[0]
	if first["name"] != "PART1" {
		t.Errorf("name: got %v", first["name"])
	}
	if first["enabled"] != true {
		t.Errorf("enabled: got %v", first["enabled"])
	}
	if first["count"] != json.Number("12") {
		t.Errorf("count: got %v", first["count"])
	}
	if first["share"] != json.Number("0.25") {
		t.Errorf("share: got %v", first["share"])
	}
	if first["parent"] != nil {
		t.Errorf("parent: got %v", first["parent"])
	}
	tags, ok := first["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("tags: got %v", first["tags"])
	}
}

// reparseCSVField recovers the typed value from one CSV field, relying on
// the type-dependent quoting rule: unquoted empty is null, unquoted
// true/false is boolean, unquoted numbers are numeric, JSON-looking text
// is a complex value, everything else is a string.
func reparseCSVField(raw string, wasQuoted bool) any {
	if wasQuoted {
		if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err == nil {
				return v
			}
		}
		return raw
	}
	switch raw {
	case "":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return json.Number(raw)
}

func TestCSVRoundTrip(t *testing.T) {
	rs := typedSet()
	got := render(t, rs, output.FormatCSV)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != rs.Len()+1 {
		t.Fatalf("expected header + %d rows, got %d lines:\n%s", rs.Len(), len(lines), got)
	}

	r := csv.NewReader(strings.NewReader(got))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-parse csv: %v\noutput: %s", err, got)
	}
	header := rows[0]
	for i, name := range rs.Fields {
		if header[i] != name {
			t.Errorf("header[%d]: got %q want %q", i, header[i], name)
		}
	}

	for ri, rec := range rs.Records {
		rawLine := lines[ri+1]
		rawFields := splitCSVRaw(rawLine)
		for fi, name := range rs.Fields {
			quoted := strings.HasPrefix(rawFields[fi], `"`)
			got := reparseCSVField(rows[ri+1][fi], quoted)
			want := normalizeCSVExpected(rec[name])
			if !equalValue(got, want) {
				t.Errorf("record %d field %s: got %#v want %#v", ri, name, got, want)
			}
		}
	}
}

// splitCSVRaw splits a CSV line without removing quotes, for inspecting
// the quoting the writer applied. Good enough for test fixtures that do
// not embed delimiters in strings.
func splitCSVRaw(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// normalizeCSVExpected maps an input value onto what a lossless re-parse
// should produce (numbers come back as json.Number).
func normalizeCSVExpected(v any) any {
	switch n := v.(type) {
	case int64:
		return json.Number(strconv.FormatInt(n, 10))
	case json.Number:
		return n
	default:
		return v
	}
}

func equalValue(a, b any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

func TestRenderPropertiesSorted(t *testing.T) {
	props := output.Record{"status": "operating", "name": "CPC1"}
	var b strings.Builder
	if err := output.RenderProperties(&b, props, output.FormatPlain, false); err != nil {
		t.Fatalf("render properties: %v", err)
	}
	got := b.String()
	if strings.Index(got, "name") > strings.Index(got, "status") {
		t.Errorf("properties not sorted by field name:\n%s", got)
	}
	if !strings.Contains(got, "Field Name") || !strings.Contains(got, "Value") {
		t.Errorf("missing Field Name / Value headers:\n%s", got)
	}
}

func TestRenderPropertiesJSONIsObject(t *testing.T) {
	props := output.Record{"name": "CPC1", "status": "operating"}
	var b strings.Builder
	if err := output.RenderProperties(&b, props, output.FormatJSON, false); err != nil {
		t.Fatalf("render properties: %v", err)
	}
	got := strings.TrimSpace(b.String())
	if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
		t.Errorf("expected a single JSON object, got: %s", got)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if parsed["name"] != "CPC1" {
		t.Errorf("name: got %v", parsed["name"])
	}
}

func TestTranspose(t *testing.T) {
	var b strings.Builder
	if err := output.Render(&b, sampleSet(), output.FormatPlain, true); err != nil {
		t.Fatalf("render transposed: %v", err)
	}
	got := b.String()
	want := "name    P1\nstatus  operating\n"
	if got != want {
		t.Errorf("transposed plain output:\ngot  %q\nwant %q", got, want)
	}
}

func TestNestedValuesInTable(t *testing.T) {
	rs := output.NewRecordSet("name", "features")
	rs.Append(output.Record{
		"name":     "CPC1",
		"features": []any{map[string]any{"name": "dpm", "state": true}},
	})
	got := render(t, rs, output.FormatPsql)
	if !strings.Contains(got, "dpm") {
		t.Errorf("nested mapping not rendered:\n%s", got)
	}
}

func TestHTMLEscaping(t *testing.T) {
	rs := output.NewRecordSet("desc")
	rs.Append(output.Record{"desc": "<b>&"})
	got := render(t, rs, output.FormatHTML)
	if strings.Contains(got, "<b>&<") || !strings.Contains(got, "&lt;b&gt;&amp;") {
		t.Errorf("html cell not escaped:\n%s", got)
	}
}

func TestLatexEscaping(t *testing.T) {
	rs := output.NewRecordSet("desc")
	rs.Append(output.Record{"desc": "50%_of_total"})
	got := render(t, rs, output.FormatLatex)
	if !strings.Contains(got, "50\\%\\_of\\_total") {
		t.Errorf("latex specials not escaped:\n%s", got)
	}
}

func TestAlignedWidthsCountRunes(t *testing.T) {
	rs := output.NewRecordSet("name", "description")
	rs.Append(output.Record{"name": "CPC1", "description": "Größenwahn"})
	rs.Append(output.Record{"name": "CPC2", "description": "plain text"})

	got := render(t, rs, output.FormatPsql)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines[1:] {
		if n := utf8.RuneCountInString(line); n != width {
			t.Errorf("misaligned line (%d runes, want %d): %q\noutput:\n%s", n, width, line, got)
		}
	}

	got = render(t, rs, output.FormatPlain)
	lines = strings.Split(strings.TrimRight(got, "\n"), "\n")
	col := strings.Index(lines[1], "Größenwahn")
	if wantCol := strings.Index(lines[2], "plain text"); col != wantCol {
		t.Errorf("description column drifts between rows (%d vs %d):\n%s", col, wantCol, got)
	}
}

func TestFloatsInTablesUseTwoDecimals(t *testing.T) {
	rs := output.NewRecordSet("usage")
	rs.Append(output.Record{"usage": 0.5})
	got := render(t, rs, output.FormatPlain)
	if !strings.Contains(got, "0.50") {
		t.Errorf("expected 0.50 in table output, got:\n%s", got)
	}
	got = render(t, rs, output.FormatJSON)
	if !strings.Contains(got, "0.5") || strings.Contains(got, "0.50") {
		t.Errorf("json must keep the exact value, got:\n%s", got)
	}
}
