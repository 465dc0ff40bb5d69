package output

import (
	"html"
	"strings"
	"unicode/utf8"
)

// formatGrid renders a cell matrix in one of the table grammars. headers
// may be empty for a headerless grid (nested values, transposed output).
// Cells may contain newlines from nested grids; the aligned formats
// expand them into additional visual lines.
func formatGrid(headers []string, rows [][]string, format Format) string {
	switch format {
	case FormatMediawiki:
		return formatMediawiki(headers, rows)
	case FormatHTML:
		return formatHTML(headers, rows)
	case FormatLatex:
		return formatLatex(headers, rows)
	default:
		return formatAligned(headers, rows, format)
	}
}

// formatAligned covers the column-aligned grammars: plain, simple, psql
// and rst.
func formatAligned(headers []string, rows [][]string, format Format) string {
	ncols := len(headers)
	for _, row := range rows {
		if len(row) > ncols {
			ncols = len(row)
		}
	}
	if ncols == 0 {
		return ""
	}

	widths := make([]int, ncols)
	for i, h := range headers {
		if n := utf8.RuneCountInString(h); n > widths[i] {
			widths[i] = n
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			for _, line := range strings.Split(cell, "\n") {
				if n := utf8.RuneCountInString(line); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	var b strings.Builder
	switch format {
	case FormatPlain:
		if len(headers) > 0 {
			writeAlignedRow(&b, headers, widths, "  ", "", "")
		}
		for _, row := range rows {
			writeAlignedRow(&b, row, widths, "  ", "", "")
		}
	case FormatSimple:
		if len(headers) > 0 {
			writeAlignedRow(&b, headers, widths, "  ", "", "")
			writeRule(&b, widths, "-", "  ", "", "")
		}
		for _, row := range rows {
			writeAlignedRow(&b, row, widths, "  ", "", "")
		}
	case FormatRst:
		writeRule(&b, widths, "=", "  ", "", "")
		if len(headers) > 0 {
			writeAlignedRow(&b, headers, widths, "  ", "", "")
			writeRule(&b, widths, "=", "  ", "", "")
		}
		for _, row := range rows {
			writeAlignedRow(&b, row, widths, "  ", "", "")
		}
		writeRule(&b, widths, "=", "  ", "", "")
	default: // psql
		writeRule(&b, widths, "-", "+", "+-", "-+")
		if len(headers) > 0 {
			writeAlignedRow(&b, headers, widths, " | ", "| ", " |")
			writeRule(&b, widths, "-", "+", "|-", "-|")
		}
		for _, row := range rows {
			writeAlignedRow(&b, row, widths, " | ", "| ", " |")
		}
		writeRule(&b, widths, "-", "+", "+-", "-+")
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeAlignedRow writes one logical row, expanding multi-line cells into
// as many visual lines as the tallest cell needs.
func writeAlignedRow(b *strings.Builder, row []string, widths []int, sep, prefix, suffix string) {
	height := 1
	cellLines := make([][]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		lines := strings.Split(cell, "\n")
		cellLines[i] = lines
		if len(lines) > height {
			height = len(lines)
		}
	}
	for ln := 0; ln < height; ln++ {
		parts := make([]string, len(widths))
		for i, lines := range cellLines {
			var text string
			if ln < len(lines) {
				text = lines[ln]
			}
			parts[i] = pad(text, widths[i])
		}
		line := prefix + strings.Join(parts, sep) + suffix
		if suffix == "" {
			line = strings.TrimRight(line, " ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// writeRule writes a horizontal rule matching the column widths.
func writeRule(b *strings.Builder, widths []int, dash, sep, prefix, suffix string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat(dash, w)
	}
	var line string
	if prefix == "" && suffix == "" {
		line = strings.Join(parts, sep)
	} else {
		line = prefix + strings.Join(parts, strings.ReplaceAll(sep, "+", dash+"+"+dash)) + suffix
	}
	b.WriteString(line)
	b.WriteString("\n")
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func formatMediawiki(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("{| class=\"wikitable\" style=\"text-align: left;\"\n")
	if len(headers) > 0 {
		b.WriteString("|-\n")
		b.WriteString("! " + strings.Join(headers, " !! ") + "\n")
	}
	for _, row := range rows {
		b.WriteString("|-\n")
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(cell, "\n", "<br>")
		}
		b.WriteString("| " + strings.Join(cells, " || ") + "\n")
	}
	b.WriteString("|}")
	return b.String()
}

func formatHTML(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	if len(headers) > 0 {
		b.WriteString("<thead>\n<tr>")
		for _, h := range headers {
			b.WriteString("<th>" + html.EscapeString(h) + "</th>")
		}
		b.WriteString("</tr>\n</thead>\n")
	}
	b.WriteString("<tbody>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}

func formatLatex(headers []string, rows [][]string) string {
	ncols := len(headers)
	for _, row := range rows {
		if len(row) > ncols {
			ncols = len(row)
		}
	}
	var b strings.Builder
	b.WriteString("\\begin{tabular}{" + strings.Repeat("l", ncols) + "}\n")
	b.WriteString("\\hline\n")
	if len(headers) > 0 {
		b.WriteString(latexRow(headers))
		b.WriteString("\\hline\n")
	}
	for _, row := range rows {
		b.WriteString(latexRow(row))
	}
	b.WriteString("\\hline\n")
	b.WriteString("\\end{tabular}")
	return b.String()
}

func latexRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = latexEscape(cell)
	}
	return " " + strings.Join(escaped, " & ") + " \\\\\n"
}

var latexReplacer = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"&", "\\&",
	"%", "\\%",
	"$", "\\$",
	"#", "\\#",
	"_", "\\_",
	"{", "\\{",
	"}", "\\}",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
	"\n", " ",
)

func latexEscape(s string) string {
	return latexReplacer.Replace(s)
}
