// Package csvreader turns raw statement content into a grid of trimmed
// string cells. It tolerates the loose CSV that bank portals and spreadsheet
// tools produce: any of three delimiters, quoted fields, byte order marks
// and blank padding rows.
package csvreader

import (
	"io"
	"strings"

	"fjacquet/statement-csv/internal/parsererror"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Grid is the ordered rows of a statement, each an ordered list of cells.
// Rows may differ in length.
type Grid [][]string

// Delimiters in detection priority.
const (
	Tab       = '\t'
	Semicolon = ';'
	Comma     = ','
)

// Read decodes r and parses it. UTF-8 with or without a BOM and BOM-marked
// UTF-16 are accepted. Any failure of r is returned as a
// *parsererror.ReadError naming source.
func Read(source string, r io.Reader) (Grid, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	content, err := io.ReadAll(decoded)
	if err != nil {
		return nil, &parsererror.ReadError{Source: source, Err: err}
	}
	return Parse(string(content)), nil
}

// Parse splits content into lines, detects the delimiter on the first
// non-blank line and splits every line with it. Blank lines and rows whose
// cells are all empty are dropped.
func Parse(content string) Grid {
	lines := splitLines(content)
	if len(lines) == 0 {
		return Grid{}
	}

	delimiter := DetectDelimiter(lines[0])
	grid := make(Grid, 0, len(lines))
	for _, line := range lines {
		cells := SplitLine(line, delimiter)
		if isEmptyRow(cells) {
			continue
		}
		grid = append(grid, cells)
	}
	return grid
}

// DetectDelimiter picks tab, then semicolon, then comma, depending on which
// one first appears in line.
func DetectDelimiter(line string) rune {
	switch {
	case strings.ContainsRune(line, Tab):
		return Tab
	case strings.ContainsRune(line, Semicolon):
		return Semicolon
	default:
		return Comma
	}
}

// SplitLine splits one line on delimiter, honouring double quotes. A quote
// toggles quoted mode, delimiters inside quotes are literal and a doubled
// quote inside a quoted field yields one quote. Every cell is trimmed.
func SplitLine(line string, delimiter rune) []string {
	var (
		cells    []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(cells, strings.TrimSpace(current.String()))
}

// CellAt returns row[c], or "" when c is outside the row.
func CellAt(row []string, c int) string {
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

func splitLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := raw[:0]
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
