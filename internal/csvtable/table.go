// Package csvtable fetches comma-separated text resources and maps them to
// header-keyed records.
//
// The dialect is deliberately minimal: rows are split on "," with no quoted
// fields or escaped commas. The datasets served to the dashboard never quote
// their cells, and a quote-aware reader would change how ragged lines are
// zipped against the header.
package csvtable

import (
	"context"
	"strings"
)

// RawRecord maps a header name to the raw cell value of one data line.
type RawRecord map[string]string

// Table is a parsed CSV resource: the ordered header and one record per data
// line, in file order.
type Table struct {
	Header  []string
	Records []RawRecord
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Records) }

// Parse splits text into a Table. The first line is the header; every later
// line is zipped positionally with it. Missing trailing cells map to "" and
// cells beyond the header width are dropped. Empty input yields an empty
// table.
func Parse(text string) Table {
	text = strings.TrimSpace(text)
	if text == "" {
		return Table{}
	}

	lines := splitLines(text)
	header := splitCells(lines[0])

	records := make([]RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := splitCells(line)
		rec := make(RawRecord, len(header))
		for i, name := range header {
			if i < len(cells) {
				rec[name] = cells[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}

	return Table{Header: header, Records: records}
}

// Load fetches the resource at path and parses it. Each call performs a
// fresh fetch; nothing is cached between calls.
func Load(ctx context.Context, f Fetcher, path string) (Table, error) {
	text, err := f.Fetch(ctx, path)
	if err != nil {
		return Table{}, err
	}
	return Parse(text), nil
}

// splitLines splits on "\n", treating "\r\n" as a single boundary.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
