package ingest

import (
	"fmt"
	"strings"

	"capsight/internal/domain/schema"
)

// requiredColumns must all be present in the header row.
var requiredColumns = []string{"period_start", "period_end", "domain", "band", "count"}

// parseCSV parses the dashboard template CSV format: a header line followed
// by comma-separated data rows. Fields are split on commas with no quoting
// or escaping support; that is the documented contract of the template
// format, not an oversight. Whitespace-only lines are skipped. Row
// validation failures carry the 1-based line number of the original file.
func parseCSV(data []byte) ([]schema.Row, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	header := []string(nil)
	rows := make([]schema.Row, 0, len(lines))

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if header == nil {
			header = splitRecord(line)
			if err := checkHeader(header); err != nil {
				return nil, err
			}
			continue
		}

		candidate := recordToCandidate(header, splitRecord(line))
		row, err := schema.Validate(candidate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows found", ErrEmptyInput)
	}
	return rows, nil
}

// splitRecord splits a line on commas and trims each cell. Deliberately no
// quoted-field support.
func splitRecord(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// checkHeader verifies all required columns are present.
func checkHeader(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return nil
}

// recordToCandidate maps cells to header columns. A cell missing relative
// to the header row is treated as an empty string, not an error.
func recordToCandidate(header, cells []string) schema.Candidate {
	cell := func(col string) any {
		for i, h := range header {
			if h != col {
				continue
			}
			if i < len(cells) {
				return cells[i]
			}
			return ""
		}
		return nil
	}

	return schema.Candidate{
		PeriodStart: cell("period_start"),
		PeriodEnd:   cell("period_end"),
		Domain:      cell("domain"),
		Band:        cell("band"),
		Count:       cell("count"),
		ContextTag:  cell("context_tag"),
		Source:      cell("source"),
		Notes:       cell("notes"),
	}
}
