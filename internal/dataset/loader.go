package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Submission is one schedule description read from a batch spreadsheet.
type Submission struct {
	ID          string
	Description string
}

// Load reads schedule descriptions from the first sheet of an Excel
// workbook, auto-detecting the description column by header heuristics.
// Rows with an empty description are skipped quietly.
func Load(path string) ([]Submission, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	descIdx := -1
	idIdx := -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "schedule") || strings.Contains(l, "description") || strings.Contains(l, "text"):
			if descIdx == -1 {
				descIdx = i
			}
		case l == "id" || strings.Contains(l, "name"):
			if idIdx == -1 {
				idIdx = i
			}
		}
	}
	if descIdx == -1 {
		// fall back to the last column
		descIdx = len(header) - 1
	}

	var out []Submission
	for i, r := range rows {
		if i == 0 {
			continue
		}
		sub := Submission{}
		if idIdx >= 0 && idIdx < len(r) {
			sub.ID = strings.TrimSpace(r[idIdx])
		}
		if sub.ID == "" {
			sub.ID = fmt.Sprintf("row-%d", i+1)
		}
		if descIdx < len(r) {
			sub.Description = strings.TrimSpace(r[descIdx])
		}
		if sub.Description == "" {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}
