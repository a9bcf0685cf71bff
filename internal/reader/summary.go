package reader

import (
	"strconv"

	"request-to-standard/internal/models"
)

const maxExamplesPerColumn = 5

// ColumnSummary profiles one column of a dataset for the orchestrator that
// decides which target schema to standardize to.
type ColumnSummary struct {
	Type       string   `json:"type"` // string, number or empty
	Examples   []string `json:"examples"`
	NullCount  int      `json:"null_count"`
	TotalCount int      `json:"total_count"`
}

// DatasetSummary is the analysis payload returned by the /analyze endpoint.
type DatasetSummary struct {
	TotalRows    int                      `json:"total_rows"`
	TotalColumns int                      `json:"total_columns"`
	Columns      []string                 `json:"columns"`
	Profile      map[string]ColumnSummary `json:"profile"`
}

// Summarize profiles every column: up to 5 distinct non-null example values,
// null counts and a coarse type guess.
func Summarize(dataset *models.Dataset) DatasetSummary {
	summary := DatasetSummary{
		TotalRows:    dataset.RowsCount(),
		TotalColumns: dataset.ColumnsCount(),
		Columns:      append([]string(nil), dataset.Columns...),
		Profile:      make(map[string]ColumnSummary, len(dataset.Columns)),
	}

	for _, col := range dataset.Columns {
		cs := ColumnSummary{TotalCount: len(dataset.Rows)}
		seen := make(map[string]bool)
		numeric := true
		for _, row := range dataset.Rows {
			v := row[col]
			if models.IsMissing(v) {
				cs.NullCount++
				continue
			}
			s := models.CoerceString(v)
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
			if len(cs.Examples) < maxExamplesPerColumn && !seen[s] {
				seen[s] = true
				cs.Examples = append(cs.Examples, s)
			}
		}
		switch {
		case cs.NullCount == cs.TotalCount:
			cs.Type = "empty"
		case numeric:
			cs.Type = "number"
		default:
			cs.Type = "string"
		}
		summary.Profile[col] = cs
	}
	return summary
}
