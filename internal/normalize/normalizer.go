package normalize

import (
	"errors"
	"strconv"
	"strings"

	"request-to-standard/internal/models"
)

var ErrEmptyDataset = errors.New("normalized dataset is empty")

// NormalizeName converts a column name to its canonical form: lower-cased,
// trimmed, spaces and hyphens replaced with underscores.
func NormalizeName(column string) string {
	name := strings.TrimSpace(strings.ToLower(column))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "-", "_")
}

// Normalize canonicalizes column names and coerces mapped columns to their
// schema types. The mapping is rewritten with the same renames so downstream
// lookups stay consistent. Only mapped columns are coerced: the column mapped
// to numero becomes an integer (invalid or missing values become 0), every
// other mapped column becomes a string with "nan"/"None" artifacts scrubbed.
func Normalize(dataset *models.Dataset, mapping *models.ColumnMapping) (*models.Dataset, *models.ColumnMapping, error) {
	renamed := renameColumns(dataset)
	newMapping := mapping.Rename(NormalizeName)

	for _, row := range renamed.Rows {
		for _, col := range renamed.Columns {
			field, ok := newMapping.TargetOf(col)
			if !ok {
				continue
			}
			if field == "numero" {
				row[col] = toInt(row[col])
			} else {
				row[col] = toCleanString(row[col])
			}
		}
	}

	if renamed.IsEmpty() {
		return nil, nil, ErrEmptyDataset
	}
	return renamed, newMapping, nil
}

func renameColumns(dataset *models.Dataset) *models.Dataset {
	out := &models.Dataset{}
	renames := make(map[string]string, len(dataset.Columns))
	for _, col := range dataset.Columns {
		name := NormalizeName(col)
		renames[col] = name
		out.Columns = append(out.Columns, name)
	}
	for _, row := range dataset.Rows {
		newRow := make(models.Row, len(row))
		for _, col := range dataset.Columns {
			newRow[renames[col]] = row[col]
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

func toInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func toCleanString(v any) string {
	s := models.CoerceString(v)
	if s == "nan" || s == "None" {
		return ""
	}
	return s
}
