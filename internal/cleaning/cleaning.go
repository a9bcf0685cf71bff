package cleaning

import (
	"regexp"
	"strings"

	"request-to-standard/internal/models"
)

// Missing-value strategies.
const (
	MissingKeep      = "keep"
	MissingDrop      = "drop"
	MissingFillEmpty = "fill_empty"
)

var (
	// Keeps letters, digits, whitespace and basic punctuation.
	specialCharsPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:\-]`)
	// Keeps letters, digits and whitespace only.
	strictCharsPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Options control the cleaning passes. The zero value disables the optional
// passes; DefaultOptions matches the standard pipeline behavior.
type Options struct {
	RemoveSpecialChars   bool
	KeepBasicPunctuation bool
	MissingStrategy      string
}

func DefaultOptions() Options {
	return Options{
		RemoveSpecialChars:   true,
		KeepBasicPunctuation: true,
		MissingStrategy:      MissingKeep,
	}
}

// Clean runs the whitespace, encoding, special-character and missing-value
// passes in that order. Order matters: trimming happens before character
// filtering so stray padding never shields a disallowed character. A new
// dataset is returned; the input is not modified.
func Clean(dataset *models.Dataset, opts Options) *models.Dataset {
	out := CleanWhitespace(dataset)
	out = NormalizeEncoding(out)
	if opts.RemoveSpecialChars {
		out = RemoveSpecialCharacters(out, opts.KeepBasicPunctuation)
	}
	return HandleMissingValues(out, opts.MissingStrategy)
}

// CleanWhitespace trims column names and string cell values.
func CleanWhitespace(dataset *models.Dataset) *models.Dataset {
	return mapDataset(dataset, strings.TrimSpace, func(v any) any {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return v
	})
}

// NormalizeEncoding drops bytes that are not valid UTF-8 from string cells.
func NormalizeEncoding(dataset *models.Dataset) *models.Dataset {
	return mapDataset(dataset, identity, func(v any) any {
		if s, ok := v.(string); ok {
			return strings.ToValidUTF8(s, "")
		}
		return v
	})
}

// RemoveSpecialCharacters strips disallowed characters from string cells.
func RemoveSpecialCharacters(dataset *models.Dataset, keepBasicPunctuation bool) *models.Dataset {
	pattern := strictCharsPattern
	if keepBasicPunctuation {
		pattern = specialCharsPattern
	}
	return mapDataset(dataset, identity, func(v any) any {
		if s, ok := v.(string); ok {
			return pattern.ReplaceAllString(s, "")
		}
		return v
	})
}

// HandleMissingValues applies the configured policy to nil cells: keep them,
// drop rows containing any, or replace them with empty strings.
func HandleMissingValues(dataset *models.Dataset, strategy string) *models.Dataset {
	switch strategy {
	case MissingDrop:
		out := &models.Dataset{Columns: append([]string(nil), dataset.Columns...)}
		for _, row := range dataset.Rows {
			if rowHasMissing(row, dataset.Columns) {
				continue
			}
			out.Rows = append(out.Rows, copyRow(row))
		}
		return out
	case MissingFillEmpty:
		return mapDataset(dataset, identity, func(v any) any {
			if v == nil {
				return ""
			}
			return v
		})
	default:
		return mapDataset(dataset, identity, identityValue)
	}
}

func rowHasMissing(row models.Row, columns []string) bool {
	for _, col := range columns {
		if row[col] == nil {
			return true
		}
	}
	return false
}

func copyRow(row models.Row) models.Row {
	out := make(models.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func identity(s string) string { return s }

func identityValue(v any) any { return v }

// mapDataset rebuilds a dataset applying colFn to column names and valFn to
// cell values. Row keys follow the renamed columns.
func mapDataset(dataset *models.Dataset, colFn func(string) string, valFn func(any) any) *models.Dataset {
	out := &models.Dataset{}
	renames := make(map[string]string, len(dataset.Columns))
	for _, col := range dataset.Columns {
		renamed := colFn(col)
		renames[col] = renamed
		out.Columns = append(out.Columns, renamed)
	}
	for _, row := range dataset.Rows {
		newRow := make(models.Row, len(row))
		for _, col := range dataset.Columns {
			newRow[renames[col]] = valFn(row[col])
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}
