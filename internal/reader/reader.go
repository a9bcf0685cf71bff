package reader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx"

	"request-to-standard/internal/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("file has no rows or no columns")
)

// DetectFileType maps a filename extension to a supported file type.
func DetectFileType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return "csv", nil
	case ".xlsx", ".xls":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%w: %s (use CSV or XLSX)", ErrUnsupportedType, ext)
	}
}

// Read parses raw file bytes into a dataset. The first row is the header;
// empty cells become nil so the missing-value policy can see them.
func Read(content []byte, filename string) (*models.Dataset, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}

	var dataset *models.Dataset
	switch fileType {
	case "csv":
		dataset, err = readCSV(content)
	case "xlsx":
		dataset, err = readXLSX(content)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	if dataset.IsEmpty() {
		return nil, ErrEmptyFile
	}
	return dataset, nil
}

func readCSV(content []byte) (*models.Dataset, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &models.Dataset{}, nil
	}

	dataset := &models.Dataset{Columns: records[0]}
	for _, raw := range records[1:] {
		row := make(models.Row, len(dataset.Columns))
		for i, col := range dataset.Columns {
			if i < len(raw) && raw[i] != "" {
				row[col] = raw[i]
			} else {
				row[col] = nil
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

func readXLSX(content []byte) (*models.Dataset, error) {
	f, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, err
	}
	if len(f.Sheets) == 0 {
		return &models.Dataset{}, nil
	}

	// Only the first sheet holds tabular data; the rest are ignored.
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return &models.Dataset{}, nil
	}

	var columns []string
	for _, cell := range sheet.Rows[0].Cells {
		columns = append(columns, cell.String())
	}

	dataset := &models.Dataset{Columns: columns}
	for _, sheetRow := range sheet.Rows[1:] {
		row := make(models.Row, len(columns))
		for i, col := range columns {
			var value string
			if i < len(sheetRow.Cells) {
				value = sheetRow.Cells[i].String()
			}
			if value == "" {
				row[col] = nil
			} else {
				row[col] = value
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

// FileInfo describes a parsed file for the response envelope.
func FileInfo(dataset *models.Dataset, filename string, sizeBytes int64) models.FileInfo {
	fileType, _ := DetectFileType(filename)
	return models.FileInfo{
		Filename:     filename,
		SizeBytes:    sizeBytes,
		RowsCount:    dataset.RowsCount(),
		ColumnsCount: dataset.ColumnsCount(),
		FileType:     fileType,
	}
}
