package reader

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"request-to-standard/internal/models"
)

// ExtractImages pulls embedded pictures out of an XLSX file and keys them by
// the 0-based data row they are anchored to (row 1 is assumed to be the
// header). Extraction never fails into the pipeline: any error is logged and
// an empty map returned. CSV input has no images by definition.
func ExtractImages(content []byte, filename string) map[int][]models.ImageDescriptor {
	imagesByRow := make(map[int][]models.ImageDescriptor)

	fileType, err := DetectFileType(filename)
	if err != nil || fileType != "xlsx" {
		return imagesByRow
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Could not open workbook for image extraction")
		return imagesByRow
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return imagesByRow
	}

	cells, err := f.GetPictureCells(sheets[0])
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Could not list picture cells")
		return imagesByRow
	}

	for _, cell := range cells {
		pics, err := f.GetPictures(sheets[0], cell)
		if err != nil {
			log.Warn().Err(err).Str("cell", cell).Msg("Could not read picture")
			continue
		}
		_, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			continue
		}
		// Row 1 is the header, so data row 0 starts at sheet row 2.
		rowIndex := row - 2
		if rowIndex < 0 {
			rowIndex = 0
		}
		for _, pic := range pics {
			imagesByRow[rowIndex] = append(imagesByRow[rowIndex], models.ImageDescriptor{
				Base64: base64.StdEncoding.EncodeToString(pic.File),
				Format: strings.TrimPrefix(strings.ToLower(pic.Extension), "."),
			})
		}
	}

	if len(imagesByRow) > 0 {
		log.Info().Int("rows", len(imagesByRow)).Str("filename", filename).Msg("Extracted embedded images")
	}
	return imagesByRow
}
