package mapping

import (
	"strings"

	"github.com/rs/zerolog/log"

	"request-to-standard/internal/models"
)

// Columns whose mean sample value length exceeds this are treated as
// descriptive long text and auto-mapped to the schema's long-text field.
const longTextThreshold = 50

const longTextSampleSize = 3

// keywordRule pairs a keyword substring with the target field it claims.
// Table order encodes priority: for each column the first matching rule wins.
type keywordRule struct {
	keyword string
	field   string
}

var rag1Rules = []keywordRule{
	// identifiers
	{"articulo", "articulo_id"},
	{"article", "articulo_id"},
	{"doc_ref", "articulo_id"},
	{"doc_id", "articulo_id"},
	{"id", "articulo_id"},
	{"ref", "articulo_id"},
	// type/category
	{"tipo", "tipo"},
	{"type", "tipo"},
	{"category", "tipo"},
	{"categoria", "tipo"},
	// number/section
	{"numero", "numero"},
	{"num", "numero"},
	{"section", "numero"},
	{"seccion", "numero"},
	// title/header
	{"titulo", "titulo"},
	{"title", "titulo"},
	{"header", "titulo"},
	{"encabezado", "titulo"},
	{"name", "titulo"},
	{"nombre", "titulo"},
	// body text
	{"body_content", "texto"},
	{"body", "texto"},
	{"content", "texto"},
	{"texto", "texto"},
	{"text", "texto"},
	{"contenido", "texto"},
	{"descripcion", "texto"},
	{"description", "texto"},
	{"detalle", "texto"},
	{"detail", "texto"},
	// keywords/tags
	{"keywords", "keywords"},
	{"tags", "keywords"},
	{"palabras_clave", "keywords"},
	{"etiquetas", "keywords"},
	// image caption
	{"image_caption", "image_caption"},
	{"fig_desc", "image_caption"},
	{"caption", "image_caption"},
	{"figura", "image_caption"},
}

// Note: category/categoria deliberately claim "categoria" here, not "tipo";
// only the tipo/type keywords reach the tipo field in RAG2.
var rag2Rules = []keywordRule{
	// description
	{"body_content", "descripcion"},
	{"body", "descripcion"},
	{"descripcion", "descripcion"},
	{"description", "descripcion"},
	{"texto", "descripcion"},
	{"text", "descripcion"},
	{"contenido", "descripcion"},
	{"detalle", "descripcion"},
	{"detail", "descripcion"},
	// type
	{"tipo", "tipo"},
	{"type", "tipo"},
	{"category", "categoria"},
	{"categoria", "categoria"},
	// service
	{"servicio", "servicio"},
	{"service", "servicio"},
	// subcategory
	{"subcategoria", "subcategoria"},
	{"subcategory", "subcategoria"},
	// source
	{"fuente", "fuente"},
	{"source", "fuente"},
	{"origen", "fuente"},
}

func rulesFor(schema models.Schema) []keywordRule {
	if schema == models.SchemaRAG1 {
		return rag1Rules
	}
	return rag2Rules
}

// Map assigns target schema fields to source columns. Keyword rules run
// first, in priority order; columns still unmapped afterwards may claim the
// schema's long-text field through the mean-length heuristic, at most once.
func Map(dataset *models.Dataset, schema models.Schema) *models.ColumnMapping {
	mapping := models.NewColumnMapping()
	rules := rulesFor(schema)

	for _, col := range dataset.Columns {
		colLower := strings.ToLower(col)
		for _, rule := range rules {
			if strings.Contains(colLower, rule.keyword) {
				mapping.Set(col, rule.field)
				break
			}
		}
	}

	longText := schema.LongTextField()
	for _, col := range dataset.Columns {
		if _, ok := mapping.TargetOf(col); ok {
			continue
		}
		if mapping.HasTarget(longText) {
			break
		}
		avg := meanSampleLength(dataset, col)
		if avg > longTextThreshold {
			mapping.Set(col, longText)
			log.Info().
				Str("column", col).
				Str("field", longText).
				Float64("avg_length", avg).
				Msg("Auto-mapped descriptive column")
		}
	}

	return mapping
}

// meanSampleLength averages the string length of the first non-null sample
// values of a column. Returns 0 when the column has no usable values.
func meanSampleLength(dataset *models.Dataset, column string) float64 {
	var total, count int
	for _, row := range dataset.Rows {
		v := row[column]
		if models.IsMissing(v) {
			continue
		}
		total += len([]rune(models.CoerceString(v)))
		count++
		if count == longTextSampleSize {
			break
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
