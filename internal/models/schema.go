package models

import "fmt"

// Schema identifies one of the two closed target record formats.
type Schema string

const (
	SchemaRAG1 Schema = "rag1" // structured documents/articles
	SchemaRAG2 Schema = "rag2" // services/tickets/requests
)

func ParseSchema(s string) (Schema, error) {
	switch Schema(s) {
	case SchemaRAG1, SchemaRAG2:
		return Schema(s), nil
	default:
		return "", fmt.Errorf("unknown target schema: %q (use rag1 or rag2)", s)
	}
}

func (s Schema) Format() string {
	return string(s) + "_standard"
}

// Fields returns the transformable target fields, in schema order. The
// generated id and the embedding are not listed; they are never rule-driven.
func (s Schema) Fields() []string {
	if s == SchemaRAG1 {
		return []string{"articulo_id", "tipo", "numero", "titulo", "texto", "image_caption", "keywords"}
	}
	return []string{"descripcion", "tipo", "servicio", "categoria", "subcategoria", "fuente"}
}

// RequiredFields returns the fields that must be present and non-empty for a
// record to count as complete in the integrity check.
func (s Schema) RequiredFields() []string {
	if s == SchemaRAG1 {
		return []string{"id", "articulo_id", "tipo", "numero", "titulo", "texto"}
	}
	return []string{"id", "descripcion", "tipo", "servicio", "categoria", "subcategoria", "fuente"}
}

// LongTextField is the designated descriptive field of the schema, used by
// the long-text auto-mapping heuristic and the integrity warnings.
func (s Schema) LongTextField() string {
	if s == SchemaRAG1 {
		return "texto"
	}
	return "descripcion"
}

// Description is a short human description used in the rule-inference prompt.
func (s Schema) Description() string {
	if s == SchemaRAG1 {
		return "Structured documents with articles/regulations"
	}
	return "Services, tickets and requests"
}

var rag1Defaults = map[string]any{
	"articulo_id":   "ART-0000",
	"tipo":          "General",
	"numero":        0,
	"titulo":        "Sin título",
	"texto":         "",
	"image_caption": nil,
	"keywords":      nil,
}

var rag2Defaults = map[string]any{
	"descripcion":  "",
	"tipo":         "General",
	"servicio":     "Sin especificar",
	"categoria":    "General",
	"subcategoria": "General",
	"fuente":       "csv",
}

// DefaultValue returns the static per-field default used when a field has no
// transformation rule and its mapped column is missing or empty.
func (s Schema) DefaultValue(field string) any {
	if s == SchemaRAG1 {
		return rag1Defaults[field]
	}
	return rag2Defaults[field]
}

// IndexDefault returns the row-index based default used on the whole-dataset
// direct-mapping fallback path (no LLM rules at all). Fields without an
// index-based form fall back to the static default.
func (s Schema) IndexDefault(field string, index int) any {
	if s == SchemaRAG1 {
		switch field {
		case "articulo_id":
			return fmt.Sprintf("ART%04d", index)
		case "numero":
			return index
		}
	} else if field == "descripcion" {
		return fmt.Sprintf("Registro %d", index)
	}
	return s.DefaultValue(field)
}
