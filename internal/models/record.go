package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError describes a single schema constraint violation on a record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Record is one standardized target record, either RAG1 or RAG2.
type Record interface {
	Schema() Schema
	// Validate checks the schema's field constraints and returns one error
	// per violated constraint.
	Validate() []FieldError
	// Fields exposes the record's values keyed by wire field name, used by
	// the integrity check to count missing required fields.
	Fields() map[string]any
	// DescriptiveText returns the value of the schema's long-text field.
	DescriptiveText() string
	SetEmbedding(embedding []float32)
}

// RAG1Record is a structured document/article record.
type RAG1Record struct {
	ID           string    `json:"id"`
	ArticuloID   string    `json:"articulo_id"`
	Tipo         string    `json:"tipo"`
	Numero       int       `json:"numero"`
	Titulo       string    `json:"titulo"`
	Texto        string    `json:"texto"`
	ImageCaption *string   `json:"image_caption"`
	Keywords     *string   `json:"keywords"`
	Embedding    []float32 `json:"embedding"`
}

// NewRAG1Record coerces raw transformed values into a RAG1 record and
// validates it. Coercion mirrors the final typing pass: strings are forced,
// numero must parse as an integer, optional fields become null when empty.
func NewRAG1Record(fields map[string]any) (*RAG1Record, error) {
	numero, err := coerceInt(fields["numero"])
	if err != nil {
		return nil, fmt.Errorf("numero: %w", err)
	}
	rec := &RAG1Record{
		ID:           coerceString(fields["id"]),
		ArticuloID:   coerceString(fields["articulo_id"]),
		Tipo:         coerceStringDefault(fields["tipo"], "General"),
		Numero:       numero,
		Titulo:       coerceString(fields["titulo"]),
		Texto:        coerceString(fields["texto"]),
		ImageCaption: coerceOptional(fields["image_caption"]),
		Keywords:     coerceOptional(fields["keywords"]),
	}
	if errs := rec.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return rec, nil
}

func (r *RAG1Record) Schema() Schema { return SchemaRAG1 }

func (r *RAG1Record) Validate() []FieldError {
	var errs []FieldError
	if r.Numero < 0 || r.Numero > 32767 {
		errs = append(errs, FieldError{
			Field:   "numero",
			Message: fmt.Sprintf("value %d out of range [0, 32767]", r.Numero),
		})
	}
	return errs
}

func (r *RAG1Record) Fields() map[string]any {
	return map[string]any{
		"id":            r.ID,
		"articulo_id":   r.ArticuloID,
		"tipo":          r.Tipo,
		"numero":        r.Numero,
		"titulo":        r.Titulo,
		"texto":         r.Texto,
		"image_caption": optionalValue(r.ImageCaption),
		"keywords":      optionalValue(r.Keywords),
	}
}

func (r *RAG1Record) DescriptiveText() string { return r.Texto }

func (r *RAG1Record) SetEmbedding(embedding []float32) { r.Embedding = embedding }

// RAG2Record is a service/ticket/request record.
type RAG2Record struct {
	ID           string    `json:"id"`
	Descripcion  string    `json:"descripcion"`
	Tipo         string    `json:"tipo"`
	Servicio     string    `json:"servicio"`
	Categoria    string    `json:"categoria"`
	Subcategoria string    `json:"subcategoria"`
	Fuente       string    `json:"fuente"`
	Embedding    []float32 `json:"embedding"`
}

func NewRAG2Record(fields map[string]any) (*RAG2Record, error) {
	rec := &RAG2Record{
		ID:           coerceString(fields["id"]),
		Descripcion:  coerceString(fields["descripcion"]),
		Tipo:         coerceStringDefault(fields["tipo"], "General"),
		Servicio:     coerceStringDefault(fields["servicio"], "Sin especificar"),
		Categoria:    coerceStringDefault(fields["categoria"], "General"),
		Subcategoria: coerceStringDefault(fields["subcategoria"], "General"),
		Fuente:       coerceStringDefault(fields["fuente"], "csv"),
	}
	if errs := rec.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return rec, nil
}

func (r *RAG2Record) Schema() Schema { return SchemaRAG2 }

func (r *RAG2Record) Validate() []FieldError {
	return nil
}

func (r *RAG2Record) Fields() map[string]any {
	return map[string]any{
		"id":           r.ID,
		"descripcion":  r.Descripcion,
		"tipo":         r.Tipo,
		"servicio":     r.Servicio,
		"categoria":    r.Categoria,
		"subcategoria": r.Subcategoria,
		"fuente":       r.Fuente,
	}
}

func (r *RAG2Record) DescriptiveText() string { return r.Descripcion }

func (r *RAG2Record) SetEmbedding(embedding []float32) { r.Embedding = embedding }

// NewRecord builds a record of the given schema from raw transformed values.
func NewRecord(schema Schema, fields map[string]any) (Record, error) {
	if schema == SchemaRAG1 {
		return NewRAG1Record(fields)
	}
	return NewRAG2Record(fields)
}

func coerceString(v any) string {
	return CoerceString(v)
}

func coerceStringDefault(v any, def string) string {
	s := CoerceString(v)
	if s == "" {
		return def
	}
	return s
}

func coerceOptional(v any) *string {
	s := CoerceString(v)
	if s == "" {
		return nil
	}
	return &s
}

func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}

// CoerceString renders any scalar value as a string. Nil becomes the empty
// string; floats drop a trailing ".0" the way spreadsheet integers arrive.
func CoerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return CoerceString(float64(s))
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsMissing reports whether a raw cell value counts as absent: nil or a
// blank/NaN-artifact string.
func IsMissing(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		t := strings.TrimSpace(s)
		return t == "" || t == "nan" || t == "None"
	default:
		return false
	}
}

func optionalValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
