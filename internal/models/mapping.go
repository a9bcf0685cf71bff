package models

import "encoding/json"

// ColumnMapping maps source columns to target schema fields. It keeps the
// source columns in dataset order so that "first column mapped to a field"
// is deterministic, which plain map iteration would not be.
type ColumnMapping struct {
	columns []string
	targets map[string]string
}

func NewColumnMapping() *ColumnMapping {
	return &ColumnMapping{targets: make(map[string]string)}
}

// Set assigns a target field to a source column. A column maps to at most
// one field; repeated Set calls for the same column are ignored.
func (m *ColumnMapping) Set(column, field string) {
	if _, ok := m.targets[column]; ok {
		return
	}
	m.columns = append(m.columns, column)
	m.targets[column] = field
}

func (m *ColumnMapping) TargetOf(column string) (string, bool) {
	field, ok := m.targets[column]
	return field, ok
}

// SourceFor returns the first source column mapped to the given field.
func (m *ColumnMapping) SourceFor(field string) (string, bool) {
	for _, col := range m.columns {
		if m.targets[col] == field {
			return col, true
		}
	}
	return "", false
}

// HasTarget reports whether any column already maps to the given field.
func (m *ColumnMapping) HasTarget(field string) bool {
	_, ok := m.SourceFor(field)
	return ok
}

// Columns returns the mapped source columns in dataset order.
func (m *ColumnMapping) Columns() []string {
	return append([]string(nil), m.columns...)
}

func (m *ColumnMapping) Len() int {
	return len(m.columns)
}

// Rename returns a new mapping with every source column rewritten by fn,
// preserving order. Used when column names are normalized so the mapping
// keys stay consistent with the dataset.
func (m *ColumnMapping) Rename(fn func(string) string) *ColumnMapping {
	out := NewColumnMapping()
	for _, col := range m.columns {
		out.Set(fn(col), m.targets[col])
	}
	return out
}

func (m *ColumnMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.targets)
}
