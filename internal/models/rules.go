package models

// Transformation kinds the rule-inference client may return. Unknown kinds
// are treated as TransformCopyAsIs by the applier.
const (
	TransformCopyAsIs       = "copy_as_is"
	TransformCopyFull       = "copy_full_no_summarize"
	TransformCopyIfExists   = "copy_if_exists_else_null"
	TransformToInteger      = "to_integer"
	TransformSplitSemicolon = "split_semicolon_join_comma"
)

// TransformationRule tells the applier how to fill one target field from a
// source column, for every row of the dataset.
type TransformationRule struct {
	SourceColumn   string `json:"source_column"`
	Transformation string `json:"transformation"`
	DefaultValue   any    `json:"default_value"`
}

// RuleSet maps target fields to their inferred transformation rules. Fields
// without a rule fall back to direct column mapping.
type RuleSet map[string]TransformationRule
