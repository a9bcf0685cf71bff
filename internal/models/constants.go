package models

const (
	ThinkTag  = `(?s)<think>.*?</think>`
	JSONFence = "(?s)```(?:json)?\\s*(.*?)\\s*```"
)

var (
	RuleSystemPromptTemplate = `You are a data analysis expert. You analyze data samples and produce transformation rules to the %s format. You always answer with valid JSON.`

	// RulePromptTemplate asks the model for transformation rules, not for
	// transformed records. Placeholders: schema name, schema JSON, column
	// mapping JSON, sample JSON.
	RulePromptTemplate = `Analyze this SAMPLE of records and produce TRANSFORMATION RULES to convert data to the %[1]s format.

IMPORTANT: do NOT transform the records. Only analyze the context and produce the RULES.

TARGET SCHEMA (%[1]s):
%[2]s

COLUMN MAPPING ALREADY IDENTIFIED:
%[3]s

DATA SAMPLE (up to 10 records for context analysis):
%[4]s

YOUR TASK:
Analyze the sample and produce transformation rules that will be applied to EVERY record of the dataset.

For each field of the %[1]s schema, specify:
- source_column: which source column the value comes from
- transformation: one of copy_as_is, copy_full_no_summarize, copy_if_exists_else_null, to_integer, split_semicolon_join_comma
- default_value: what to use when the source value is missing

Special rules per data type:
- Long text fields (texto/descripcion): ALWAYS copy_full_no_summarize, never summarize.
- Keywords/tags: if they use ";" or "," separators, use split_semicolon_join_comma.
- Numeric fields: to_integer with a default when missing.
- Optional fields: copy_if_exists_else_null.

ANSWER IN JSON FORMAT:
{
  "transformation_rules": {
    "titulo": {
      "source_column": "header",
      "transformation": "copy_as_is",
      "default_value": "Sin título"
    }
  },
  "context_analysis": {
    "data_type": "short description of the dataset",
    "observations": "anything relevant for the transformation"
  }
}

Answer ONLY with the rules JSON, no markdown and no extra text.`
)
