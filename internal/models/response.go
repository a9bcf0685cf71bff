package models

// FileInfo summarizes the ingested file.
type FileInfo struct {
	Filename     string `json:"filename"`
	SizeBytes    int64  `json:"size_bytes"`
	RowsCount    int    `json:"rows_count"`
	ColumnsCount int    `json:"columns_count"`
	FileType     string `json:"file_type"`
}

// IntegrityReport carries the completeness metrics of the validator.
type IntegrityReport struct {
	Status              string         `json:"status"` // good, needs_review, empty
	CompletenessRate    float64        `json:"completeness_rate"`
	CompleteRecords     int            `json:"complete_records"`
	TotalRecords        int            `json:"total_records"`
	MissingFields       map[string]int `json:"missing_fields"`
	DescriptionWarnings []string       `json:"description_warnings,omitempty"`
}

const (
	IntegrityGood        = "good"
	IntegrityNeedsReview = "needs_review"
	IntegrityEmpty       = "empty"
)

// ValidationResult is the outcome of schema conformance plus integrity checks.
type ValidationResult struct {
	IsValid         bool            `json:"is_valid"`
	ConfidenceScore float64         `json:"confidence_score"`
	Errors          []string        `json:"errors"`
	TotalRecords    int             `json:"total_records"`
	ValidRecords    int             `json:"valid_records"`
	Integrity       IntegrityReport `json:"integrity"`
}

// ResultMetadata accompanies the standardized data in the response.
type ResultMetadata struct {
	ColumnMapping *ColumnMapping   `json:"column_mapping"`
	Validation    ValidationResult `json:"validation"`
}

// ResultPayload is the schema-stamped result block of a response.
type ResultPayload struct {
	Format          string         `json:"format"`
	Data            []Record       `json:"data"`
	Metadata        ResultMetadata `json:"metadata"`
	ConfidenceScore float64        `json:"confidence_score"`
}

// StandardizationResponse is the single object returned to callers.
type StandardizationResponse struct {
	Success               bool          `json:"success"`
	Message               string        `json:"message"`
	SelectedSchema        Schema        `json:"selected_schema"`
	FileInfo              FileInfo      `json:"file_info"`
	Result                ResultPayload `json:"result"`
	ProcessingTimeSeconds float64       `json:"processing_time_seconds"`
}

// ImageDescriptor is a pre-extracted embedded image from a spreadsheet,
// keyed to the 0-based data row it is anchored to.
type ImageDescriptor struct {
	Base64 string `json:"base64"`
	Format string `json:"format"`
}
