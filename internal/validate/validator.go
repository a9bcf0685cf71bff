package validate

import (
	"fmt"
	"math"

	"request-to-standard/internal/models"
)

const (
	// Minimum fraction of schema-valid records for the batch to pass.
	confidenceThreshold = 0.8
	// Minimum completeness for a "good" integrity status.
	completenessThreshold = 0.9
	// Descriptive values shorter than this trigger a warning.
	minDescriptionLength = 20
)

// Score runs schema conformance and integrity checks over a batch of records
// and returns the combined validation result.
func Score(records []models.Record, schema models.Schema) models.ValidationResult {
	isValid, confidence, validCount, errs := conformance(records)
	return models.ValidationResult{
		IsValid:         isValid,
		ConfidenceScore: confidence,
		Errors:          errs,
		TotalRecords:    len(records),
		ValidRecords:    validCount,
		Integrity:       checkIntegrity(records, schema),
	}
}

// QualityScore blends schema confidence (60%) with field completeness (40%)
// into the single number surfaced to callers, rounded to 3 decimals.
func QualityScore(result models.ValidationResult) float64 {
	score := result.ConfidenceScore*0.6 + result.Integrity.CompletenessRate*0.4
	return math.Round(score*1000) / 1000
}

func conformance(records []models.Record) (bool, float64, int, []string) {
	if len(records) == 0 {
		return false, 0.0, 0, []string{"no records to validate"}
	}

	var errs []string
	validCount := 0
	for idx, rec := range records {
		fieldErrs := rec.Validate()
		if len(fieldErrs) == 0 {
			validCount++
			continue
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Sprintf("record %d: %s", idx, fe.Error()))
		}
	}

	confidence := float64(validCount) / float64(len(records))
	return confidence >= confidenceThreshold, confidence, validCount, errs
}

func checkIntegrity(records []models.Record, schema models.Schema) models.IntegrityReport {
	if len(records) == 0 {
		return models.IntegrityReport{Status: models.IntegrityEmpty, MissingFields: map[string]int{}}
	}

	required := schema.RequiredFields()
	descField := schema.LongTextField()

	completeCount := 0
	missingCounts := make(map[string]int)
	emptyDescriptions := 0
	shortDescriptions := 0

	for _, rec := range records {
		fields := rec.Fields()
		complete := true
		for _, field := range required {
			if fieldMissing(fields[field]) {
				missingCounts[field]++
				complete = false
			}
		}
		if complete {
			completeCount++
		}

		switch desc := fields[descField].(type) {
		case nil:
			emptyDescriptions++
		case string:
			if desc == "" {
				emptyDescriptions++
			} else if len([]rune(desc)) < minDescriptionLength {
				shortDescriptions++
			}
		}
	}

	var warnings []string
	if emptyDescriptions > 0 {
		warnings = append(warnings, fmt.Sprintf("%d records have an empty %s field", emptyDescriptions, descField))
	}
	if shortDescriptions > 0 {
		warnings = append(warnings, fmt.Sprintf("%d records have a very short %s field (< %d characters)", shortDescriptions, descField, minDescriptionLength))
	}

	completenessRate := float64(completeCount) / float64(len(records))
	status := models.IntegrityNeedsReview
	if completenessRate >= completenessThreshold && len(warnings) == 0 {
		status = models.IntegrityGood
	}

	// Only report fields that are actually missing somewhere.
	missing := make(map[string]int)
	for field, count := range missingCounts {
		if count > 0 {
			missing[field] = count
		}
	}

	return models.IntegrityReport{
		Status:              status,
		CompletenessRate:    completenessRate,
		CompleteRecords:     completeCount,
		TotalRecords:        len(records),
		MissingFields:       missing,
		DescriptionWarnings: warnings,
	}
}

func fieldMissing(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	default:
		return false
	}
}
