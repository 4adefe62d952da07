package parsing

import "fmt"

// Stage identifies where model-based extraction failed.
type Stage string

// Extraction stages
const (
	StageRequest Stage = "request"
	StageDecode  Stage = "decode"
)

// ExtractionError reports a failed model extraction. The parser recovers from it
// by falling back to regex extraction.
type ExtractionError struct {
	Stage Stage
	Cause error
}

func (e *ExtractionError) Error() string {
	switch e.Stage {
	case StageRequest:
		return fmt.Sprintf("job requirements request failed: %v", e.Cause)
	case StageDecode:
		return fmt.Sprintf("job requirements response not decodable: %v", e.Cause)
	default:
		return fmt.Sprintf("job requirements extraction failed: %v", e.Cause)
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ValidationError reports input or an extracted field that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
