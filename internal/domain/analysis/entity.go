package analysis

// Verdict enum: the four fixed analysis texts, picked by confidence bucket.
type Verdict string

const (
	VerdictExcellent    Verdict = "Excellently balanced composition"
	VerdictGood         Verdict = "Good composition with minor deviations"
	VerdictNeedsWork    Verdict = "Composition needs adjustment"
	VerdictUnclassified Verdict = "Unconventional composition, expert review required"
)

// Result messages reported back to the main service.
const (
	MessageCompleted = "analysis completed successfully"
	MessageFailed    = "analysis failed: insufficient data or computation error"
)

// Request is a unit of analysis work submitted by the main service.
// FactorX/FactorY are the composition center coordinates; both optional.
type Request struct {
	RequestID   int64    `json:"request_id"`
	FactorX     *float64 `json:"factor_x,omitempty"`
	FactorY     *float64 `json:"factor_y,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Result is the outcome of one analysis run.
// AnalysisResult and ConfidenceScore are set iff Success; the JSON keys are
// always emitted (null on failure) because the callback contract requires them.
type Result struct {
	RequestID       int64    `json:"request_id"`
	Success         bool     `json:"success"`
	AnalysisResult  *string  `json:"analysis_result"`
	ConfidenceScore *float64 `json:"confidence_score"`
	ProcessingTime  float64  `json:"processing_time"`
	Message         string   `json:"message"`
}
