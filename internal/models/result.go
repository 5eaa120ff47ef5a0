package models

// ReasonCode identifies why a submission was rejected or flagged.
type ReasonCode string

const (
	// Token failures.
	ReasonTokenInvalid          ReasonCode = "token_invalid"
	ReasonTokenExpired          ReasonCode = "token_expired"
	ReasonTokenAlreadyUsed      ReasonCode = "token_already_used"
	ReasonTokenWalletMismatch   ReasonCode = "token_wallet_mismatch"
	ReasonTokenGameTypeMismatch ReasonCode = "token_game_type_mismatch"
	ReasonServiceUnavailable    ReasonCode = "service_unavailable"

	// Validation failures.
	ReasonImpossibleSpeed     ReasonCode = "impossible_speed"
	ReasonDurationOutOfBounds ReasonCode = "duration_out_of_bounds"
	ReasonItemRateExceeded    ReasonCode = "item_rate_exceeded"
	ReasonCounterInconsistent ReasonCode = "counter_inconsistent"
	ReasonNegativeValue       ReasonCode = "negative_value"
	ReasonInteractionRate     ReasonCode = "interaction_rate_out_of_bounds"
	ReasonFeatureBeforeUnlock ReasonCode = "feature_before_unlock"
	ReasonScoreMismatch       ReasonCode = "score_mismatch"
	ReasonUnknownGameType     ReasonCode = "unknown_game_type"

	// Rate limiting.
	ReasonRateLimitHourly  ReasonCode = "rate_limit_hourly"
	ReasonRateLimitDaily   ReasonCode = "rate_limit_daily"
	ReasonRateLimitTooFast ReasonCode = "rate_limit_too_fast"
)

type Reason struct {
	Code   ReasonCode `json:"code"`
	Detail string     `json:"detail,omitempty"`
}

// ValidationResult collects the outcome of a check pass. Warnings never block
// on their own; Valid holds iff Errors is empty.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []Reason `json:"errors,omitempty"`
	Warnings []Reason `json:"warnings,omitempty"`
}

func NewValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func (r *ValidationResult) AddError(code ReasonCode, detail string) {
	r.Errors = append(r.Errors, Reason{Code: code, Detail: detail})
	r.Valid = false
}

func (r *ValidationResult) AddWarning(code ReasonCode, detail string) {
	r.Warnings = append(r.Warnings, Reason{Code: code, Detail: detail})
}

// Merge folds another result into this one.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Valid = len(r.Errors) == 0
}
