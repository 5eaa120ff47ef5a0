package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"arcade-rewards-backend/internal/models"
)

// ValidateSubmission runs every plausibility check for a submission against
// its game's limit profile. Pure: no I/O, no shared state, safe under
// unlimited concurrency. Each check contributes independently, so a rejected
// submission carries every reason it tripped, not just the first.
func ValidateSubmission(sub *models.GameSubmission, profile models.PhysicsLimitProfile) *models.ValidationResult {
	result := models.NewValidationResult()

	validateNonNegative(sub, result)
	validateDuration(sub, profile, result)
	validateSpeed(sub, profile, result)
	validateScoreConsistency(sub, profile, result)
	validateItemRates(sub, profile, result)
	validateCrossChecks(sub, profile, result)
	validateInteractionRate(sub, profile, result)
	validateUnlockThresholds(sub, profile, result)

	return result
}

// ValidateUnregistered is the degraded pass for game types without a profile:
// only the checks that need no physics table apply. The caller decides
// whether lacking a profile is itself an error or a warning.
func ValidateUnregistered(sub *models.GameSubmission) *models.ValidationResult {
	result := models.NewValidationResult()
	validateNonNegative(sub, result)
	return result
}

// Negative anything is fabricated; there is no legitimate path to it.
func validateNonNegative(sub *models.GameSubmission, result *models.ValidationResult) {
	if sub.Score < 0 {
		result.AddError(models.ReasonNegativeValue, fmt.Sprintf("score=%d", sub.Score))
	}
	if sub.Distance < 0 {
		result.AddError(models.ReasonNegativeValue, fmt.Sprintf("distance=%.2f", sub.Distance))
	}
	if sub.TimeMS < 0 {
		result.AddError(models.ReasonNegativeValue, fmt.Sprintf("time_ms=%d", sub.TimeMS))
	}

	for _, name := range sortedCounterNames(sub) {
		if count := sub.Counters()[name]; count < 0 {
			result.AddError(models.ReasonNegativeValue, fmt.Sprintf("%s=%d", name, count))
		}
	}
}

// Too-short games are almost always fabricated; absurdly long ones indicate a
// stalled or idle exploit.
func validateDuration(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	if sub.TimeMS < profile.MinGameTimeMS {
		result.AddError(models.ReasonDurationOutOfBounds,
			fmt.Sprintf("time_ms=%d below minimum %d", sub.TimeMS, profile.MinGameTimeMS))
		return
	}
	if sub.TimeMS > profile.MaxGameTimeMS {
		result.AddError(models.ReasonDurationOutOfBounds,
			fmt.Sprintf("time_ms=%d above maximum %d", sub.TimeMS, profile.MaxGameTimeMS))
	}
}

// Average speed is derived from two self-reported numbers and bounded by what
// the real game physics can reach. This is the primary distance-fabrication
// defense.
func validateSpeed(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	if sub.TimeMS <= 0 || profile.MaxSpeedMS <= 0 {
		return
	}

	speed := sub.SpeedMS()
	if speed > profile.MaxSpeedMS {
		result.AddError(models.ReasonImpossibleSpeed,
			fmt.Sprintf("claimed %.2f m/s, physics cap %.2f m/s", speed, profile.MaxSpeedMS))
	}
}

// Score tracks a primary counter per game type. Rounding drift is expected,
// so mismatches warn rather than reject.
func validateScoreConsistency(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	var expected float64
	switch profile.ScoreBasis {
	case models.ScoreTracksDistance:
		expected = sub.Distance
	case models.ScoreTracksObstacles:
		expected = float64(sub.ObstaclesPassed)
	default:
		return
	}

	if math.Abs(float64(sub.Score)-expected) > float64(profile.ScoreTolerance) {
		result.AddWarning(models.ReasonScoreMismatch,
			fmt.Sprintf("score=%d, expected ~%.0f (±%d)", sub.Score, expected, profile.ScoreTolerance))
	}
}

// Each capped counter is bounded per 100 distance units. Claiming pickups
// without covering any distance trips the same check.
func validateItemRates(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	counters := sub.Counters()

	names := lo.Keys(profile.MaxRatePer100)
	sort.Strings(names)

	for _, name := range names {
		limit := profile.MaxRatePer100[name]
		count := counters[name]
		if count <= 0 || limit <= 0 {
			continue
		}

		if sub.Distance <= 0 {
			result.AddError(models.ReasonItemRateExceeded,
				fmt.Sprintf("%s=%d with no distance covered", name, count))
			continue
		}

		rate := float64(count) / (sub.Distance / 100.0)
		if rate > limit {
			result.AddError(models.ReasonItemRateExceeded,
				fmt.Sprintf("%s rate %.2f per 100 units exceeds cap %.2f", name, rate, limit))
		}
	}
}

// Bonus counters gated on another counter cannot outrun their precondition:
// dependent ≤ floor(source / source_per_dependent).
func validateCrossChecks(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	counters := sub.Counters()

	for _, check := range profile.CrossChecks {
		if check.SourcePerDependent <= 0 {
			continue
		}

		dependent := counters[check.Dependent]
		source := counters[check.Source]
		if dependent < 0 || source < 0 {
			continue // already rejected by non-negativity
		}

		if dependent > source/check.SourcePerDependent {
			result.AddError(models.ReasonCounterInconsistent,
				fmt.Sprintf("%s=%d requires at least %d %s, got %d",
					check.Dependent, dependent, dependent*check.SourcePerDependent, check.Source, source))
		}
	}
}

// minInteractionDistance is the progress past which a tap-driven game cannot
// plausibly have advanced on its own; the lower interaction bound only kicks
// in beyond it so instant deaths aren't penalized.
const minInteractionDistance = 100.0

// The upper bound rejects input automation (more taps per second than a human
// sustains); the lower bound rejects claimed progress with implausibly few
// inputs.
func validateInteractionRate(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	if profile.TapCounter == "" {
		return
	}

	taps := sub.Counters()[profile.TapCounter]
	if taps < 0 {
		return // already rejected by non-negativity
	}

	if profile.MaxTapsPerSecond > 0 && sub.TimeMS > 0 {
		perSecond := float64(taps) / (float64(sub.TimeMS) / 1000.0)
		if perSecond > profile.MaxTapsPerSecond {
			result.AddError(models.ReasonInteractionRate,
				fmt.Sprintf("%.2f taps/s exceeds human cap %.2f", perSecond, profile.MaxTapsPerSecond))
		}
	}

	if profile.MinTapsPer100 > 0 && sub.Distance >= minInteractionDistance {
		per100 := float64(taps) / (sub.Distance / 100.0)
		if per100 < profile.MinTapsPer100 {
			result.AddError(models.ReasonInteractionRate,
				fmt.Sprintf("%.2f taps per 100 units below minimum %.2f for claimed progress", per100, profile.MinTapsPer100))
		}
	}
}

// Features that unlock past a distance threshold showing up early are
// suspicious but not conclusive; clocks and spawn randomness blur the edge.
func validateUnlockThresholds(sub *models.GameSubmission, profile models.PhysicsLimitProfile, result *models.ValidationResult) {
	counters := sub.Counters()

	names := lo.Keys(profile.UnlockDistance)
	sort.Strings(names)

	for _, name := range names {
		minDistance := profile.UnlockDistance[name]
		if count := counters[name]; count > 0 && sub.Distance < minDistance {
			result.AddWarning(models.ReasonFeatureBeforeUnlock,
				fmt.Sprintf("%s=%d before unlock distance %.0f (claimed %.0f)", name, count, minDistance, sub.Distance))
		}
	}
}

func sortedCounterNames(sub *models.GameSubmission) []string {
	names := lo.Keys(sub.Counters())
	sort.Strings(names)
	return names
}
