package services

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"arcade-rewards-backend/internal/models"
)

// RateLimitRules are the per-wallet submission quotas.
type RateLimitRules struct {
	HourlyCap    int
	DailyCap     int
	MinSubmitGap time.Duration
}

// CheckRate evaluates a wallet's submission history snapshot against the
// quota rules. Pure: it operates only on the caller-supplied timestamps and
// mutates nothing, so the caller owns snapshot consistency. A narrow race at
// a quota boundary can admit one extra submission; that soft-limit tolerance
// is deliberate.
func CheckRate(timestamps []time.Time, now time.Time, rules RateLimitRules) *models.ValidationResult {
	result := models.NewValidationResult()

	hourAgo := now.Add(-time.Hour)
	dayAgo := now.Add(-24 * time.Hour)

	inLastHour := lo.CountBy(timestamps, func(t time.Time) bool { return t.After(hourAgo) })
	inLastDay := lo.CountBy(timestamps, func(t time.Time) bool { return t.After(dayAgo) })

	if rules.HourlyCap > 0 && inLastHour >= rules.HourlyCap {
		result.AddError(models.ReasonRateLimitHourly,
			fmt.Sprintf("%d submissions in the last hour, cap %d", inLastHour, rules.HourlyCap))
	}

	if rules.DailyCap > 0 && inLastDay >= rules.DailyCap {
		result.AddError(models.ReasonRateLimitDaily,
			fmt.Sprintf("%d submissions in the last day, cap %d", inLastDay, rules.DailyCap))
	}

	if rules.MinSubmitGap > 0 && len(timestamps) > 0 {
		latest := lo.MaxBy(timestamps, func(a, b time.Time) bool { return a.After(b) })
		if gap := now.Sub(latest); gap < rules.MinSubmitGap {
			result.AddError(models.ReasonRateLimitTooFast,
				fmt.Sprintf("%.1fs since last submission, minimum %.1fs",
					gap.Seconds(), rules.MinSubmitGap.Seconds()))
		}
	}

	return result
}
