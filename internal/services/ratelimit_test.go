package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"arcade-rewards-backend/internal/models"
)

func defaultRules() RateLimitRules {
	return RateLimitRules{
		HourlyCap:    20,
		DailyCap:     200,
		MinSubmitGap: 10 * time.Second,
	}
}

// spread returns n timestamps evenly spaced across the window ending gap
// before now.
func spread(now time.Time, n int, window, gap time.Duration) []time.Time {
	times := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		offset := window - time.Duration(i)*(window/time.Duration(n))
		times = append(times, now.Add(-gap).Add(-offset))
	}
	return times
}

func TestCheckRateUnderCaps(t *testing.T) {
	now := time.Now()
	history := spread(now, 5, 50*time.Minute, time.Minute)

	result := CheckRate(history, now, defaultRules())

	assert.True(t, result.Valid)
}

func TestCheckRateEmptyHistory(t *testing.T) {
	result := CheckRate(nil, time.Now(), defaultRules())

	assert.True(t, result.Valid)
}

// The 21st submission inside a trailing hour with a cap of 20 is rejected.
func TestCheckRateHourlyCap(t *testing.T) {
	now := time.Now()
	history := spread(now, 20, 50*time.Minute, time.Minute)

	result := CheckRate(history, now, defaultRules())

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonRateLimitHourly))
}

func TestCheckRateHourlyCapIgnoresOldSubmissions(t *testing.T) {
	now := time.Now()
	// 20 submissions, but only 10 inside the trailing hour.
	history := append(
		spread(now, 10, 30*time.Minute, time.Minute),
		spread(now, 10, 2*time.Hour, 90*time.Minute)...,
	)

	result := CheckRate(history, now, defaultRules())

	assert.False(t, hasCode(result.Errors, models.ReasonRateLimitHourly))
}

func TestCheckRateDailyCap(t *testing.T) {
	now := time.Now()
	rules := defaultRules()
	rules.HourlyCap = 0 // isolate the daily check
	history := spread(now, 200, 20*time.Hour, time.Minute)

	result := CheckRate(history, now, rules)

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonRateLimitDaily))
}

func TestCheckRateTooFast(t *testing.T) {
	now := time.Now()
	history := []time.Time{now.Add(-3 * time.Second)}

	result := CheckRate(history, now, defaultRules())

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonRateLimitTooFast))
}

func TestCheckRateGapUsesMostRecent(t *testing.T) {
	now := time.Now()
	// Oldest-first and shuffled orders both resolve to the same most-recent.
	history := []time.Time{
		now.Add(-5 * time.Second),
		now.Add(-30 * time.Minute),
		now.Add(-2 * time.Minute),
	}

	result := CheckRate(history, now, defaultRules())

	assert.True(t, hasCode(result.Errors, models.ReasonRateLimitTooFast))
}

func TestCheckRateDoesNotMutateHistory(t *testing.T) {
	now := time.Now()
	history := []time.Time{
		now.Add(-30 * time.Minute),
		now.Add(-20 * time.Minute),
	}
	snapshot := append([]time.Time(nil), history...)

	CheckRate(history, now, defaultRules())

	assert.Equal(t, snapshot, history)
}

func TestCheckRateZeroRulesDisableChecks(t *testing.T) {
	now := time.Now()
	history := spread(now, 500, 30*time.Minute, time.Millisecond)

	result := CheckRate(history, now, RateLimitRules{})

	assert.True(t, result.Valid)
}
