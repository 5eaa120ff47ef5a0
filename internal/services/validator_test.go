package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcade-rewards-backend/internal/config"
	"arcade-rewards-backend/internal/models"
)

func dashProfile(t *testing.T) models.PhysicsLimitProfile {
	t.Helper()
	p, ok := config.DefaultLimitProfiles()[models.GameTypeDashTrials]
	require.True(t, ok)
	return p
}

func flapProfile(t *testing.T) models.PhysicsLimitProfile {
	t.Helper()
	p, ok := config.DefaultLimitProfiles()[models.GameTypeSkyFlap]
	require.True(t, ok)
	return p
}

// A plausible run: 100 units in 12s is ~8.33 m/s against a 12 m/s cap.
func plausibleDashRun() *models.GameSubmission {
	return &models.GameSubmission{
		Wallet:   "0xwallet",
		GameType: models.GameTypeDashTrials,
		Score:    100,
		Distance: 100,
		TimeMS:   12000,
		Coins:    20,
		Potions:  1,
	}
}

func hasCode(reasons []models.Reason, code models.ReasonCode) bool {
	for _, r := range reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

func TestValidateSubmissionAccepts(t *testing.T) {
	result := ValidateSubmission(plausibleDashRun(), dashProfile(t))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateDurationTooShort(t *testing.T) {
	sub := plausibleDashRun()
	sub.TimeMS = 1000
	sub.Distance = 10
	sub.Score = 10

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonDurationOutOfBounds))
}

func TestValidateDurationTooShortIndependentOfOtherFields(t *testing.T) {
	// A short claimed duration fails no matter how plausible the rest looks.
	sub := plausibleDashRun()
	sub.TimeMS = dashProfile(t).MinGameTimeMS - 1
	sub.Distance = 1
	sub.Score = 1
	sub.Coins = 0

	result := ValidateSubmission(sub, dashProfile(t))

	assert.True(t, hasCode(result.Errors, models.ReasonDurationOutOfBounds))
}

func TestValidateDurationStalledGame(t *testing.T) {
	sub := plausibleDashRun()
	sub.TimeMS = dashProfile(t).MaxGameTimeMS + 1

	result := ValidateSubmission(sub, dashProfile(t))

	assert.True(t, hasCode(result.Errors, models.ReasonDurationOutOfBounds))
}

func TestValidateImpossibleSpeed(t *testing.T) {
	sub := plausibleDashRun()
	sub.Distance = 1000 // 83 m/s over 12s
	sub.Score = 1000

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonImpossibleSpeed))
}

func TestValidateSpeedJustUnderCap(t *testing.T) {
	sub := plausibleDashRun()
	sub.Distance = 143 // 11.92 m/s
	sub.Score = 143

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, hasCode(result.Errors, models.ReasonImpossibleSpeed))
}

func TestValidateScoreMismatchWarnsOnly(t *testing.T) {
	sub := plausibleDashRun()
	sub.Score = 150 // drifts 50 past distance 100, tolerance is 10

	result := ValidateSubmission(sub, dashProfile(t))

	assert.True(t, result.Valid)
	assert.True(t, hasCode(result.Warnings, models.ReasonScoreMismatch))
}

func TestValidateItemRateExceeded(t *testing.T) {
	sub := plausibleDashRun()
	sub.Coins = 100 // 100 per 100 units against a cap of 30

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonItemRateExceeded))
}

func TestValidateItemsWithoutDistance(t *testing.T) {
	sub := plausibleDashRun()
	sub.Distance = 0
	sub.Score = 0
	sub.Coins = 5

	result := ValidateSubmission(sub, dashProfile(t))

	assert.True(t, hasCode(result.Errors, models.ReasonItemRateExceeded))
}

func TestValidateFeverRequiresCoins(t *testing.T) {
	// A fever activation takes 10 consecutive coin pickups, so
	// fever_count > floor(coins/10) cannot happen in a real run.
	sub := plausibleDashRun()
	sub.Coins = 19
	sub.FeverCount = 2

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonCounterInconsistent))
}

func TestValidateFeverWithinCoins(t *testing.T) {
	sub := plausibleDashRun()
	sub.Coins = 20
	sub.FeverCount = 2

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, hasCode(result.Errors, models.ReasonCounterInconsistent))
}

func TestValidateNegativeValues(t *testing.T) {
	sub := plausibleDashRun()
	sub.Coins = -1
	sub.Distance = -5

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonNegativeValue))
}

func TestValidateTunnelBeforeUnlockWarns(t *testing.T) {
	sub := plausibleDashRun()
	sub.TunnelCount = 1 // tunnel unlocks at distance 500, claimed 100

	result := ValidateSubmission(sub, dashProfile(t))

	assert.True(t, result.Valid)
	assert.True(t, hasCode(result.Warnings, models.ReasonFeatureBeforeUnlock))
}

func TestValidateFlapWithoutInteraction(t *testing.T) {
	// Meaningful progress with zero flaps is not a game a human played.
	sub := &models.GameSubmission{
		Wallet:          "0xwallet",
		GameType:        models.GameTypeSkyFlap,
		Score:           10,
		Distance:        200,
		TimeMS:          40000,
		FlapCount:       0,
		ObstaclesPassed: 10,
	}

	result := ValidateSubmission(sub, flapProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonInteractionRate))
}

func TestValidateFlapAutomation(t *testing.T) {
	sub := &models.GameSubmission{
		Wallet:          "0xwallet",
		GameType:        models.GameTypeSkyFlap,
		Score:           10,
		Distance:        200,
		TimeMS:          40000,
		FlapCount:       1000, // 25 taps/s against a human cap of 8
		ObstaclesPassed: 10,
	}

	result := ValidateSubmission(sub, flapProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonInteractionRate))
}

func TestValidateFlapPlausible(t *testing.T) {
	sub := &models.GameSubmission{
		Wallet:          "0xwallet",
		GameType:        models.GameTypeSkyFlap,
		Score:           10,
		Distance:        200,
		TimeMS:          40000,
		FlapCount:       80, // 2 taps/s, 40 per 100 units
		ObstaclesPassed: 10,
	}

	result := ValidateSubmission(sub, flapProfile(t))

	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestValidateInstantDeathSkipsLowerInteractionBound(t *testing.T) {
	// Dying at the first obstacle with a handful of flaps is fine; the lower
	// bound only applies once real progress is claimed.
	sub := &models.GameSubmission{
		Wallet:    "0xwallet",
		GameType:  models.GameTypeSkyFlap,
		Distance:  30,
		TimeMS:    5000,
		FlapCount: 2,
	}

	result := ValidateSubmission(sub, flapProfile(t))

	assert.False(t, hasCode(result.Errors, models.ReasonInteractionRate))
}

func TestValidatePerfectCannotOutnumberObstacles(t *testing.T) {
	sub := &models.GameSubmission{
		Wallet:          "0xwallet",
		GameType:        models.GameTypeSkyFlap,
		Score:           5,
		Distance:        200,
		TimeMS:          40000,
		FlapCount:       80,
		ObstaclesPassed: 5,
		PerfectCount:    7,
	}

	result := ValidateSubmission(sub, flapProfile(t))

	assert.True(t, hasCode(result.Errors, models.ReasonCounterInconsistent))
}

func TestValidateCollectsEveryReason(t *testing.T) {
	// Checks contribute independently; a garbage submission reports all of
	// its problems, not just the first.
	sub := &models.GameSubmission{
		Wallet:   "0xwallet",
		GameType: models.GameTypeDashTrials,
		Score:    -1,
		Distance: 100000,
		TimeMS:   1000,
		Coins:    99999,
	}

	result := ValidateSubmission(sub, dashProfile(t))

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonNegativeValue))
	assert.True(t, hasCode(result.Errors, models.ReasonDurationOutOfBounds))
	assert.True(t, hasCode(result.Errors, models.ReasonImpossibleSpeed))
	assert.True(t, hasCode(result.Errors, models.ReasonItemRateExceeded))
}

func TestValidateUnregisteredChecksNonNegativity(t *testing.T) {
	sub := &models.GameSubmission{
		Wallet:   "0xwallet",
		GameType: "moon-bounce",
		Score:    -3,
	}

	result := ValidateUnregistered(sub)

	assert.False(t, result.Valid)
	assert.True(t, hasCode(result.Errors, models.ReasonNegativeValue))
}
