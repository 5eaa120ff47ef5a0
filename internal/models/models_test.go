package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionTokenID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := GenerateSessionTokenID()
		require.NoError(t, err)
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "token ids must not repeat")
		seen[id] = true
	}
}

func TestSpeedMS(t *testing.T) {
	sub := &GameSubmission{Distance: 100, TimeMS: 12000}
	assert.InDelta(t, 8.333, sub.SpeedMS(), 0.001)

	sub = &GameSubmission{Distance: 100, TimeMS: 0}
	assert.Equal(t, 0.0, sub.SpeedMS())
}

func TestCountersCoverEveryTrackedField(t *testing.T) {
	sub := &GameSubmission{
		Coins:           1,
		Potions:         2,
		FeverCount:      3,
		TunnelCount:     4,
		PerfectCount:    5,
		UFOCount:        6,
		FlapCount:       7,
		ObstaclesPassed: 8,
		ItemsCollected:  9,
	}

	counters := sub.Counters()
	assert.Len(t, counters, 9)
	assert.Equal(t, int64(3), counters[CounterFever])
	assert.Equal(t, int64(7), counters[CounterFlaps])
}

func TestValidationResultValidTracksErrors(t *testing.T) {
	result := NewValidationResult()
	assert.True(t, result.Valid)

	result.AddWarning(ReasonScoreMismatch, "score drifted")
	assert.True(t, result.Valid)

	result.AddError(ReasonImpossibleSpeed, "too fast")
	assert.False(t, result.Valid)
}
