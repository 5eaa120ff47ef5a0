package config

import (
	"fmt"

	"github.com/spf13/viper"

	"arcade-rewards-backend/internal/models"
)

// DefaultLimitProfiles are the compiled-in plausibility tables, used when no
// limits file is configured. The numbers come from game design's physics
// constants; a versioned YAML file overrides them in deployment.
func DefaultLimitProfiles() map[models.GameType]models.PhysicsLimitProfile {
	return map[models.GameType]models.PhysicsLimitProfile{
		models.GameTypeDashTrials: {
			GameType:      models.GameTypeDashTrials,
			MaxSpeedMS:    12.0,
			MinGameTimeMS: 5000,
			MaxGameTimeMS: 600000,
			MaxRatePer100: map[string]float64{
				models.CounterCoins:   30,
				models.CounterPotions: 5,
				models.CounterFever:   2,
				models.CounterTunnel:  1,
				models.CounterItems:   10,
			},
			ScoreBasis:     models.ScoreTracksDistance,
			ScoreTolerance: 10,
			CrossChecks: []models.CrossCheck{
				// Fever mode triggers on 10 consecutive coin pickups.
				{Dependent: models.CounterFever, Source: models.CounterCoins, SourcePerDependent: 10},
			},
			UnlockDistance: map[string]float64{
				models.CounterTunnel: 500,
			},
			MaxRewardScore: 100000,
		},
		models.GameTypeSkyFlap: {
			GameType:      models.GameTypeSkyFlap,
			MaxSpeedMS:    8.0,
			MinGameTimeMS: 3000,
			MaxGameTimeMS: 300000,
			MaxRatePer100: map[string]float64{
				models.CounterObstacles: 8,
				models.CounterPerfect:   8,
				models.CounterUFO:       1,
			},
			ScoreBasis:       models.ScoreTracksObstacles,
			ScoreTolerance:   5,
			TapCounter:       models.CounterFlaps,
			MaxTapsPerSecond: 8.0,
			MinTapsPer100:    10.0,
			CrossChecks: []models.CrossCheck{
				// A perfect pass is a kind of pass; can't outnumber obstacles.
				{Dependent: models.CounterPerfect, Source: models.CounterObstacles, SourcePerDependent: 1},
			},
			UnlockDistance: map[string]float64{
				models.CounterUFO: 300,
			},
			MaxRewardScore: 50000,
		},
	}
}

// LoadLimitProfiles reads the versioned limits YAML. Profiles in the file
// replace the compiled-in defaults per game type; game types absent from the
// file keep their defaults.
func LoadLimitProfiles(path string) (map[models.GameType]models.PhysicsLimitProfile, error) {
	profiles := DefaultLimitProfiles()
	if path == "" {
		return profiles, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read limits file %s: %v", path, err)
	}

	var file struct {
		Version  string                       `mapstructure:"version"`
		Profiles []models.PhysicsLimitProfile `mapstructure:"profiles"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse limits file %s: %v", path, err)
	}

	for _, p := range file.Profiles {
		if p.GameType == "" {
			return nil, fmt.Errorf("limits file %s: profile without game_type", path)
		}
		profiles[p.GameType] = p
	}

	return profiles, nil
}
