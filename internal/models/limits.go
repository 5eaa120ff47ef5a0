package models

// ScoreBasis names the counter a game's score is expected to track.
type ScoreBasis string

const (
	ScoreTracksDistance  ScoreBasis = "distance"
	ScoreTracksObstacles ScoreBasis = "obstacles"
)

// CrossCheck ties a bonus counter to the counter that gates it: Dependent may
// not exceed floor(Source / SourcePerDependent). A fever activation that needs
// 10 consecutive coin pickups is CrossCheck{fever, coins, 10}.
type CrossCheck struct {
	Dependent          string `mapstructure:"dependent"`
	Source             string `mapstructure:"source"`
	SourcePerDependent int64  `mapstructure:"source_per_dependent"`
}

// PhysicsLimitProfile is the per-game-type plausibility table. It is owned by
// game design, versioned outside this service, and never mutated here.
type PhysicsLimitProfile struct {
	GameType GameType `mapstructure:"game_type"`

	MaxSpeedMS    float64 `mapstructure:"max_speed_ms"`
	MinGameTimeMS int64   `mapstructure:"min_game_time_ms"`
	MaxGameTimeMS int64   `mapstructure:"max_game_time_ms"`

	// MaxRatePer100 caps each counter per 100 distance units. Counters absent
	// from the map are uncapped for this game type.
	MaxRatePer100 map[string]float64 `mapstructure:"max_rate_per_100"`

	ScoreBasis     ScoreBasis `mapstructure:"score_basis"`
	ScoreTolerance int64      `mapstructure:"score_tolerance"`

	// Interaction-rate bounds for tap-driven games. MaxTapsPerSecond rejects
	// automation; MinTapsPer100 rejects claimed progress with implausibly few
	// inputs. Zero disables the bound.
	TapCounter       string  `mapstructure:"tap_counter"`
	MaxTapsPerSecond float64 `mapstructure:"max_taps_per_second"`
	MinTapsPer100    float64 `mapstructure:"min_taps_per_100"`

	CrossChecks []CrossCheck `mapstructure:"cross_checks"`

	// UnlockDistance maps a counter to the distance threshold past which the
	// feature becomes reachable. Appearing earlier is suspicious, not fatal.
	UnlockDistance map[string]float64 `mapstructure:"unlock_distance"`

	// MaxRewardScore caps what the downstream economy will pay out for; it is
	// carried through for the reward collaborator, not enforced here.
	MaxRewardScore int64 `mapstructure:"max_reward_score"`
}
