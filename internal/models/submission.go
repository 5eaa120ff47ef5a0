package models

// Counter names shared between submissions and limit profiles.
const (
	CounterCoins     = "coins"
	CounterPotions   = "potions"
	CounterFever     = "fever"
	CounterTunnel    = "tunnel"
	CounterPerfect   = "perfect"
	CounterUFO       = "ufo"
	CounterFlaps     = "flaps"
	CounterObstacles = "obstacles"
	CounterItems     = "items"
)

// GameSubmission is a client's self-reported result for one play session.
// Nothing in it is trusted; the validator decides plausibility.
type GameSubmission struct {
	Wallet   string   `json:"wallet"`
	GameType GameType `json:"game_type"`

	Score    int64   `json:"score"`
	Distance float64 `json:"distance"`
	TimeMS   int64   `json:"time_ms"`

	Coins           int64 `json:"coins"`
	Potions         int64 `json:"potions"`
	FeverCount      int64 `json:"fever_count"`
	TunnelCount     int64 `json:"tunnel_count"`
	PerfectCount    int64 `json:"perfect_count"`
	UFOCount        int64 `json:"ufo_count"`
	FlapCount       int64 `json:"flap_count"`
	ObstaclesPassed int64 `json:"obstacles_passed"`
	ItemsCollected  int64 `json:"items_collected"`
}

// SpeedMS is the claimed average speed in distance units per second.
// Returns 0 when no time elapsed; the duration check rejects that case anyway.
func (s *GameSubmission) SpeedMS() float64 {
	if s.TimeMS <= 0 {
		return 0
	}
	return s.Distance / (float64(s.TimeMS) / 1000.0)
}

// Counters exposes the per-game event counters under their shared names.
func (s *GameSubmission) Counters() map[string]int64 {
	return map[string]int64{
		CounterCoins:     s.Coins,
		CounterPotions:   s.Potions,
		CounterFever:     s.FeverCount,
		CounterTunnel:    s.TunnelCount,
		CounterPerfect:   s.PerfectCount,
		CounterUFO:       s.UFOCount,
		CounterFlaps:     s.FlapCount,
		CounterObstacles: s.ObstaclesPassed,
		CounterItems:     s.ItemsCollected,
	}
}
