package models

import "time"

type CreateSessionRequest struct {
	GameType GameType `json:"game_type" binding:"required"`
}

type CreateSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubmitResultRequest is the wire form of a result submission. The wallet is
// taken from the authenticated context, never from the body.
type SubmitResultRequest struct {
	Token    string   `json:"token" binding:"required"`
	GameType GameType `json:"game_type" binding:"required"`

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

// Submission binds the request to the authenticated wallet.
func (r *SubmitResultRequest) Submission(wallet string) *GameSubmission {
	return &GameSubmission{
		Wallet:          wallet,
		GameType:        r.GameType,
		Score:           r.Score,
		Distance:        r.Distance,
		TimeMS:          r.TimeMS,
		Coins:           r.Coins,
		Potions:         r.Potions,
		FeverCount:      r.FeverCount,
		TunnelCount:     r.TunnelCount,
		PerfectCount:    r.PerfectCount,
		UFOCount:        r.UFOCount,
		FlapCount:       r.FlapCount,
		ObstaclesPassed: r.ObstaclesPassed,
		ItemsCollected:  r.ItemsCollected,
	}
}
