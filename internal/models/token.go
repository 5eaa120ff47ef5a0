package models

import "time"

// SessionToken is the single-use credential a client receives when it starts
// a timed play session. It must be presented, unused and unexpired, when the
// session's result is submitted.
type SessionToken struct {
	Token     string    `json:"token" redis:"token"`
	Wallet    string    `json:"wallet" redis:"wallet"`
	GameType  GameType  `json:"game_type" redis:"game_type"`
	StartTime time.Time `json:"start_time" redis:"start_time"`
	ExpiresAt time.Time `json:"expires_at" redis:"expires_at"`
	Used      bool      `json:"used" redis:"used"`
	UsedAt    time.Time `json:"used_at,omitempty" redis:"used_at"`
}

func (t *SessionToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
