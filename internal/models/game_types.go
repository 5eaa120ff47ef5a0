package models

type GameType string

const (
	GameTypeDashTrials GameType = "dash-trials"
	GameTypeSkyFlap    GameType = "sky-flap"
)

// RegisteredGameTypes lists the game types with a physics limit profile.
// Submissions for anything else are handled per the unknown-game-type policy.
var RegisteredGameTypes = []GameType{GameTypeDashTrials, GameTypeSkyFlap}

func (gt GameType) Registered() bool {
	for _, known := range RegisteredGameTypes {
		if gt == known {
			return true
		}
	}
	return false
}
