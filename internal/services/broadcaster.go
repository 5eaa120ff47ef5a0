package services

import "arcade-rewards-backend/internal/models"

// EventBroadcaster pushes integrity decisions to live ops consumers. Purely
// observational; nothing in the accept/reject path depends on it.
type EventBroadcaster interface {
	BroadcastDecision(wallet string, gameType models.GameType, accepted bool, reasons []models.Reason)
	BroadcastAnomaly(record *models.AnomalyRecord)
}
