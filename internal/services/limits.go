package services

import (
	"arcade-rewards-backend/internal/models"
)

// LimitRegistry is the immutable set of physics limit profiles this instance
// validates against. It is built once at startup from versioned config and
// never written afterwards, so lookups need no locking.
type LimitRegistry struct {
	profiles map[models.GameType]models.PhysicsLimitProfile
}

func NewLimitRegistry(profiles map[models.GameType]models.PhysicsLimitProfile) *LimitRegistry {
	copied := make(map[models.GameType]models.PhysicsLimitProfile, len(profiles))
	for gt, p := range profiles {
		copied[gt] = p
	}
	return &LimitRegistry{profiles: copied}
}

func (r *LimitRegistry) Profile(gameType models.GameType) (models.PhysicsLimitProfile, bool) {
	p, ok := r.profiles[gameType]
	return p, ok
}

func (r *LimitRegistry) GameTypes() []models.GameType {
	types := make([]models.GameType, 0, len(r.profiles))
	for gt := range r.profiles {
		types = append(types, gt)
	}
	return types
}
