package services

import (
	"context"
	"time"

	"arcade-rewards-backend/internal/models"
)

// SessionStore is the persistence contract this subsystem needs from its store
// collaborator. The one non-negotiable is ConsumeToken: it must be an atomic
// update-if-still-unused so that of N concurrent consumers of the same token
// exactly one wins.
type SessionStore interface {
	// InsertToken persists a freshly issued session token.
	InsertToken(ctx context.Context, token *models.SessionToken) error

	// GetToken returns the stored token, or (nil, nil) when unknown.
	GetToken(ctx context.Context, token string) (*models.SessionToken, error)

	// ConsumeToken flips used=false to used=true. It reports whether this
	// caller performed the flip; false with a nil error means another caller
	// got there first (or the token is gone).
	ConsumeToken(ctx context.Context, token string, usedAt time.Time) (bool, error)

	// RecordSubmission appends an accepted submission timestamp to the
	// wallet's history.
	RecordSubmission(ctx context.Context, wallet string, at time.Time) error

	// SubmissionTimes returns the wallet's submission timestamps within the
	// trailing window, oldest first.
	SubmissionTimes(ctx context.Context, wallet string, window time.Duration) ([]time.Time, error)

	// AppendAnomaly appends a record to the review log.
	AppendAnomaly(ctx context.Context, record *models.AnomalyRecord) error

	// PurgeExpiredTokens removes tokens past expiry by more than grace.
	// Advisory housekeeping; correctness never depends on it running.
	PurgeExpiredTokens(ctx context.Context, grace time.Duration) (int, error)
}
