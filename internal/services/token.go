package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arcade-rewards-backend/internal/models"
)

// Token failure taxonomy. All of these are recoverable for the client: start
// a fresh session and try again. ErrServiceUnavailable is the exception in
// kind — the store was unreachable, so we fail closed rather than accept a
// submission without the consume-once guarantee.
var (
	ErrTokenInvalid          = errors.New("session token not recognized")
	ErrTokenExpired          = errors.New("session token expired")
	ErrTokenAlreadyUsed      = errors.New("session token already used")
	ErrTokenWalletMismatch   = errors.New("session token belongs to another wallet")
	ErrTokenGameTypeMismatch = errors.New("session token was issued for another game type")
	ErrServiceUnavailable    = errors.New("token store unavailable")
)

type TokenManager struct {
	store  SessionStore
	expiry time.Duration

	// now is swappable so expiry boundaries are testable to the second.
	now func() time.Time
}

func NewTokenManager(store SessionStore, expiry time.Duration) *TokenManager {
	return &TokenManager{
		store:  store,
		expiry: expiry,
		now:    time.Now,
	}
}

// Create issues a fresh single-use session token for one play session.
func (tm *TokenManager) Create(ctx context.Context, wallet string, gameType models.GameType) (*models.SessionToken, error) {
	id, err := models.GenerateSessionTokenID()
	if err != nil {
		return nil, err
	}

	now := tm.now()
	token := &models.SessionToken{
		Token:     id,
		Wallet:    wallet,
		GameType:  gameType,
		StartTime: now,
		ExpiresAt: now.Add(tm.expiry),
		Used:      false,
	}

	if err := tm.store.InsertToken(ctx, token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return token, nil
}

// ValidateAndConsume checks the token and burns it, in that order: existence,
// not-used, not-expired, wallet match, game type match, then the store-level
// atomic flip. The read checks are advisory fast paths; only winning the
// conditional update actually consumes the token, so two callers racing past
// the reads still resolve to one winner.
func (tm *TokenManager) ValidateAndConsume(ctx context.Context, token, wallet string, gameType models.GameType) (*models.SessionToken, error) {
	stored, err := tm.store.GetToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if stored == nil {
		return nil, ErrTokenInvalid
	}

	if stored.Used {
		return nil, ErrTokenAlreadyUsed
	}

	now := tm.now()
	if stored.Expired(now) {
		return nil, ErrTokenExpired
	}

	if stored.Wallet != wallet {
		return nil, ErrTokenWalletMismatch
	}
	if stored.GameType != gameType {
		return nil, ErrTokenGameTypeMismatch
	}

	consumed, err := tm.store.ConsumeToken(ctx, token, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if !consumed {
		// Lost the race to a concurrent submit of the same token.
		return nil, ErrTokenAlreadyUsed
	}

	stored.Used = true
	stored.UsedAt = now

	return stored, nil
}

// Sweep purges tokens past expiry by more than grace. Housekeeping only.
func (tm *TokenManager) Sweep(ctx context.Context, grace time.Duration) (int, error) {
	return tm.store.PurgeExpiredTokens(ctx, grace)
}

// TokenReason maps a token error to its wire reason code.
func TokenReason(err error) models.ReasonCode {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return models.ReasonTokenExpired
	case errors.Is(err, ErrTokenAlreadyUsed):
		return models.ReasonTokenAlreadyUsed
	case errors.Is(err, ErrTokenWalletMismatch):
		return models.ReasonTokenWalletMismatch
	case errors.Is(err, ErrTokenGameTypeMismatch):
		return models.ReasonTokenGameTypeMismatch
	case errors.Is(err, ErrServiceUnavailable):
		return models.ReasonServiceUnavailable
	default:
		return models.ReasonTokenInvalid
	}
}
