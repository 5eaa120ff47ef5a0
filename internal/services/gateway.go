package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/lo"

	"arcade-rewards-backend/internal/models"
)

// RewardSink is the downstream reward-computation/ledger collaborator. It
// receives every accepted submission together with the warnings collected on
// the way, and owns everything from there: reward amounts, currencies,
// persistence of the game record.
type RewardSink interface {
	SubmitAccepted(ctx context.Context, sub *models.GameSubmission, warnings []models.Reason) error
}

// Stage names where in the pipeline a submission stopped.
type Stage string

const (
	StageToken      Stage = "token"
	StageValidation Stage = "validation"
	StageRate       Stage = "rate_limit"
	StageAccepted   Stage = "accepted"
)

// Decision is the gateway's verdict on one submission.
type Decision struct {
	Accepted bool            `json:"accepted"`
	Stage    Stage           `json:"stage"`
	Errors   []models.Reason `json:"errors,omitempty"`
	Warnings []models.Reason `json:"warnings,omitempty"`
}

// RequestMeta carries network metadata for anomaly records.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// IntegrityGateway walks a submission through
// token consumption → plausibility validation → rate limiting
// and either rejects it at one of those transitions or hands it to the reward
// sink. The ordering is deliberate: the token check is cheapest and stops
// replays before validator work is spent, and the quota check runs last so
// over-quota-but-plausible submissions stay distinguishable from fabricated
// ones in the logs.
type IntegrityGateway struct {
	tokens      *TokenManager
	limits      *LimitRegistry
	store       SessionStore
	anomalies   *AnomalyLogger
	sink        RewardSink
	broadcaster EventBroadcaster

	rules        RateLimitRules
	allowUnknown bool

	now func() time.Time
}

func NewIntegrityGateway(
	tokens *TokenManager,
	limits *LimitRegistry,
	store SessionStore,
	anomalies *AnomalyLogger,
	sink RewardSink,
	rules RateLimitRules,
	allowUnknown bool,
) *IntegrityGateway {
	return &IntegrityGateway{
		tokens:       tokens,
		limits:       limits,
		store:        store,
		anomalies:    anomalies,
		sink:         sink,
		rules:        rules,
		allowUnknown: allowUnknown,
		now:          time.Now,
	}
}

// SetBroadcaster attaches the optional live ops feed.
func (g *IntegrityGateway) SetBroadcaster(b EventBroadcaster) {
	g.broadcaster = b
}

// Submit decides one submission. A non-nil error means the decision could not
// be made at all (store unavailable, sink failure) and the request should be
// denied without burning quota; a Decision with Accepted=false is a normal
// rejection.
func (g *IntegrityGateway) Submit(ctx context.Context, token string, sub *models.GameSubmission, meta RequestMeta) (*Decision, error) {
	// 1. Burn the session token. A failed attempt never counts against the
	// wallet's submission quota, so nothing is recorded on this path.
	if _, err := g.tokens.ValidateAndConsume(ctx, token, sub.Wallet, sub.GameType); err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return nil, err
		}
		return g.reject(StageToken, sub, nil, models.Reason{
			Code:   TokenReason(err),
			Detail: err.Error(),
		}), nil
	}

	// 2. Plausibility.
	var result *models.ValidationResult
	profile, known := g.limits.Profile(sub.GameType)
	if known {
		result = ValidateSubmission(sub, profile)
	} else {
		result = ValidateUnregistered(sub)
		detail := fmt.Sprintf("no limit profile for game type %q", sub.GameType)
		if g.allowUnknown {
			result.AddWarning(models.ReasonUnknownGameType, detail)
		} else {
			result.AddError(models.ReasonUnknownGameType, detail)
		}
	}

	if !result.Valid {
		g.logAnomaly(sub, meta, result.Errors)
		return g.reject(StageValidation, sub, result.Warnings, result.Errors...), nil
	}

	// 3. Quota. History is read from the store; rejected attempts above never
	// made it in, so they don't count here.
	history, err := g.store.SubmissionTimes(ctx, sub.Wallet, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	rateResult := CheckRate(history, g.now(), g.rules)
	if !rateResult.Valid {
		g.logAnomaly(sub, meta, rateResult.Errors)
		return g.reject(StageRate, sub, result.Warnings, rateResult.Errors...), nil
	}

	// 4. Accepted. The timestamp write is not transactional with the history
	// read above; one submission slipping past a cap at the boundary is
	// tolerated.
	if err := g.store.RecordSubmission(ctx, sub.Wallet, g.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if err := g.sink.SubmitAccepted(ctx, sub, result.Warnings); err != nil {
		return nil, fmt.Errorf("reward sink rejected accepted submission: %v", err)
	}

	if g.broadcaster != nil {
		g.broadcaster.BroadcastDecision(sub.Wallet, sub.GameType, true, result.Warnings)
	}

	return &Decision{
		Accepted: true,
		Stage:    StageAccepted,
		Warnings: result.Warnings,
	}, nil
}

func (g *IntegrityGateway) reject(stage Stage, sub *models.GameSubmission, warnings []models.Reason, reasons ...models.Reason) *Decision {
	if g.broadcaster != nil {
		g.broadcaster.BroadcastDecision(sub.Wallet, sub.GameType, false, reasons)
	}

	return &Decision{
		Accepted: false,
		Stage:    stage,
		Errors:   reasons,
		Warnings: warnings,
	}
}

func (g *IntegrityGateway) logAnomaly(sub *models.GameSubmission, meta RequestMeta, reasons []models.Reason) {
	details := strings.Join(lo.Map(reasons, func(r models.Reason, _ int) string {
		if r.Detail == "" {
			return string(r.Code)
		}
		return fmt.Sprintf("%s: %s", r.Code, r.Detail)
	}), "; ")

	record := &models.AnomalyRecord{
		ID:        models.GenerateAnomalyID(),
		Wallet:    sub.Wallet,
		Reason:    reasons[0].Code,
		Details:   details,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Timestamp: g.now(),
	}

	g.anomalies.LogRecord(record)

	if g.broadcaster != nil {
		g.broadcaster.BroadcastAnomaly(record)
	}
}

// LogRewardSink is the stand-in sink used until the economy service is wired
// in deployment; it just records the hand-off.
type LogRewardSink struct{}

func (LogRewardSink) SubmitAccepted(_ context.Context, sub *models.GameSubmission, warnings []models.Reason) error {
	log.Printf("accepted submission wallet=%s game=%s score=%d warnings=%d",
		sub.Wallet, sub.GameType, sub.Score, len(warnings))
	return nil
}
