package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"arcade-rewards-backend/internal/models"
)

// MemoryStore is an in-process SessionStore. It backs tests and local
// development without Redis; the consume-once guarantee comes from holding the
// mutex across the read-check-write.
type MemoryStore struct {
	mu          sync.Mutex
	tokens      map[string]*models.SessionToken
	submissions map[string][]time.Time
	anomalies   []*models.AnomalyRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:      make(map[string]*models.SessionToken),
		submissions: make(map[string][]time.Time),
	}
}

func (m *MemoryStore) InsertToken(_ context.Context, token *models.SessionToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *token
	m.tokens[token.Token] = &clone
	return nil
}

func (m *MemoryStore) GetToken(_ context.Context, token string) (*models.SessionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (m *MemoryStore) ConsumeToken(_ context.Context, token string, usedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok || t.Used {
		return false, nil
	}

	t.Used = true
	t.UsedAt = usedAt
	return true, nil
}

func (m *MemoryStore) RecordSubmission(_ context.Context, wallet string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions[wallet] = append(m.submissions[wallet], at)
	return nil
}

func (m *MemoryStore) SubmissionTimes(_ context.Context, wallet string, window time.Duration) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-window)

	var times []time.Time
	for _, t := range m.submissions[wallet] {
		if t.After(cutoff) {
			times = append(times, t)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	return times, nil
}

func (m *MemoryStore) AppendAnomaly(_ context.Context, record *models.AnomalyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.anomalies = append(m.anomalies, &clone)
	return nil
}

func (m *MemoryStore) PurgeExpiredTokens(_ context.Context, grace time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int
	for key, t := range m.tokens {
		if time.Now().After(t.ExpiresAt.Add(grace)) {
			delete(m.tokens, key)
			purged++
		}
	}
	return purged, nil
}

// Anomalies snapshots the review log, newest first.
func (m *MemoryStore) Anomalies() []*models.AnomalyRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.AnomalyRecord, len(m.anomalies))
	for i, r := range m.anomalies {
		out[len(m.anomalies)-1-i] = r
	}
	return out
}
