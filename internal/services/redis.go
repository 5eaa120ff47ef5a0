package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"arcade-rewards-backend/internal/config"
	"arcade-rewards-backend/internal/models"
)

type RedisService struct {
	client         *redis.Client
	retentionGrace time.Duration
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{
		client:         client,
		retentionGrace: cfg.RetentionGrace,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) InsertToken(ctx context.Context, token *models.SessionToken) error {
	key := fmt.Sprintf(KeySessionToken, token.Token)

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal session token: %v", err)
	}

	// The key outlives expiry by the retention grace so rejected replays of a
	// stale token can still be told apart from never-issued tokens, then Redis
	// purges it on its own.
	ttl := time.Until(token.ExpiresAt) + s.retentionGrace
	if ttl <= 0 {
		return fmt.Errorf("session token already expired")
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *RedisService) GetToken(ctx context.Context, token string) (*models.SessionToken, error) {
	key := fmt.Sprintf(KeySessionToken, token)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session token: %v", err)
	}

	var t models.SessionToken
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session token: %v", err)
	}

	return &t, nil
}

// consumeTokenScript is the consume-once compare-and-swap: it flips used only
// if the stored value is still unused, in one atomic server-side step. Of N
// concurrent callers exactly one sees 1; the rest see 0.
var consumeTokenScript = redis.NewScript(`
	local key = KEYS[1]
	local used_at = ARGV[1]

	local data = redis.call("GET", key)
	if not data then
		return 0
	end

	local token = cjson.decode(data)

	if token.used then
		return 0
	end

	token.used = true
	token.used_at = used_at

	redis.call("SET", key, cjson.encode(token), "KEEPTTL")

	return 1
`)

func (s *RedisService) ConsumeToken(ctx context.Context, token string, usedAt time.Time) (bool, error) {
	key := fmt.Sprintf(KeySessionToken, token)

	n, err := consumeTokenScript.Run(ctx, s.client, []string{key},
		usedAt.UTC().Format(time.RFC3339Nano)).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume session token: %v", err)
	}

	return n == 1, nil
}

func (s *RedisService) RecordSubmission(ctx context.Context, wallet string, at time.Time) error {
	key := fmt.Sprintf(KeySubmissions, wallet)

	if err := s.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.Unix()),
		Member: strconv.FormatInt(at.UnixNano(), 10),
	}).Err(); err != nil {
		return fmt.Errorf("failed to record submission: %v", err)
	}

	s.client.Expire(ctx, key, TTLSubmissionHistory)

	return nil
}

func (s *RedisService) SubmissionTimes(ctx context.Context, wallet string, window time.Duration) ([]time.Time, error) {
	key := fmt.Sprintf(KeySubmissions, wallet)
	cutoff := time.Now().Add(-window)

	members, err := s.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get submission history: %v", err)
	}

	times := make([]time.Time, 0, len(members))
	for _, m := range members {
		nanos, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		times = append(times, time.Unix(0, nanos))
	}

	return times, nil
}

func (s *RedisService) AppendAnomaly(ctx context.Context, record *models.AnomalyRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal anomaly record: %v", err)
	}

	walletKey := fmt.Sprintf(KeyWalletAnomalies, record.Wallet)
	timesKey := fmt.Sprintf(KeyAnomalyTimes, record.Wallet)

	pipe := s.client.Pipeline()

	pipe.LPush(ctx, walletKey, data)
	pipe.LTrim(ctx, walletKey, 0, MaxWalletAnomalies-1)
	pipe.Expire(ctx, walletKey, TTLAnomalies)

	pipe.ZAdd(ctx, timesKey, redis.Z{
		Score:  float64(record.Timestamp.Unix()),
		Member: record.ID,
	})
	pipe.ZRemRangeByScore(ctx, timesKey, "-inf",
		strconv.FormatInt(record.Timestamp.Add(-TTLAnomalies).Unix(), 10))
	pipe.Expire(ctx, timesKey, TTLAnomalies)

	pipe.SAdd(ctx, KeyAnomalyWallets, record.Wallet)

	pipe.LPush(ctx, KeyRecentAnomalies, data)
	pipe.LTrim(ctx, KeyRecentAnomalies, 0, MaxRecentAnomalies-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append anomaly record: %v", err)
	}

	return nil
}

func (s *RedisService) RecentAnomalies(ctx context.Context, limit int64) ([]*models.AnomalyRecord, error) {
	if limit <= 0 || limit > MaxRecentAnomalies {
		limit = 50
	}

	entries, err := s.client.LRange(ctx, KeyRecentAnomalies, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent anomalies: %v", err)
	}

	records := make([]*models.AnomalyRecord, 0, len(entries))
	for _, entry := range entries {
		var record models.AnomalyRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	return records, nil
}

func (s *RedisService) WalletAnomalies(ctx context.Context, wallet string, limit int64) ([]*models.AnomalyRecord, error) {
	if limit <= 0 || limit > MaxWalletAnomalies {
		limit = 50
	}

	key := fmt.Sprintf(KeyWalletAnomalies, wallet)

	entries, err := s.client.LRange(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet anomalies: %v", err)
	}

	records := make([]*models.AnomalyRecord, 0, len(entries))
	for _, entry := range entries {
		var record models.AnomalyRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	return records, nil
}

type FlaggedWallet struct {
	Wallet    string `json:"wallet"`
	Incidents int64  `json:"incidents"`
}

// FlaggedWallets lists wallets with at least minIncidents anomaly records in
// the trailing window. Review tooling only; the accept/reject path never
// reads this.
func (s *RedisService) FlaggedWallets(ctx context.Context, window time.Duration, minIncidents int64) ([]FlaggedWallet, error) {
	wallets, err := s.client.SMembers(ctx, KeyAnomalyWallets).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list anomaly wallets: %v", err)
	}

	cutoff := strconv.FormatInt(time.Now().Add(-window).Unix(), 10)

	var flagged []FlaggedWallet
	for _, wallet := range wallets {
		timesKey := fmt.Sprintf(KeyAnomalyTimes, wallet)

		count, err := s.client.ZCount(ctx, timesKey, cutoff, "+inf").Result()
		if err != nil {
			continue
		}
		if count == 0 {
			// Index entry outlived its records; drop it.
			s.client.SRem(ctx, KeyAnomalyWallets, wallet)
			continue
		}
		if count >= minIncidents {
			flagged = append(flagged, FlaggedWallet{Wallet: wallet, Incidents: count})
		}
	}

	return flagged, nil
}

// PurgeExpiredTokens scans for token rows past expiry plus grace and deletes
// them. Redis TTLs already bound retention; this sweep just keeps keyspace
// small between TTL firings.
func (s *RedisService) PurgeExpiredTokens(ctx context.Context, grace time.Duration) (int, error) {
	var purged int
	var cursor uint64

	pattern := fmt.Sprintf(KeySessionToken, "*")

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return purged, fmt.Errorf("failed to scan session tokens: %v", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				continue
			}

			var t models.SessionToken
			if err := json.Unmarshal([]byte(data), &t); err != nil {
				continue
			}

			if time.Now().After(t.ExpiresAt.Add(grace)) {
				if s.client.Del(ctx, key).Err() == nil {
					purged++
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return purged, nil
}

// Test helpers.

func (s *RedisService) DeleteToken(ctx context.Context, token string) error {
	return s.client.Del(ctx, fmt.Sprintf(KeySessionToken, token)).Err()
}

func (s *RedisService) ClearWallet(ctx context.Context, wallet string) error {
	return s.client.Del(ctx,
		fmt.Sprintf(KeySubmissions, wallet),
		fmt.Sprintf(KeyWalletAnomalies, wallet),
		fmt.Sprintf(KeyAnomalyTimes, wallet),
	).Err()
}
