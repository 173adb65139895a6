package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Key patterns for the leaderboard cache.
const (
	// keyScores is the sorted set studentID -> score.
	keyScores = "leaderboard:scores:"

	// keyInfo is the hash studentID -> cachedEntry JSON.
	keyInfo = "leaderboard:info:"

	// keyMeta marks a metric as cached. Its absence means a miss even when the
	// ranking itself is empty.
	keyMeta = "leaderboard:meta:"
)

// DefaultLeaderboardTTL is how long a cached ranking lives.
const DefaultLeaderboardTTL = 5 * time.Minute

// LeaderboardCache stores rankings per metric using Redis sorted sets.
//
// Architecture:
//   - Sorted Set "leaderboard:scores:{metric}" stores studentID -> score
//   - Hash "leaderboard:info:{metric}" stores studentID -> display fields
//   - String "leaderboard:meta:{metric}" stores when the ranking was built
//
// Ranks are not stored; they are recomputed on read so ties are handled the
// same way as the database ranking.
type LeaderboardCache struct {
	client *Client
	ttl    time.Duration
}

var _ leaderboard.Cache = (*LeaderboardCache)(nil)

// cachedEntry is the JSON stored in the info hash.
type cachedEntry struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// NewLeaderboardCache creates a cache whose keys expire after ttl.
func NewLeaderboardCache(client *Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = DefaultLeaderboardTTL
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

// ─── write operations ───────────────────────────────────────────────────────

// Replace rebuilds the cached ranking for a metric in one transaction.
func (l *LeaderboardCache) Replace(ctx context.Context, metric leaderboard.Metric, entries []leaderboard.Entry) error {
	scoresKey, infoKey, metaKey := keys(metric)

	pipe := l.client.rdb.TxPipeline()
	pipe.Del(ctx, scoresKey, infoKey)

	if len(entries) > 0 {
		members := make([]redis.Z, 0, len(entries))
		info := make(map[string]interface{}, len(entries))
		for _, e := range entries {
			member := e.StudentID.String()
			members = append(members, redis.Z{Score: e.Score, Member: member})

			data, err := encodeEntry(e)
			if err != nil {
				return err
			}
			info[member] = data
		}
		pipe.ZAdd(ctx, scoresKey, members...)
		pipe.HSet(ctx, infoKey, info)
		pipe.Expire(ctx, scoresKey, l.ttl)
		pipe.Expire(ctx, infoKey, l.ttl)
	}

	pipe.Set(ctx, metaKey, time.Now().UTC().Format(time.RFC3339), l.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace leaderboard %s: %w", metric, err)
	}
	return nil
}

// UpdateScore writes one student's score into an already cached ranking.
// When the metric is not cached it does nothing; the next read rebuilds it.
func (l *LeaderboardCache) UpdateScore(ctx context.Context, metric leaderboard.Metric, entry leaderboard.Entry) error {
	if !entry.StudentID.IsValid() {
		return shared.ErrInvalidID
	}
	scoresKey, infoKey, metaKey := keys(metric)

	cached, err := l.client.rdb.Exists(ctx, metaKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check leaderboard %s: %w", metric, err)
	}
	if cached == 0 {
		return nil
	}

	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	member := entry.StudentID.String()
	pipe := l.client.rdb.Pipeline()
	pipe.ZAdd(ctx, scoresKey, redis.Z{Score: entry.Score, Member: member})
	pipe.HSet(ctx, infoKey, member, data)
	pipe.Expire(ctx, scoresKey, l.ttl)
	pipe.Expire(ctx, infoKey, l.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update leaderboard %s: %w", metric, err)
	}
	return nil
}

// Invalidate drops the cached rankings for the given metrics, or all of them
// when none are given.
func (l *LeaderboardCache) Invalidate(ctx context.Context, metrics ...leaderboard.Metric) error {
	if len(metrics) == 0 {
		metrics = leaderboard.AllMetrics()
	}

	toDelete := make([]string, 0, len(metrics)*3)
	for _, m := range metrics {
		scoresKey, infoKey, metaKey := keys(m)
		toDelete = append(toDelete, scoresKey, infoKey, metaKey)
	}

	if err := l.client.rdb.Del(ctx, toDelete...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard: %w", err)
	}
	return nil
}

// ─── read operations ────────────────────────────────────────────────────────

// Top returns up to limit ranked entries for metric.
// Returns leaderboard.ErrCacheMiss when the metric is not cached.
func (l *LeaderboardCache) Top(ctx context.Context, metric leaderboard.Metric, limit int) ([]leaderboard.Entry, error) {
	scoresKey, infoKey, metaKey := keys(metric)

	if _, err := l.client.rdb.Get(ctx, metaKey).Result(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, leaderboard.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read leaderboard meta: %w", err)
	}

	// The whole set is read so ties at the cut-off rank consistently.
	scores, err := l.client.rdb.ZRevRangeWithScores(ctx, scoresKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard %s: %w", metric, err)
	}
	if len(scores) == 0 {
		return []leaderboard.Entry{}, nil
	}

	members := make([]string, len(scores))
	for i, z := range scores {
		members[i], _ = z.Member.(string)
	}

	infos, err := l.client.rdb.HMGet(ctx, infoKey, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard info: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(scores))
	for i, z := range scores {
		raw, ok := infos[i].(string)
		if !ok {
			// Info hash expired before the sorted set.
			return nil, leaderboard.ErrCacheMiss
		}
		entry, err := decodeEntry(members[i], z.Score, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	entries = leaderboard.AssignRanks(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func keys(metric leaderboard.Metric) (scores, info, meta string) {
	m := string(metric)
	return keyScores + m, keyInfo + m, keyMeta + m
}

func encodeEntry(e leaderboard.Entry) (string, error) {
	data, err := json.Marshal(cachedEntry{Username: e.Username, FullName: e.FullName})
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}
	return string(data), nil
}

func decodeEntry(member string, score float64, raw string) (leaderboard.Entry, error) {
	id, err := shared.ParseStudentID(member)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("bad leaderboard member %q: %w", member, err)
	}

	var info cachedEntry
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return leaderboard.Entry{}, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return leaderboard.Entry{
		StudentID: id,
		Username:  info.Username,
		FullName:  info.FullName,
		Score:     score,
	}, nil
}
