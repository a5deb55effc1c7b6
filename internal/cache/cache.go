// Package cache streams match action records to Redis for an external
// historian service.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// MatchActionRecord is one ordered action within a match, as queued for the
// historian.
type MatchActionRecord struct {
	MatchID     uuid.UUID      `json:"match_id"`
	ActionIndex int            `json:"action_index"`
	ActionType  string         `json:"action_type"`
	Payload     map[string]any `json:"payload"`
	Timestamp   int64          `json:"timestamp"` // unix milliseconds
}

// Publisher pushes action records onto a Redis list. It satisfies the
// referee's ActionSink: publishing is fire-and-forget with a short internal
// timeout so a slow or absent Redis never stalls a match.
type Publisher struct {
	rdb   *redis.Client
	queue string
	log   *logrus.Entry
}

// NewPublisher connects a publisher to addr, queueing onto queue.
func NewPublisher(ctx context.Context, addr, queue string, logger *logrus.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return &Publisher{
		rdb:   rdb,
		queue: queue,
		log:   logger.WithField("component", "cache"),
	}, nil
}

// LogAction implements referee.ActionSink. The push happens on its own
// goroutine with a 2s budget, detached from the caller's context lifetime.
func (p *Publisher) LogAction(_ context.Context, matchID uuid.UUID, index int, actionType string, payload map[string]any) {
	if payload == nil {
		payload = make(map[string]any)
	}
	rec := MatchActionRecord{
		MatchID:     matchID,
		ActionIndex: index,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.publish(ctx, rec); err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{
				"match_id":     rec.MatchID,
				"action_index": rec.ActionIndex,
			}).Error("failed to publish action record")
		}
	}()
}

func (p *Publisher) publish(ctx context.Context, rec MatchActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return p.rdb.LPush(ctx, p.queue, data).Err()
}

// Close releases the Redis client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
