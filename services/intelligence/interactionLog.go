// File: services/intelligence/interactionLog.go
package intelligence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"serenity/models"
)

const (
	interactionLogKey = "ai:interactions"
	interactionLogMax = 1000
)

// InteractionLog keeps a capped trail of compose attempts in redis for
// diagnosing model behavior. Logging failures are swallowed; the trail is
// diagnostic, never load-bearing.
type InteractionLog struct {
	client *redis.Client
	logger *zap.Logger
}

func NewInteractionLog(client *redis.Client, logger *zap.Logger) *InteractionLog {
	return &InteractionLog{client: client, logger: logger}
}

func (l *InteractionLog) Record(ctx context.Context, rec models.InteractionRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		l.logger.Warn("Failed to marshal interaction record", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	pipe := l.client.Pipeline()
	pipe.LPush(ctx, interactionLogKey, b)
	pipe.LTrim(ctx, interactionLogKey, 0, interactionLogMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("Failed to store interaction record", zap.Error(err))
	}
}

// Recent returns up to n most-recent interaction records.
func (l *InteractionLog) Recent(ctx context.Context, n int64) ([]models.InteractionRecord, error) {
	raw, err := l.client.LRange(ctx, interactionLogKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]models.InteractionRecord, 0, len(raw))
	for _, item := range raw {
		var rec models.InteractionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
