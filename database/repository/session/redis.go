package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"serenity/models"
)

const sessionPrefix = "wa:sess:"

// RedisRepo persists sessions as JSON blobs with a TTL, so conversations
// survive a restart. The per-sender lock is still in-process; running more
// than one instance is out of scope.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyedMutex
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl, locks: newKeyedMutex()}
}

func (r *RedisRepo) Get(ctx context.Context, waID string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionPrefix+waID).Result()
	if err == redis.Nil {
		sess := models.NewSession(waID)
		if err := r.Save(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}
	if err != nil {
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *RedisRepo) Save(ctx context.Context, sess *models.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionPrefix+sess.WaID, b, r.ttl).Err()
}

func (r *RedisRepo) Reset(ctx context.Context, sess *models.Session) error {
	sess.Reset()
	return r.Save(ctx, sess)
}

func (r *RedisRepo) Lock(waID string) func() {
	return r.locks.lock(waID)
}
