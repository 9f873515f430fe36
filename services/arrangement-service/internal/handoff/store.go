package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/burakmert236/arrangement/common/cache"
	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
)

type Store interface {
	Put(ctx context.Context, keys []string, record Record) error
}

// RedisStore keeps handoff records as JSON strings with a TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisStore(redisClient *cache.RedisClient, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: redisClient.GetClient(),
		ttl:    ttl,
		logger: log.Component("handoff-store"),
	}
}

func (s *RedisStore) Put(ctx context.Context, keys []string, record Record) error {
	if len(keys) == 0 {
		return apperrors.New(apperrors.CodeInvalidInput, "handoff record needs at least one key")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to marshal handoff record")
	}

	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.Set(ctx, key, data, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to write handoff record")
	}

	s.logger.Debug("Handoff record written", "keys", keys, "match_id", record.MatchId)
	return nil
}

// Get reads a record back, nil when the key is absent or expired.
func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRedisOperationError, fmt.Sprintf("failed to read handoff %s", key))
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeObjectUnmarshalError, "failed to unmarshal handoff record")
	}
	return &record, nil
}
