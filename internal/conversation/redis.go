package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead-qualifier/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each conversation as a JSON snapshot and indexes ids
// in a sorted set scored by start time.
type RedisRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisRepository {
	if prefix == "" {
		prefix = "leadq"
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) key(id string) string {
	return fmt.Sprintf("%s:conversation:%s", r.prefix, id)
}

func (r *RedisRepository) indexKey() string {
	return r.prefix + ":conversations"
}

func (r *RedisRepository) Create(ctx context.Context, conv *models.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(conv.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	if !ok {
		return ErrConversationExists
	}

	score := float64(conv.StartTime.UnixNano())
	if err := r.client.ZAdd(ctx, r.indexKey(), redis.Z{Score: score, Member: conv.ID}).Err(); err != nil {
		return fmt.Errorf("index conversation: %w", err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Conversation, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return decodeConversation(data)
}

func (r *RedisRepository) Save(ctx context.Context, conv *models.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	ttl := r.ttl
	if ttl == 0 {
		ttl = redis.KeepTTL
	}
	ok, err := r.client.SetXX(ctx, r.key(conv.ID), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("store conversation: %w", err)
	}
	if !ok {
		return ErrConversationNotFound
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context) ([]*models.Conversation, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read conversation index: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Conversation{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}

	out := make([]*models.Conversation, 0, len(values))
	var expired []interface{}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		conv, err := decodeConversation([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}

	// snapshots that expired leave stale index members behind. A failed
	// cleanup is retried by the next List.
	if len(expired) > 0 {
		_ = r.client.ZRem(ctx, r.indexKey(), expired...).Err()
	}

	sortByStart(out)
	return out, nil
}

func decodeConversation(data []byte) (*models.Conversation, error) {
	var conv models.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &conv, nil
}
