package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrStateNotFound indicates no stored state exists for a conversation.
var ErrStateNotFound = fmt.Errorf("conversation: state not found")

// StateStore persists conversation state between turns.
type StateStore interface {
	Save(ctx context.Context, conversationID string, state *State) error
	Load(ctx context.Context, conversationID string) (*State, error)
}

// RedisStateStore keeps serialized conversation state in redis with a TTL
// so abandoned conversations expire on their own.
type RedisStateStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStateStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("layla.internal.conversation.state"),
	}
}

func (s *RedisStateStore) Save(ctx context.Context, conversationID string, state *State) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_state")
	defer span.End()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal state: %w", err)
	}
	if err := s.redis.Set(ctx, stateKey(conversationID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Load(ctx context.Context, conversationID string) (*State, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_state")
	defer span.End()

	data, err := s.redis.Get(ctx, stateKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrStateNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode state: %w", err)
	}
	return &state, nil
}

func stateKey(id string) string {
	return fmt.Sprintf("layla:state:%s", id)
}
