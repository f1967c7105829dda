package session

import (
	"context"
	"encoding/json"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	revokedKeyPrefix = "session:revoked:"
	eventsChannel    = "session:events"
)

// RedisStore keeps revoked token ids as expiring keys and broadcasts session
// events over a pub/sub channel.
type RedisStore struct {
	client *redis.Client
	log    logrus.FieldLogger
}

func NewRedisStore(client *redis.Client, log logrus.FieldLogger) *RedisStore {
	return &RedisStore{client: client, log: log.WithField("component", "session-redis")}
}

// Revoke marks tokenID as signed out until the token's own expiry.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type eventMessage struct {
	Kind   string    `json:"kind"`
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

func (s *RedisStore) Publish(ctx context.Context, event ports.SessionEvent) error {
	payload, err := json.Marshal(eventMessage{
		Kind:   string(event.Kind),
		UserID: event.UserID.String(),
		At:     event.At,
	})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, eventsChannel, payload).Err()
}

// Subscribe returns a channel of decoded events. The channel closes when ctx
// is done or the returned function is called.
func (s *RedisStore) Subscribe(ctx context.Context) (<-chan ports.SessionEvent, func(), error) {
	pubsub := s.client.Subscribe(ctx, eventsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan ports.SessionEvent)
	messages := pubsub.Channel()

	go func() {
		defer close(events)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				event, err := decodeEvent(msg.Payload)
				if err != nil {
					s.log.WithError(err).Warn("skip malformed session event")
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, cancel, nil
}

func decodeEvent(payload string) (ports.SessionEvent, error) {
	var msg eventMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return ports.SessionEvent{}, err
	}

	userID, err := kernel.UUIDFromString(msg.UserID)
	if err != nil {
		return ports.SessionEvent{}, err
	}
	return ports.SessionEvent{Kind: ports.SessionEventKind(msg.Kind), UserID: userID, At: msg.At}, nil
}
