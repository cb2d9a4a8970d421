package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"coachdesk/models"
)

const sessionKeyPrefix = "slotsession:"

// SlotSessionStore keeps the advisory slot offers handed out at listing time
// in Redis with a TTL, replacing process-wide session maps with an explicit
// expiring store. Booking never trusts a session; it is diagnostics only.
type SlotSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSlotSessionStore(client *redis.Client, ttl time.Duration) *SlotSessionStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SlotSessionStore{Client: client, TTL: ttl}
}

// Save stores the offered slots and returns the new session ID.
func (s *SlotSessionStore) Save(ctx context.Context, sess models.SlotSession) (string, error) {
	sess.CreatedAt = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal slot session: %w", err)
	}
	sessionID := uuid.New().String()
	if err := s.Client.Set(ctx, sessionKeyPrefix+sessionID, data, s.TTL).Err(); err != nil {
		return "", fmt.Errorf("failed to cache slot session: %w", err)
	}
	return sessionID, nil
}

// Get returns nil when the session is unknown or expired.
func (s *SlotSessionStore) Get(ctx context.Context, sessionID string) (*models.SlotSession, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read slot session: %w", err)
	}
	var sess models.SlotSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to parse slot session: %w", err)
	}
	return &sess, nil
}
