package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lastSeenTTL bounds how long a last-seen record survives without a
// refresh.
const lastSeenTTL = 30 * 24 * time.Hour

// PresenceService records when each user was last connected. Live
// online/offline state comes from the hub; redis keeps the last-seen
// timestamp across restarts.
type PresenceService struct {
	rdb *redis.Client
}

// NewPresenceService creates a new presence service
func NewPresenceService(rdb *redis.Client) *PresenceService {
	return &PresenceService{rdb: rdb}
}

func lastSeenKey(userID string) string {
	return "presence:last_seen:" + userID
}

// Touch records the current time as the user's last-seen moment.
func (s *PresenceService) Touch(ctx context.Context, userID string) error {
	err := s.rdb.Set(ctx, lastSeenKey(userID), time.Now().UnixMilli(), lastSeenTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to record last seen: %w", err)
	}
	return nil
}

// LastSeen returns when the user was last connected. ok is false when no
// record exists.
func (s *PresenceService) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	ms, err := s.rdb.Get(ctx, lastSeenKey(userID)).Int64()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last seen: %w", err)
	}
	return time.UnixMilli(ms), true, nil
}
