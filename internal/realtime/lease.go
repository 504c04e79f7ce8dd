package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaseManager grants one staff member at a time the right to edit a
// zone's sheet for a date. A lease expires on its own if the holder
// disappears without releasing.
type LeaseManager struct {
	redis *redis.Client
	ttl   time.Duration
}

var ErrLeaseHeld = errors.New("lease held by someone else")

func NewLeaseManager(client *redis.Client, ttl time.Duration) *LeaseManager {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &LeaseManager{redis: client, ttl: ttl}
}

func leaseKey(zoneID, date string) string {
	return fmt.Sprintf("edit_lease:%s:%s", zoneID, date)
}

// Acquire takes the lease or renews it when holder already owns it.
// Returns the current holder on contention.
func (m *LeaseManager) Acquire(ctx context.Context, zoneID, date, holder string) (string, error) {
	key := leaseKey(zoneID, date)
	ok, err := m.redis.SetNX(ctx, key, holder, m.ttl).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return holder, nil
	}
	current, err := m.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		// Expired between SetNX and Get: try once more.
		ok, err := m.redis.SetNX(ctx, key, holder, m.ttl).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return holder, nil
		}
		return "", ErrLeaseHeld
	}
	if err != nil {
		return "", err
	}
	if current == holder {
		if err := m.redis.Expire(ctx, key, m.ttl).Err(); err != nil {
			return "", err
		}
		return holder, nil
	}
	return current, ErrLeaseHeld
}

// Renew extends the holder's lease. A lease renewed by someone who no
// longer holds it fails with ErrLeaseHeld.
func (m *LeaseManager) Renew(ctx context.Context, zoneID, date, holder string) error {
	key := leaseKey(zoneID, date)
	current, err := m.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrLeaseHeld
	}
	if err != nil {
		return err
	}
	if current != holder {
		return ErrLeaseHeld
	}
	return m.redis.Expire(ctx, key, m.ttl).Err()
}

// Release drops the lease when holder owns it; releasing someone
// else's lease is a no-op.
func (m *LeaseManager) Release(ctx context.Context, zoneID, date, holder string) error {
	key := leaseKey(zoneID, date)
	current, err := m.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if current != holder {
		return nil
	}
	return m.redis.Del(ctx, key).Err()
}

// Holder reports the current lease holder, empty when free.
func (m *LeaseManager) Holder(ctx context.Context, zoneID, date string) (string, error) {
	current, err := m.redis.Get(ctx, leaseKey(zoneID, date)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return current, nil
}
