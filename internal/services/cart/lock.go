package cart

import (
	"context"
	"fmt"
	"time"

	"akounamatata-system/internal/services/core"
)

const (
	cartLockTTL      = 5 * time.Second
	cartLockAttempts = 20
	cartLockBackoff  = 50 * time.Millisecond
)

// withCartLock serializes mutations of one (client, table) cart through a
// redis SETNX lock. Concurrent writers from the same client (multiple tabs
// or devices) would otherwise race read-modify-write and lose updates. The
// TTL bounds the lock should a holder die mid-operation.
func lockKey(clientID, tableID int64) string {
	return fmt.Sprintf("cart:lock:%d:%d", clientID, tableID)
}

func (s *Service) withCartLock(ctx context.Context, clientID, tableID int64, fn func() error) error {
	key := lockKey(clientID, tableID)

	acquired := false
	for i := 0; i < cartLockAttempts; i++ {
		ok, err := s.redis.SetNX(ctx, key, 1, cartLockTTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire cart lock: %w", err)
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(cartLockBackoff)
	}
	if !acquired {
		return core.Conflictf("cart is being modified, try again")
	}
	defer s.redis.Del(ctx, key)

	return fn()
}
