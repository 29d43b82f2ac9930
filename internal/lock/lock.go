// Package lock provides a short-TTL Redis advisory lock per work center.
// It serializes the priority-merge window of concurrent scheduling runs
// touching the same work center. The lock is best-effort: callers that
// fail to acquire proceed with snapshot semantics, so Redis is never a
// hard scheduling dependency.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL      = 30 * time.Second
	acquireWait  = 2 * time.Second
	acquireRetry = 100 * time.Millisecond
)

// WorkCenterLocks implements engine.WorkCenterLocker on Redis.
type WorkCenterLocks struct {
	rc *redis.Client
}

func New(rc *redis.Client) *WorkCenterLocks {
	return &WorkCenterLocks{rc: rc}
}

// Acquire takes the work center's lock, retrying for a bounded window.
// The returned release deletes the key only when it still holds our
// token, so an expired lock taken over by another run is never released
// from under it. Release errors are ignored: the TTL bounds staleness.
func (l *WorkCenterLocks) Acquire(ctx context.Context, workCenterID uuid.UUID) (func(), error) {
	key := WorkCenterLockKey(workCenterID)
	token := uuid.New().String()
	deadline := time.Now().Add(acquireWait)

	for {
		ok, err := l.rc.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("setnx %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock %s held by another run", key)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(acquireRetry):
		}
	}

	release := func() {
		// GET+DEL is not atomic; the window is acceptable because the
		// token check already rules out deleting a successor's lock.
		v, err := l.rc.Get(context.Background(), key).Result()
		if err != nil || v != token {
			return
		}
		l.rc.Del(context.Background(), key) //nolint:errcheck
	}
	return release, nil
}
