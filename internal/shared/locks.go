package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionLockKey builds redis keys for per-session critical sections.
func SessionLockKey(sessionID string) string {
	return "onboard:sess:" + sessionID + ":lock"
}

const (
	// sessionLockTTL caps how long a crashed request can hold a session.
	// It must outlive the request timeout so a slow core API call cannot
	// lose its lock mid-commit.
	sessionLockTTL = 45 * time.Second

	sessionLockRetry = 20 * time.Millisecond
)

// unlockScript releases a lock only for its holder, so a request whose
// lock expired cannot delete a successor's lock.
var unlockScript = redis.NewScript(
	`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) end return 0`)

// LockSession serializes load-mutate-commit cycles for one session.
// Wizard state is a single session value, so overlapping mutations would
// otherwise commit whichever snapshot loaded last and silently drop the
// other request's writes. Blocks until the lock is acquired or ctx ends;
// the returned func releases the lock.
func (sm *SessionManager) LockSession(ctx context.Context, sessionID string) (func(), error) {
	key := SessionLockKey(sessionID)
	token := uuid.NewString()
	for {
		ok, err := sm.client.SetNX(ctx, key, token, sessionLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sessionLockRetry):
		}
	}
	release := func() {
		// Release must run even when the request context is already
		// cancelled, so it gets its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, sm.client, []string{key}, token).Err()
	}
	return release, nil
}
