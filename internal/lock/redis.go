// Package lock provides a Redis backed implementation of ledger.Locker for
// deployments where more than one replica appends to the same database.
package lock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/config"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "fleet:lock:"

var (
	ErrEmptyLockKey = errors.New("lock key cannot be empty")
	ErrNilLockFn    = errors.New("lock function is nil")

	// ErrLockLost is the cancellation cause handed to fn when the lock could
	// not be extended before it expired.
	ErrLockLost = errors.New("lock lost before work finished")
)

// Options configures how a lock is acquired.
type Options struct {
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
}

// DefaultOptions suits ledger appends, which finish well within a second.
func DefaultOptions() Options {
	return Options{
		Expiry:     10 * time.Second,
		Tries:      32,
		RetryDelay: 100 * time.Millisecond,
	}
}

// OptionsFromConfig fills unset values from DefaultOptions.
func OptionsFromConfig(cfg config.LockConfig) Options {
	opts := DefaultOptions()
	if cfg.Expiry > 0 {
		opts.Expiry = cfg.Expiry
	}
	if cfg.Tries > 0 {
		opts.Tries = cfg.Tries
	}
	if cfg.RetryDelay > 0 {
		opts.RetryDelay = cfg.RetryDelay
	}
	return opts
}

// RedisLocker serializes work on a key across replicas with redsync.
type RedisLocker struct {
	rs     *redsync.Redsync
	opts   Options
	logger *zap.Logger
}

// NewRedisLocker creates a locker on top of an existing go-redis client.
func NewRedisLocker(client redis.UniversalClient, opts Options, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		opts:   opts,
		logger: logger,
	}
}

// WithLock runs fn while holding the distributed lock for key. The lock is
// extended every Expiry/3 while fn runs; if an extension fails, fn's context
// is cancelled with ErrLockLost so the ledger transaction rolls back. Other
// errors from fn are returned unchanged.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if fn == nil {
		return ErrNilLockFn
	}
	if strings.TrimSpace(key) == "" {
		return ErrEmptyLockKey
	}

	mutex := l.rs.NewMutex(keyPrefix+key,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		l.logger.Warn("failed to acquire lock", zap.String("lock_key", key), zap.Error(err))
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	// release even when the request context is already cancelled
	defer func() {
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			l.logger.Error("failed to release lock",
				zap.String("lock_key", key), zap.Bool("unlock_ok", ok), zap.Error(err))
		}
	}()

	fnCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := l.keepAlive(fnCtx, cancel, mutex, key)
	err := fn(fnCtx)
	stop()

	if err != nil && errors.Is(context.Cause(fnCtx), ErrLockLost) {
		return fmt.Errorf("%w: %s: %v", ErrLockLost, key, err)
	}
	return err
}

// keepAlive extends mutex until the returned stop func is called.
func (l *RedisLocker) keepAlive(ctx context.Context, lost context.CancelCauseFunc, mutex *redsync.Mutex, key string) (stop func()) {
	interval := l.opts.Expiry / 3
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				ok, err := mutex.ExtendContext(context.WithoutCancel(ctx))
				if !ok || err != nil {
					l.logger.Error("failed to extend lock",
						zap.String("lock_key", key), zap.Bool("extend_ok", ok), zap.Error(err))
					lost(ErrLockLost)
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
