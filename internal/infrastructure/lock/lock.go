package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vinayakp/wcauction/internal/infrastructure/logger"
)

// KeyedLockManager hands out named mutexes so callers can serialize work
// on a shared resource, such as a background job that must not overlap
// with itself.
type KeyedLockManager struct {
	locks  sync.Map // map[string]*sync.Mutex
	logger *logger.Logger
}

// NewKeyedLockManager creates a new keyed lock manager
func NewKeyedLockManager(lg *logger.Logger) *KeyedLockManager {
	return &KeyedLockManager{
		logger: lg,
	}
}

// Lock acquires the lock for the given key, waiting up to five seconds
func (m *KeyedLockManager) Lock(ctx context.Context, key string) error {
	mu := m.getOrCreateMutex(key)

	lockChan := make(chan struct{})
	go func() {
		mu.Lock()
		close(lockChan)
	}()

	select {
	case <-lockChan:
		m.logger.Debug("Acquired lock", zap.String("key", key))
		return nil
	case <-ctx.Done():
		m.logger.Error("Failed to acquire lock: context cancelled", zap.String("key", key), zap.Error(ctx.Err()))
		return fmt.Errorf("failed to acquire lock %q: %w", key, ctx.Err())
	case <-time.After(5 * time.Second):
		m.logger.Error("Failed to acquire lock: timeout", zap.String("key", key))
		return fmt.Errorf("failed to acquire lock %q: timeout", key)
	}
}

// Unlock releases the lock for the given key
func (m *KeyedLockManager) Unlock(key string) {
	muInterface, ok := m.locks.Load(key)
	if !ok {
		m.logger.Warn("No lock found during unlock", zap.String("key", key))
		return
	}
	muInterface.(*sync.Mutex).Unlock()
	m.logger.Debug("Released lock", zap.String("key", key))
}

// TryLock attempts to acquire the lock without blocking
func (m *KeyedLockManager) TryLock(key string) bool {
	mu := m.getOrCreateMutex(key)
	acquired := mu.TryLock()
	if !acquired {
		m.logger.Debug("Lock is busy", zap.String("key", key))
	}
	return acquired
}

func (m *KeyedLockManager) getOrCreateMutex(key string) *sync.Mutex {
	mu, ok := m.locks.Load(key)
	if ok {
		return mu.(*sync.Mutex)
	}

	actual, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
