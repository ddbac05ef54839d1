package testutil

import (
	"context"
	"sync"
	"sync/atomic"
)

// MutexLocker is an in-process account locker
type MutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	calls atomic.Int32
}

func NewMutexLocker() *MutexLocker {
	return &MutexLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *MutexLocker) WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[accountID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	l.calls.Add(1)
	return fn(ctx)
}

// Calls counts the lock acquisitions
func (l *MutexLocker) Calls() int {
	return int(l.calls.Load())
}
