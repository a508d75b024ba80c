package service

import "sync"

// keyedLocks serializes read-modify-write sequences on one key: a patient
// for pledges, a goal id for goals. Entries are dropped once no caller
// holds or waits on them.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns the matching unlock.
func (l *keyedLocks) Lock(key string) func() {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &keyedLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
