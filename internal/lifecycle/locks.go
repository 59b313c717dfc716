package lifecycle

import (
	"sync"

	"github.com/google/uuid"
)

// keyedLocks hands out one mutex per project ID so mutations on the same
// project serialize while distinct projects proceed independently.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the mutex for id and returns its unlock func.
func (k *keyedLocks) lock(id uuid.UUID) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
