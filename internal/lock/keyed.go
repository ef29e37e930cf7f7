package lock

import "sync"

// Keyed hands out one mutex per key so work on the same key is serialized
// while distinct keys proceed in parallel.
type Keyed[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *Keyed[K]) Lock(key K) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[K]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
