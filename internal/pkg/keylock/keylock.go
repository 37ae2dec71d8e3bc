// Package keylock serialises work per key. Work on different keys proceeds
// independently; no caller should hold two keys at once.
package keylock

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Keyed is a set of mutexes indexed by key. Entries are created on demand
// and dropped once nobody holds or waits for them. The zero value is ready
// to use.
type Keyed[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*lockEntry
}

func New[K comparable]() *Keyed[K] {
	return &Keyed[K]{locks: make(map[K]*lockEntry)}
}

// Lock blocks until key is free and returns the function that releases it.
func (k *Keyed[K]) Lock(key K) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[K]*lockEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

// Len reports how many keys are currently held or awaited.
func (k *Keyed[K]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
