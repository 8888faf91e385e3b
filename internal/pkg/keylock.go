package pkg

import "sync"

// KeyLock serializes work per key while letting different keys proceed in parallel.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyEntry
}

type keyEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*keyEntry),
	}
}

// Lock blocks until key is free and returns the matching unlock function.
func (that *KeyLock) Lock(key string) func() {
	that.mu.Lock()
	entry, ok := that.locks[key]
	if !ok {
		entry = &keyEntry{}
		that.locks[key] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, key)
		}
		that.mu.Unlock()
	}
}
