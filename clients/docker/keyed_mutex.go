package docker

import "sync"

// KeyedMutex provides a read/write lock per key, used to make sure an image
// digest is only pulled by one run at a time
type KeyedMutex struct {
	innerMap map[string]*sync.RWMutex
	mutex    *sync.RWMutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		innerMap: make(map[string]*sync.RWMutex),
		mutex:    &sync.RWMutex{},
	}
}

func (m *KeyedMutex) getKeyLock(key string) *sync.RWMutex {
	// set read lock to check if key exists
	m.mutex.RLock()

	if lock, ok := m.innerMap[key]; ok {
		m.mutex.RUnlock()
		return lock
	}

	m.mutex.RUnlock()

	// set write lock to add lock to initialize key
	m.mutex.Lock()

	// double check if it hasn't been created in the meantime
	if lock, ok := m.innerMap[key]; ok {
		m.mutex.Unlock()
		return lock
	}

	// otherwise create it
	lock := &sync.RWMutex{}

	m.innerMap[key] = lock
	m.mutex.Unlock()

	return lock
}

func (m *KeyedMutex) RLock(key string) {
	m.getKeyLock(key).RLock()
}

func (m *KeyedMutex) RUnlock(key string) {
	m.getKeyLock(key).RUnlock()
}

func (m *KeyedMutex) Lock(key string) {
	m.getKeyLock(key).Lock()
}

func (m *KeyedMutex) Unlock(key string) {
	m.getKeyLock(key).Unlock()
}
