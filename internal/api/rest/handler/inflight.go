package handler

import (
	"strings"
	"sync"
)

// InFlight не даёт одному технику запустить второй анализ, пока не завершён первый.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{active: make(map[string]struct{})}
}

// TryAcquire занимает слот для key. Возвращает false, если слот уже занят.
func (f *InFlight) TryAcquire(key string) bool {
	key = inFlightKey(key)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.active[key]; busy {
		return false
	}
	f.active[key] = struct{}{}
	return true
}

func (f *InFlight) Release(key string) {
	key = inFlightKey(key)

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.active, key)
}

func inFlightKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), " "))
}
