package resource

import (
	"sort"
	"sync"
)

// Registry хранит именованные ресурсы одного вида.
// Безопасен для одновременного использования.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry создаёт пустой реестр
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Set добавляет или заменяет ресурс
func (r *Registry[T]) Set(name string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = v
}

// Get возвращает ресурс по имени
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[name]
	return v, ok
}

// Remove удаляет ресурс. Возвращает false, если его не было.
func (r *Registry[T]) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	return true
}

// Names возвращает имена ресурсов по алфавиту
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len возвращает число ресурсов
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// clear очищает реестр
func (r *Registry[T]) clear() {
	r.mu.Lock()
	r.items = make(map[string]T)
	r.mu.Unlock()
}
