package cache

import (
	"sync"
	"time"
)

// Cache — процессный key-value кэш с TTL для разгрузки чтений
// (лидерборд, сводки кошелька). Логика наград и переходов статусов
// никогда не читает через кэш: перед защищенной записью состояние
// берется из источника истины.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]item
	defaultTTL time.Duration
	stop       chan struct{}
	done       chan struct{}
}

type item struct {
	value     any
	expiresAt time.Time
}

// New создает новый экземпляр Cache с указанным TTL по умолчанию
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		items:      make(map[string]item),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start запускает периодическую очистку истекших записей
func (c *Cache) Start() {
	go c.janitor()
}

// Stop останавливает очистку
func (c *Cache) Stop() {
	close(c.stop)
	<-c.done
}

// Set сохраняет значение с TTL по умолчанию
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL сохраняет значение с указанным TTL
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Get возвращает значение, если оно есть и не истекло
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Delete удаляет запись (инвалидация при мутации сущности)
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Flush очищает весь кэш
func (c *Cache) Flush() {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}

func (c *Cache) janitor() {
	defer close(c.done)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
