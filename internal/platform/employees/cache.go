package employees

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "employee:"

// Cache stores employee lookups for a bounded time.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (Employee, bool, error)
	Set(ctx context.Context, employee Employee, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

func cacheKey(id uuid.UUID) string {
	return cacheKeyPrefix + id.String()
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (Employee, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	var employee Employee
	if err := json.Unmarshal(raw, &employee); err != nil {
		return Employee{}, false, err
	}
	return employee, true, nil
}

func (c *RedisCache) Set(ctx context.Context, employee Employee, ttl time.Duration) error {
	raw, err := json.Marshal(employee)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(employee.EmployeeID), raw, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, cacheKey(id)).Err()
}

type memoryEntry struct {
	employee Employee
	expires  time.Time
}

// MemoryCache is the process-local fallback used when redis is not
// configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[uuid.UUID]memoryEntry{}, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, id uuid.UUID) (Employee, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return Employee{}, false, nil
	}
	if c.now().After(entry.expires) {
		delete(c.entries, id)
		return Employee{}, false, nil
	}
	return entry.employee, true, nil
}

func (c *MemoryCache) Set(_ context.Context, employee Employee, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[employee.EmployeeID] = memoryEntry{employee: employee, expires: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
