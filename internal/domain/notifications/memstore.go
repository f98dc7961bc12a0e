package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[uuid.UUID]Notification{}}
}

func (m *MemoryStore) CreateNotification(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[n.ID] = n
	return nil
}

func (m *MemoryStore) ListNotifications(_ context.Context, employeeID uuid.UUID, limit, offset int) ([]Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Notification
	for _, n := range m.items {
		if n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CountNotifications(_ context.Context, employeeID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.items {
		if n.EmployeeID == employeeID {
			total++
		}
	}
	return total, nil
}

func (m *MemoryStore) MarkRead(_ context.Context, employeeID, notificationID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[notificationID]
	if !ok || n.EmployeeID != employeeID {
		return ErrNotFound
	}
	if n.ReadAt == nil {
		now := time.Now().UTC()
		n.ReadAt = &now
		m.items[notificationID] = n
	}
	return nil
}

var _ StoreAPI = (*MemoryStore)(nil)
