// internal/roles/memory.go
package roles

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps staff assignments in memory. It backs tests and
// DB-less deployments.
type MemoryStore struct {
	mu    sync.Mutex
	chats map[int64]map[int64]Role
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chats: make(map[int64]map[int64]Role)}
}

func (m *MemoryStore) Staff(ctx context.Context, chatID int64) (Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var staff Staff
	for id, role := range m.chats[chatID] {
		switch role {
		case RoleCreator:
			uid := id
			staff.Creator = &uid
		case RoleAdmin:
			staff.Admins = append(staff.Admins, id)
		case RoleModerator:
			staff.Moderators = append(staff.Moderators, id)
		}
	}
	sort.Slice(staff.Admins, func(i, j int) bool { return staff.Admins[i] < staff.Admins[j] })
	sort.Slice(staff.Moderators, func(i, j int) bool { return staff.Moderators[i] < staff.Moderators[j] })
	return staff, nil
}

func (m *MemoryStore) SetRole(ctx context.Context, chatID, userID int64, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chats[chatID] == nil {
		m.chats[chatID] = make(map[int64]Role)
	}
	m.chats[chatID][userID] = role
	return nil
}

func (m *MemoryStore) ClearRole(ctx context.Context, chatID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats[chatID], userID)
	return nil
}
