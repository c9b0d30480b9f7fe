// internal/identity/resolver.go
package identity

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/avelikov/guildbot/internal/database"
	"github.com/avelikov/guildbot/internal/models"
)

// Resolver maps a participant id to a display name.
type Resolver interface {
	Resolve(ctx context.Context, userID int64) string
}

// DBResolver resolves names from the users table with a small in-memory
// cache. Unknown users get a generated placeholder name, mirroring how a
// missing profile lookup should never break a game reply.
type DBResolver struct {
	mu    sync.Mutex
	cache map[int64]string
}

// NewDBResolver builds a database-backed resolver.
func NewDBResolver() *DBResolver {
	return &DBResolver{cache: make(map[int64]string)}
}

func (r *DBResolver) Resolve(ctx context.Context, userID int64) string {
	r.mu.Lock()
	if name, ok := r.cache[userID]; ok {
		r.mu.Unlock()
		return name
	}
	r.mu.Unlock()

	u, err := database.GetUserByID(ctx, userID)
	if err != nil {
		return Fallback(userID)
	}
	r.mu.Lock()
	r.cache[userID] = u.DisplayName
	r.mu.Unlock()
	return u.DisplayName
}

// Remember primes the cache and writes the name through to the users
// table, used when a bridge reports a sender name.
func (r *DBResolver) Remember(userID int64, name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	prev := r.cache[userID]
	r.cache[userID] = name
	r.mu.Unlock()
	if prev == name {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.UpsertUser(ctx, &models.User{ID: userID, DisplayName: name}); err != nil {
		log.Printf("failed to store display name for user %d: %v", userID, err)
	}
}

// Memory is a purely in-memory resolver for DB-less runs, fed by bridge
// sender names.
type Memory struct {
	mu    sync.Mutex
	names map[int64]string
}

// NewMemory returns an empty in-memory resolver.
func NewMemory() *Memory {
	return &Memory{names: make(map[int64]string)}
}

func (m *Memory) Resolve(_ context.Context, userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name, ok := m.names[userID]; ok {
		return name
	}
	return Fallback(userID)
}

// Remember stores a freshly observed display name.
func (m *Memory) Remember(userID int64, name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	m.names[userID] = name
	m.mu.Unlock()
}

// Static is a fixed-map resolver for tests and DB-less runs.
type Static map[int64]string

func (s Static) Resolve(_ context.Context, userID int64) string {
	if name, ok := s[userID]; ok {
		return name
	}
	return Fallback(userID)
}

// Fallback is the placeholder display name for unknown users.
func Fallback(userID int64) string {
	return fmt.Sprintf("User %d", userID)
}
