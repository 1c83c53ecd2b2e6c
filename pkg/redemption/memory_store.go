package redemption

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with an in-process map. It is the reference
// implementation used by tests and development setups; production deployments
// use PostgresStore.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]*Record
	byOwner map[uuid.UUID]string // owner -> latest token
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]*Record),
		byOwner: make(map[uuid.UUID]string),
	}
}

func (m *MemoryStore) FindByToken(ctx context.Context, token string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byToken[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.byOwner[ownerID]
	if !ok {
		return nil, ErrNoActiveToken
	}
	cp := *m.byToken[token]
	return &cp, nil
}

func (m *MemoryStore) Create(ctx context.Context, rec Record) (*Record, error) {
	if rec.Token == "" || rec.OwnerID == uuid.Nil || rec.IssuedAt.IsZero() {
		return nil, ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byToken[rec.Token]; exists {
		return nil, ErrDuplicateToken
	}

	cp := rec
	m.byToken[rec.Token] = &cp
	m.byOwner[rec.OwnerID] = rec.Token

	out := cp
	return &out, nil
}

func (m *MemoryStore) MarkUsed(ctx context.Context, token string, usedAt time.Time) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byToken[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if rec.UsedAt != nil {
		return nil, ErrAlreadyUsed
	}
	if usedAt.Before(rec.IssuedAt) {
		usedAt = rec.IssuedAt
	}

	ts := usedAt
	rec.UsedAt = &ts

	cp := *rec
	return &cp, nil
}
