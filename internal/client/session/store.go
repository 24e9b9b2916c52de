package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
)

// Store persists a session between runs. Save and Clear are atomic: Load
// never observes a mix of two sessions. Load returns (nil, nil) when nothing
// complete is stored.
type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory only.
type MemoryStore struct {
	mu sync.Mutex
	s  *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s.Clone()
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.s.Complete() {
		return nil, nil
	}
	return m.s.Clone(), nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
