package auth

import (
	"context"
	"sync"
)

// MemoryStore guarda as contas em memória. Serve os testes e o servidor
// standalone em dev; tudo se perde no restart, como o resto do processo.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]string
}

// NewMemoryStore cria um repositório vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[u.Username]; taken {
		return ErrUserExists
	}
	clone := *u
	s.byID[u.ID] = &clone
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *MemoryStore) ByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryStore) ByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	id, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.ByID(ctx, id)
}

func (s *MemoryStore) IncrementStats(_ context.Context, id string, delta Stats) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return Stats{}, ErrNotFound
	}
	u.Stats.GamesPlayed += delta.GamesPlayed
	u.Stats.Wins += delta.Wins
	u.Stats.Losses += delta.Losses
	u.Stats.ArtilleryHits += delta.ArtilleryHits
	u.Stats.UnitsDestroyed += delta.UnitsDestroyed
	return u.Stats, nil
}
