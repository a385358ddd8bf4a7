package store

import (
	"context"
	"errors"
	"sync"

	"github.com/draftforge/champ-select-backend/internal/draft"
)

// memoryStore is a map-backed Store for tests and single-process local runs.
// Records are copied on the way in and out so callers never alias the stored
// value.
type memoryStore struct {
	mu      sync.RWMutex
	lobbies map[string]*draft.Lobby
}

func NewMemory() Store {
	return &memoryStore{lobbies: make(map[string]*draft.Lobby)}
}

func (s *memoryStore) Get(ctx context.Context, lobbyID string) (*draft.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lobbies[lobbyID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyLobby(l), nil
}

func (s *memoryStore) Put(ctx context.Context, l *draft.Lobby) error {
	if l == nil {
		return errors.New("lobby cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[l.LobbyID] = copyLobby(l)
	return nil
}

func (s *memoryStore) List(ctx context.Context) ([]*draft.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*draft.Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		out = append(out, copyLobby(l))
	}
	return out, nil
}

func copyLobby(l *draft.Lobby) *draft.Lobby {
	c := *l
	c.Spectators = append([]string{}, l.Spectators...)
	c.PreBans = append([]string{}, l.PreBans...)
	c.BlueTeamBans = append([]string{}, l.BlueTeamBans...)
	c.RedTeamBans = append([]string{}, l.RedTeamBans...)
	c.BlueTeamChampions = append([]string{}, l.BlueTeamChampions...)
	c.RedTeamChampions = append([]string{}, l.RedTeamChampions...)
	return &c
}
