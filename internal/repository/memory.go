// Package repository provides GameRepository/LobbyRepository/
// QueueRepository implementations. MapRepository is the in-memory
// reference adapted from the teacher's session.Manager map+mutex
// shape, generalized to three independently-lockable maps (one per
// entity kind) so game, lobby, and queue traffic never contend on a
// single lock.
package repository

import (
	"context"
	"sync"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
	"github.com/ndrandal/tradinggame/internal/matchmaking"
)

// MapRepository is the single-process reference repository used in
// tests and non-durable deployments. It satisfies GameRepository,
// LobbyRepository, and QueueRepository.
type MapRepository struct {
	gamesMu sync.RWMutex
	games   map[ids.GameId]*game.State

	lobbiesMu sync.RWMutex
	lobbies   map[ids.LobbyId]*lobby.State

	queuesMu sync.RWMutex
	queues   map[string]*matchmaking.Queue
}

func NewMapRepository() *MapRepository {
	return &MapRepository{
		games:   make(map[ids.GameId]*game.State),
		lobbies: make(map[ids.LobbyId]*lobby.State),
		queues:  make(map[string]*matchmaking.Queue),
	}
}

func (r *MapRepository) LoadGame(_ context.Context, id ids.GameId) (*game.State, bool, error) {
	r.gamesMu.RLock()
	defer r.gamesMu.RUnlock()
	st, ok := r.games[id]
	return st, ok, nil
}

func (r *MapRepository) SaveGame(_ context.Context, id ids.GameId, st *game.State) error {
	r.gamesMu.Lock()
	defer r.gamesMu.Unlock()
	r.games[id] = st
	return nil
}

func (r *MapRepository) DeleteGame(_ context.Context, id ids.GameId) error {
	r.gamesMu.Lock()
	defer r.gamesMu.Unlock()
	delete(r.games, id)
	return nil
}

func (r *MapRepository) ListGames(_ context.Context) ([]ids.GameId, error) {
	r.gamesMu.RLock()
	defer r.gamesMu.RUnlock()
	out := make([]ids.GameId, 0, len(r.games))
	for id := range r.games {
		out = append(out, id)
	}
	return out, nil
}

func (r *MapRepository) LoadLobby(_ context.Context, id ids.LobbyId) (*lobby.State, bool, error) {
	r.lobbiesMu.RLock()
	defer r.lobbiesMu.RUnlock()
	st, ok := r.lobbies[id]
	return st, ok, nil
}

func (r *MapRepository) SaveLobby(_ context.Context, id ids.LobbyId, st *lobby.State) error {
	r.lobbiesMu.Lock()
	defer r.lobbiesMu.Unlock()
	r.lobbies[id] = st
	return nil
}

func (r *MapRepository) DeleteLobby(_ context.Context, id ids.LobbyId) error {
	r.lobbiesMu.Lock()
	defer r.lobbiesMu.Unlock()
	delete(r.lobbies, id)
	return nil
}

func (r *MapRepository) ListLobbies(_ context.Context) ([]ids.LobbyId, error) {
	r.lobbiesMu.RLock()
	defer r.lobbiesMu.RUnlock()
	out := make([]ids.LobbyId, 0, len(r.lobbies))
	for id := range r.lobbies {
		out = append(out, id)
	}
	return out, nil
}

func (r *MapRepository) LoadQueue(_ context.Context, key string) (*matchmaking.Queue, bool, error) {
	r.queuesMu.RLock()
	defer r.queuesMu.RUnlock()
	q, ok := r.queues[key]
	return q, ok, nil
}

func (r *MapRepository) SaveQueue(_ context.Context, key string, q *matchmaking.Queue) error {
	r.queuesMu.Lock()
	defer r.queuesMu.Unlock()
	r.queues[key] = q
	return nil
}

// GameCount and LobbyCount are diagnostic helpers (only tests call
// them); they are not part of any port contract.
func (r *MapRepository) GameCount() int {
	r.gamesMu.RLock()
	defer r.gamesMu.RUnlock()
	return len(r.games)
}

func (r *MapRepository) LobbyCount() int {
	r.lobbiesMu.RLock()
	defer r.lobbiesMu.RUnlock()
	return len(r.lobbies)
}
