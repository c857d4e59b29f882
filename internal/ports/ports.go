// Package ports defines the capability interfaces the core requires
// from the outside world: notification delivery, persistence, and
// delayed self-scheduling. Any transport or storage implementation
// that satisfies these is acceptable; the core never depends on a
// concrete transport or database.
package ports

import (
	"context"
	"time"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
	"github.com/ndrandal/tradinggame/internal/matchmaking"
)

// GameNotification is the wire-level envelope dispatched to a single
// player by a GameEventNotifier.
type GameNotification struct {
	GameId ids.GameId
	Event  game.Event
}

// GameEventNotifier delivers notifications fire-and-forget: it may
// suspend, and errors are swallowed rather than propagated to the
// reducer caller.
type GameEventNotifier interface {
	NotifyPlayer(ctx context.Context, pid ids.PlayerId, n GameNotification)
}

// GameRepository persists GameState atomically; a durable
// implementation must never expose a torn write of phase vs
// ticks_remaining vs player maps.
type GameRepository interface {
	LoadGame(ctx context.Context, id ids.GameId) (*game.State, bool, error)
	SaveGame(ctx context.Context, id ids.GameId, s *game.State) error
	DeleteGame(ctx context.Context, id ids.GameId) error

	// ListGames enumerates every persisted game id, used by shutdown
	// drain to find every Running game that still owes its players a
	// GameEnded notification.
	ListGames(ctx context.Context) ([]ids.GameId, error)
}

// GameEventScheduler accepts a delayed self-invocation of the game
// reducer. Implementations MUST serialize scheduled actions for a
// single GameId; different GameIds may run concurrently.
type GameEventScheduler interface {
	ScheduleAction(id ids.GameId, delay time.Duration, action game.Action)
}

// LobbyEventNotifier is the lobby's counterpart to GameEventNotifier.
type LobbyNotification struct {
	LobbyId ids.LobbyId
	Event   lobby.Event
}

type LobbyEventNotifier interface {
	NotifyPlayer(ctx context.Context, pid ids.PlayerId, n LobbyNotification)
	Broadcast(ctx context.Context, pids []ids.PlayerId, n LobbyNotification)
}

// LobbyRepository persists LobbyState.
type LobbyRepository interface {
	LoadLobby(ctx context.Context, id ids.LobbyId) (*lobby.State, bool, error)
	SaveLobby(ctx context.Context, id ids.LobbyId, s *lobby.State) error
	DeleteLobby(ctx context.Context, id ids.LobbyId) error

	// ListLobbies enumerates every persisted lobby id, used for the
	// active-lobby count gauge.
	ListLobbies(ctx context.Context) ([]ids.LobbyId, error)
}

// LobbyEventScheduler schedules a delayed lobby action (CountdownTick).
type LobbyEventScheduler interface {
	ScheduleAction(id ids.LobbyId, delay time.Duration, action lobby.Action)
}

// QueueRepository persists the matchmaking queue. A single queue is
// typically a process-wide singleton, but the port is keyed for
// testability and for multi-queue deployments (e.g. per game mode).
type QueueRepository interface {
	LoadQueue(ctx context.Context, key string) (*matchmaking.Queue, bool, error)
	SaveQueue(ctx context.Context, key string, q *matchmaking.Queue) error
}

// QueueNotifier tells a player their matchmaking outcome.
type QueueNotifier interface {
	NotifyOutcome(ctx context.Context, pid ids.PlayerId, outcome matchmaking.Outcome)
}
