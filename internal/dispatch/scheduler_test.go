package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
)

type recordingGameHandler struct {
	mu      sync.Mutex
	actions []game.Action
}

func (h *recordingGameHandler) HandleAction(_ context.Context, _ ids.GameId, action game.Action) {
	h.mu.Lock()
	h.actions = append(h.actions, action)
	h.mu.Unlock()
}

func (h *recordingGameHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.actions)
}

type countingLobbyHandler struct {
	mu    sync.Mutex
	ticks int
}

func (h *countingLobbyHandler) HandleCountdownTick(_ context.Context, _ ids.LobbyId) {
	h.mu.Lock()
	h.ticks++
	h.mu.Unlock()
}

func (h *countingLobbyHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ticks
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestScheduleActionDeliversToGameHandler(t *testing.T) {
	games := &recordingGameHandler{}
	s := NewScheduler()
	s.SetGameHandler(games)
	s.SetLobbyHandler(&countingLobbyHandler{})
	defer s.Shutdown()

	id := ids.NewGameId()
	s.GameScheduler().ScheduleAction(id, time.Millisecond, game.TickAction())

	waitFor(t, func() bool { return games.count() == 1 })
}

func TestGameWorkerSerializesActionsPerGame(t *testing.T) {
	games := &recordingGameHandler{}
	s := NewScheduler()
	s.SetGameHandler(games)
	s.SetLobbyHandler(&countingLobbyHandler{})
	defer s.Shutdown()

	id := ids.NewGameId()
	sched := s.GameScheduler()
	sched.ScheduleAction(id, 0, game.TickAction())
	sched.ScheduleAction(id, 10*time.Millisecond, game.TickAction())
	sched.ScheduleAction(id, 20*time.Millisecond, game.EndAction())

	waitFor(t, func() bool { return games.count() == 3 })

	games.mu.Lock()
	defer games.mu.Unlock()
	if games.actions[2].Kind != game.ActionEnd {
		t.Fatalf("last action = %v, want ActionEnd", games.actions[2].Kind)
	}
}

func TestScheduleActionDeliversToLobbyHandler(t *testing.T) {
	lobbies := &countingLobbyHandler{}
	s := NewScheduler()
	s.SetGameHandler(&recordingGameHandler{})
	s.SetLobbyHandler(lobbies)
	defer s.Shutdown()

	id := ids.NewLobbyId()
	s.LobbyScheduler().ScheduleAction(id, time.Millisecond, lobby.CountdownTick())

	waitFor(t, func() bool { return lobbies.count() == 1 })
}

func TestShutdownStopsAcceptingNewWork(t *testing.T) {
	games := &recordingGameHandler{}
	s := NewScheduler()
	s.SetGameHandler(games)
	s.SetLobbyHandler(&countingLobbyHandler{})
	s.Shutdown()

	id := ids.NewGameId()
	s.GameScheduler().ScheduleAction(id, 0, game.TickAction())

	time.Sleep(20 * time.Millisecond)
	if games.count() != 0 {
		t.Fatalf("count = %d, want 0 after shutdown", games.count())
	}
}
