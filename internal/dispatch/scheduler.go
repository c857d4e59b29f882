// Package dispatch implements the delayed self-invocation scheduler
// the core's reducers rely on for ticks and countdowns. It is grounded
// on the teacher's goroutine-per-entity runner loops in
// cmd/feedsim/main.go (symbolRunner/stressRunner): one goroutine per
// live entity, selecting on a work channel and a shutdown signal,
// generalized here so the entity is a GameId or LobbyId instead of a
// ticker symbol and the "tick" is whatever DelayedAction the reducer
// scheduled.
package dispatch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
	"github.com/ndrandal/tradinggame/internal/metrics"
	"github.com/ndrandal/tradinggame/internal/ports"
)

// idleEviction is how long an entity's worker goroutine waits for a
// new scheduled action before it exits and frees its queue. Games and
// lobbies that reschedule themselves every tick never hit this; it
// only reclaims entities whose owning service forgot to ever
// reschedule them (a bug) or that ended without the scheduler's
// knowledge.
const idleEviction = 10 * time.Minute

// GameHandler is the callback a game worker invokes for each due
// action; it is satisfied by *service.GameService.
type GameHandler interface {
	HandleAction(ctx context.Context, id ids.GameId, action game.Action)
}

// LobbyHandler is the lobby worker's callback; satisfied by
// *service.LobbyService. The scheduler only ever delivers
// CountdownTick, so the lobby worker ignores the queued action's
// contents and calls HandleCountdownTick for each one it receives.
type LobbyHandler interface {
	HandleCountdownTick(ctx context.Context, id ids.LobbyId)
}

// Scheduler serializes delayed actions per entity while running
// different entities concurrently. Timers are real wall-clock
// time.AfterFunc calls: on a busy or suspended process, a late-firing
// timer runs once immediately rather than catching up on missed
// intervals, since each reducer action only ever schedules the next
// one after it runs.
type Scheduler struct {
	handlerMu sync.RWMutex
	games     GameHandler
	lobbies   LobbyHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	gameMu      sync.Mutex
	gameQueues  map[ids.GameId]chan game.Action
	lobbyMu     sync.Mutex
	lobbyQueues map[ids.LobbyId]chan lobby.Action
}

// NewScheduler creates a Scheduler with no bound handlers. The usual
// construction order is circular (the services need a scheduler
// out-port, the scheduler needs the constructed services as
// handlers), so handlers are attached after construction via
// SetGameHandler/SetLobbyHandler rather than passed to NewScheduler.
// Call Shutdown to stop accepting new timers and wait for in-flight
// workers to drain.
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:         ctx,
		cancel:      cancel,
		gameQueues:  make(map[ids.GameId]chan game.Action),
		lobbyQueues: make(map[ids.LobbyId]chan lobby.Action),
	}
}

// SetGameHandler and SetLobbyHandler attach the services that consume
// due actions. Must be called once, before any ScheduleAction call can
// be expected to deliver.
func (s *Scheduler) SetGameHandler(h GameHandler) {
	s.handlerMu.Lock()
	s.games = h
	s.handlerMu.Unlock()
}

func (s *Scheduler) SetLobbyHandler(h LobbyHandler) {
	s.handlerMu.Lock()
	s.lobbies = h
	s.handlerMu.Unlock()
}

func (s *Scheduler) gameHandler() GameHandler {
	s.handlerMu.RLock()
	defer s.handlerMu.RUnlock()
	return s.games
}

func (s *Scheduler) lobbyHandler() LobbyHandler {
	s.handlerMu.RLock()
	defer s.handlerMu.RUnlock()
	return s.lobbies
}

// GameScheduler and LobbyScheduler adapt the Scheduler to each
// out-port separately: GameEventScheduler and LobbyEventScheduler both
// name their method ScheduleAction with a different action type, which
// one type's method set cannot satisfy at once.
func (s *Scheduler) GameScheduler() ports.GameEventScheduler   { return gameSchedulerView{s} }
func (s *Scheduler) LobbyScheduler() ports.LobbyEventScheduler { return lobbySchedulerView{s} }

// Shutdown stops the scheduler from accepting further work and waits
// for every worker goroutine to exit. It does not itself force Running
// games to End; callers drain game state separately (see
// service.GameService.Drain) before or after calling Shutdown.
func (s *Scheduler) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) scheduleGame(id ids.GameId, delay time.Duration, action game.Action) {
	time.AfterFunc(delay, func() {
		ch := s.gameQueueFor(id)
		select {
		case ch <- action:
		case <-s.ctx.Done():
		}
	})
}

func (s *Scheduler) gameQueueFor(id ids.GameId) chan game.Action {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()

	if ch, ok := s.gameQueues[id]; ok {
		return ch
	}

	ch := make(chan game.Action, 4)
	s.gameQueues[id] = ch
	metrics.SetSchedulerQueueDepth("game", len(s.gameQueues))
	s.wg.Add(1)
	go s.runGameWorker(id, ch)
	return ch
}

func (s *Scheduler) runGameWorker(id ids.GameId, ch chan game.Action) {
	defer s.wg.Done()
	idle := time.NewTimer(idleEviction)
	defer idle.Stop()

	for {
		select {
		case action := <-ch:
			if !idle.Stop() {
				<-idle.C
			}
			s.gameHandler().HandleAction(s.ctx, id, action)
			if action.Kind == game.ActionEnd {
				s.removeGameQueue(id)
				return
			}
			idle.Reset(idleEviction)
		case <-idle.C:
			s.removeGameQueue(id)
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) removeGameQueue(id ids.GameId) {
	s.gameMu.Lock()
	delete(s.gameQueues, id)
	metrics.SetSchedulerQueueDepth("game", len(s.gameQueues))
	s.gameMu.Unlock()
}

func (s *Scheduler) scheduleLobby(id ids.LobbyId, delay time.Duration, action lobby.Action) {
	time.AfterFunc(delay, func() {
		ch := s.lobbyQueueFor(id)
		select {
		case ch <- action:
		case <-s.ctx.Done():
		}
	})
}

func (s *Scheduler) lobbyQueueFor(id ids.LobbyId) chan lobby.Action {
	s.lobbyMu.Lock()
	defer s.lobbyMu.Unlock()

	if ch, ok := s.lobbyQueues[id]; ok {
		return ch
	}

	ch := make(chan lobby.Action, 4)
	s.lobbyQueues[id] = ch
	metrics.SetSchedulerQueueDepth("lobby", len(s.lobbyQueues))
	s.wg.Add(1)
	go s.runLobbyWorker(id, ch)
	return ch
}

func (s *Scheduler) runLobbyWorker(id ids.LobbyId, ch chan lobby.Action) {
	defer s.wg.Done()
	idle := time.NewTimer(idleEviction)
	defer idle.Stop()

	for {
		select {
		case <-ch:
			if !idle.Stop() {
				<-idle.C
			}
			s.lobbyHandler().HandleCountdownTick(s.ctx, id)
			idle.Reset(idleEviction)
		case <-idle.C:
			s.removeLobbyQueue(id)
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) removeLobbyQueue(id ids.LobbyId) {
	s.lobbyMu.Lock()
	delete(s.lobbyQueues, id)
	metrics.SetSchedulerQueueDepth("lobby", len(s.lobbyQueues))
	s.lobbyMu.Unlock()
}

type gameSchedulerView struct{ s *Scheduler }

func (v gameSchedulerView) ScheduleAction(id ids.GameId, delay time.Duration, action game.Action) {
	select {
	case <-v.s.ctx.Done():
		log.Printf("game %s: dropping scheduled %s, scheduler is shutting down", id, action.Kind)
	default:
		v.s.scheduleGame(id, delay, action)
	}
}

type lobbySchedulerView struct{ s *Scheduler }

func (v lobbySchedulerView) ScheduleAction(id ids.LobbyId, delay time.Duration, action lobby.Action) {
	select {
	case <-v.s.ctx.Done():
		log.Printf("lobby %s: dropping scheduled countdown tick, scheduler is shutting down", id)
	default:
		v.s.scheduleLobby(id, delay, action)
	}
}
