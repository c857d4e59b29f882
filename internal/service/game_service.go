package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/market"
	"github.com/ndrandal/tradinggame/internal/metrics"
	"github.com/ndrandal/tradinggame/internal/ports"
)

// GameService wraps the pure game reducer with load -> reduce -> save
// -> dispatch, per every entry point below. Save happens before any
// effect is dispatched so a notification never exposes state that is
// not yet persisted (read-your-writes).
type GameService struct {
	repo      ports.GameRepository
	notifier  ports.GameEventNotifier
	scheduler ports.GameEventScheduler

	mu   sync.Mutex
	rngs map[ids.GameId]*market.RNG
}

// NewGameService wires a GameService to its three out-ports.
func NewGameService(repo ports.GameRepository, notifier ports.GameEventNotifier, scheduler ports.GameEventScheduler) *GameService {
	return &GameService{
		repo:      repo,
		notifier:  notifier,
		scheduler: scheduler,
		rngs:      make(map[ids.GameId]*market.RNG),
	}
}

func (s *GameService) rngFor(id ids.GameId) *market.RNG {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rngs[id]
	if !ok {
		r = market.NewRNG(0)
		s.rngs[id] = r
	}
	return r
}

func (s *GameService) forgetRNG(id ids.GameId) {
	s.mu.Lock()
	delete(s.rngs, id)
	s.mu.Unlock()
}

// Launch creates a new game for the given players and config, saves
// it Pending, then immediately issues Start so the caller always
// observes a running game on success.
func (s *GameService) Launch(ctx context.Context, id ids.GameId, players []ids.PlayerId, cfg game.Config) error {
	st := game.New(cfg, players)
	if err := s.repo.SaveGame(ctx, id, st); err != nil {
		return err
	}
	return s.handle(ctx, id, st, game.StartAction())
}

// PlaceBid, PlaceAsk, CancelBid, CancelAsk, and HandleAction are the
// client- and scheduler-facing entry points named in the port
// contract; each loads, reduces, saves, then dispatches.
func (s *GameService) PlaceBid(ctx context.Context, id ids.GameId, pid ids.PlayerId, value game.Price) error {
	metrics.IncOrder("bid")
	return s.dispatchAction(ctx, id, game.BidAction(pid, value))
}

func (s *GameService) PlaceAsk(ctx context.Context, id ids.GameId, pid ids.PlayerId, value game.Price) error {
	metrics.IncOrder("ask")
	return s.dispatchAction(ctx, id, game.AskAction(pid, value))
}

func (s *GameService) CancelBid(ctx context.Context, id ids.GameId, pid ids.PlayerId, price game.Price) error {
	metrics.IncOrder("cancel_bid")
	return s.dispatchAction(ctx, id, game.CancelBidAction(pid, price))
}

func (s *GameService) CancelAsk(ctx context.Context, id ids.GameId, pid ids.PlayerId, price game.Price) error {
	metrics.IncOrder("cancel_ask")
	return s.dispatchAction(ctx, id, game.CancelAskAction(pid, price))
}

// HandleAction is invoked by the scheduler when a DelayedAction
// effect (Tick or End) comes due. Per the scheduler contract, an error
// here is logged and dropped rather than retried.
func (s *GameService) HandleAction(ctx context.Context, id ids.GameId, action game.Action) {
	if err := s.dispatchAction(ctx, id, action); err != nil {
		log.Printf("game %s: scheduled action %s dropped: %v", id, action.Kind, err)
	}
	if action.Kind == game.ActionEnd {
		s.forgetRNG(id)
	}
}

// Drain forces every Running game to End immediately, used during
// graceful shutdown so no player is left waiting on a Tick that a
// restarted process's scheduler will never deliver. Games already
// Pending or Ended are left untouched.
func (s *GameService) Drain(ctx context.Context) error {
	gameIDs, err := s.repo.ListGames(ctx)
	if err != nil {
		return err
	}
	for _, id := range gameIDs {
		st, ok, err := s.repo.LoadGame(ctx, id)
		if err != nil {
			log.Printf("drain: failed to load game %s: %v", id, err)
			continue
		}
		if !ok || st.Phase != game.Running {
			continue
		}
		if err := s.handle(ctx, id, st, game.EndAction()); err != nil {
			log.Printf("drain: failed to end game %s: %v", id, err)
			continue
		}
		s.forgetRNG(id)
	}
	return nil
}

// ActiveCount reports how many persisted games are currently Running,
// sampled periodically into the games-active gauge.
func (s *GameService) ActiveCount(ctx context.Context) (int, error) {
	gameIDs, err := s.repo.ListGames(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range gameIDs {
		st, ok, err := s.repo.LoadGame(ctx, id)
		if err != nil || !ok {
			continue
		}
		if st.Phase == game.Running {
			n++
		}
	}
	return n, nil
}

func (s *GameService) dispatchAction(ctx context.Context, id ids.GameId, action game.Action) error {
	st, ok, err := s.repo.LoadGame(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &GameNotFound{GameId: id}
	}
	return s.handle(ctx, id, st, action)
}

func (s *GameService) handle(ctx context.Context, id ids.GameId, st *game.State, action game.Action) error {
	start := time.Now()
	effects, err := game.Process(st, action, s.rngFor(id))
	metrics.ObserveActionLatency("game", time.Since(start).Seconds())
	if action.Kind == game.ActionTick {
		metrics.IncTick(err == nil)
	}
	if err != nil {
		return err
	}
	if err := s.repo.SaveGame(ctx, id, st); err != nil {
		return err
	}
	// Every fill is notified once to each player, including its owner;
	// counting only the owner's copy counts each fill exactly once.
	fills := 0
	for _, eff := range effects {
		if eff.Kind == game.EffectNotification && eff.PlayerId == eff.Event.PlayerId &&
			(eff.Event.Kind == game.EventBidFilled || eff.Event.Kind == game.EventAskFilled) {
			fills++
		}
	}
	metrics.IncTrades(fills)
	for _, eff := range effects {
		s.dispatchEffect(ctx, id, eff)
	}
	return nil
}

func (s *GameService) dispatchEffect(ctx context.Context, id ids.GameId, eff game.Effect) {
	switch eff.Kind {
	case game.EffectNotification:
		s.notifier.NotifyPlayer(ctx, eff.PlayerId, ports.GameNotification{GameId: id, Event: eff.Event})
	case game.EffectDelayedAction:
		s.scheduler.ScheduleAction(id, eff.Delay, eff.Action)
	}
}
