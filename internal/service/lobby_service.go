package service

import (
	"context"
	"log"
	"time"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
	"github.com/ndrandal/tradinggame/internal/ports"
)

// GameLauncher is the narrow capability LobbyService needs from
// GameService: enough to finalize a lobby's handoff without coupling
// to the rest of the game service's surface.
type GameLauncher interface {
	Launch(ctx context.Context, id ids.GameId, players []ids.PlayerId, cfg game.Config) error
}

// LobbyService wraps the lobby reducer with load -> reduce -> save ->
// dispatch, and additionally owns the CreateGame handoff: on the
// countdown's final tick it mints a GameId, launches the game, then
// finalizes the lobby with StartGame and deletes it.
type LobbyService struct {
	repo      ports.LobbyRepository
	notifier  ports.LobbyEventNotifier
	scheduler ports.LobbyEventScheduler
	launcher  GameLauncher
	gameCfg   game.Config
}

func NewLobbyService(repo ports.LobbyRepository, notifier ports.LobbyEventNotifier, scheduler ports.LobbyEventScheduler, launcher GameLauncher, gameCfg game.Config) *LobbyService {
	return &LobbyService{repo: repo, notifier: notifier, scheduler: scheduler, launcher: launcher, gameCfg: gameCfg}
}

// CreateLobby implements matchmaking's LobbyCreator: a matched group
// is already known to be online, so every player is marked arrived
// immediately rather than waiting for a separate join step.
func (s *LobbyService) CreateLobby(ctx context.Context, players []ids.PlayerId) (ids.LobbyId, error) {
	id := ids.NewLobbyId()
	st := lobby.New(id, players)
	if err := s.repo.SaveLobby(ctx, id, st); err != nil {
		return ids.LobbyId{}, err
	}
	for _, pid := range players {
		if err := s.PlayerArrived(ctx, id, pid); err != nil {
			log.Printf("lobby %s: player %s failed to arrive: %v", id, pid, err)
		}
	}
	return id, nil
}

func (s *LobbyService) PlayerArrived(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error {
	return s.dispatchAction(ctx, id, lobby.PlayerArrived(pid))
}

func (s *LobbyService) PlayerReady(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error {
	return s.dispatchAction(ctx, id, lobby.PlayerReady(pid))
}

func (s *LobbyService) PlayerUnready(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error {
	return s.dispatchAction(ctx, id, lobby.PlayerUnready(pid))
}

func (s *LobbyService) PlayerDisconnected(ctx context.Context, id ids.LobbyId, pid ids.PlayerId) error {
	return s.dispatchAction(ctx, id, lobby.PlayerDisconnected(pid))
}

// HandleCountdownTick is invoked by the scheduler when a
// ScheduleCountdownTick effect comes due.
func (s *LobbyService) HandleCountdownTick(ctx context.Context, id ids.LobbyId) {
	if err := s.dispatchAction(ctx, id, lobby.CountdownTick()); err != nil {
		log.Printf("lobby %s: scheduled countdown tick dropped: %v", id, err)
	}
}

// ActiveCount reports how many lobbies are currently persisted, sampled
// periodically into the lobbies-active gauge.
func (s *LobbyService) ActiveCount(ctx context.Context) (int, error) {
	lobbyIDs, err := s.repo.ListLobbies(ctx)
	if err != nil {
		return 0, err
	}
	return len(lobbyIDs), nil
}

func (s *LobbyService) dispatchAction(ctx context.Context, id ids.LobbyId, action lobby.Action) error {
	st, ok, err := s.repo.LoadLobby(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &LobbyNotFound{LobbyId: id}
	}

	effects := lobby.Process(st, action)

	if err := s.repo.SaveLobby(ctx, id, st); err != nil {
		return err
	}

	for _, eff := range effects {
		s.dispatchEffect(ctx, id, st, eff)
	}
	return nil
}

func (s *LobbyService) dispatchEffect(ctx context.Context, id ids.LobbyId, st *lobby.State, eff lobby.Effect) {
	switch eff.Kind {
	case lobby.EffectNotification:
		s.notifier.NotifyPlayer(ctx, eff.PlayerId, ports.LobbyNotification{LobbyId: id, Event: eff.Event})
	case lobby.EffectBroadcast:
		s.notifier.Broadcast(ctx, arrivedPlayerIDs(st), ports.LobbyNotification{LobbyId: id, Event: eff.Event})
	case lobby.EffectScheduleCountdownTick:
		s.scheduler.ScheduleAction(id, time.Duration(eff.DelaySeconds)*time.Second, lobby.CountdownTick())
	case lobby.EffectCreateGame:
		s.finalizeGameStart(ctx, id, st, eff.Players)
	}
}

// arrivedPlayerIDs lists the lobby's currently arrived players, the
// broadcast audience for every lobby.EffectBroadcast: players who never
// arrived (or already disconnected) don't hear about a lobby they're
// not part of.
func arrivedPlayerIDs(st *lobby.State) []ids.PlayerId {
	out := make([]ids.PlayerId, 0, len(st.ArrivedPlayers))
	for pid := range st.ArrivedPlayers {
		out = append(out, pid)
	}
	return out
}

func (s *LobbyService) finalizeGameStart(ctx context.Context, id ids.LobbyId, st *lobby.State, players []ids.PlayerId) {
	gid := ids.NewGameId()
	if err := s.launcher.Launch(ctx, gid, players, s.gameCfg); err != nil {
		log.Printf("lobby %s: failed to launch game: %v", id, err)
		return
	}

	effects := lobby.Process(st, lobby.StartGame(gid))
	if err := s.repo.SaveLobby(ctx, id, st); err != nil {
		log.Printf("lobby %s: failed to save after StartGame: %v", id, err)
		return
	}
	for _, eff := range effects {
		s.dispatchEffect(ctx, id, st, eff)
	}

	if err := s.repo.DeleteLobby(ctx, id); err != nil {
		log.Printf("lobby %s: failed to delete after handoff: %v", id, err)
	}
}
