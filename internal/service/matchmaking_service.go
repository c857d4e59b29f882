package service

import (
	"context"
	"log"

	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/matchmaking"
	"github.com/ndrandal/tradinggame/internal/metrics"
	"github.com/ndrandal/tradinggame/internal/ports"
)

// LobbyCreator is the narrow capability MatchmakingService needs to
// hand a matched group of players off to a fresh lobby.
type LobbyCreator interface {
	CreateLobby(ctx context.Context, players []ids.PlayerId) (ids.LobbyId, error)
}

// MatchmakingService wraps the matchmaking queue with the same
// load -> reduce -> save -> dispatch shape as the other services,
// though the queue itself holds no reducer-level effects: a match
// found is dispatched directly to lobby creation.
type MatchmakingService struct {
	repo     ports.QueueRepository
	notifier ports.QueueNotifier
	lobbies  LobbyCreator
	queueKey string
}

func NewMatchmakingService(repo ports.QueueRepository, notifier ports.QueueNotifier, lobbies LobbyCreator, queueKey string) *MatchmakingService {
	return &MatchmakingService{repo: repo, notifier: notifier, lobbies: lobbies, queueKey: queueKey}
}

func (s *MatchmakingService) loadQueue(ctx context.Context, playersToStart int) (*matchmaking.Queue, error) {
	q, ok, err := s.repo.LoadQueue(ctx, s.queueKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		q = matchmaking.New(playersToStart)
	}
	return q, nil
}

// Join enqueues pid, then immediately attempts a match so the first
// player to complete a full group never waits for an external tick.
func (s *MatchmakingService) Join(ctx context.Context, pid ids.PlayerId, playersToStart int) error {
	q, err := s.loadQueue(ctx, playersToStart)
	if err != nil {
		return err
	}

	outcome := q.Join(pid)
	if err := s.repo.SaveQueue(ctx, s.queueKey, q); err != nil {
		return err
	}
	metrics.SetQueueDepth(len(q.Players()))
	s.notifier.NotifyOutcome(ctx, pid, outcome)

	if outcome.Kind != matchmaking.OutcomeEnqueued {
		return nil
	}
	return s.tryMatchmake(ctx, q)
}

func (s *MatchmakingService) Leave(ctx context.Context, pid ids.PlayerId) error {
	q, err := s.loadQueue(ctx, 2)
	if err != nil {
		return err
	}

	outcome := q.Leave(pid)
	if err := s.repo.SaveQueue(ctx, s.queueKey, q); err != nil {
		return err
	}
	metrics.SetQueueDepth(len(q.Players()))
	s.notifier.NotifyOutcome(ctx, pid, outcome)
	return nil
}

func (s *MatchmakingService) tryMatchmake(ctx context.Context, q *matchmaking.Queue) error {
	outcome := q.TryMatchmake()
	if len(outcome.Matched) == 0 {
		return nil
	}

	if err := s.repo.SaveQueue(ctx, s.queueKey, q); err != nil {
		return err
	}
	metrics.SetQueueDepth(len(q.Players()))

	lid, err := s.lobbies.CreateLobby(ctx, outcome.Matched)
	if err != nil {
		log.Printf("matchmaking: failed to create lobby for matched group: %v", err)
		return err
	}
	log.Printf("matchmaking: created lobby %s for %d players", lid, len(outcome.Matched))

	for _, pid := range outcome.Matched {
		s.notifier.NotifyOutcome(ctx, pid, outcome)
	}
	return nil
}
