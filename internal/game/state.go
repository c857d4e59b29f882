package game

import (
	"sort"

	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/market"
)

// Phase is the game's lifecycle stage. Transitions are monotonic:
// Pending -> Running -> Ended, never in reverse.
type Phase int

const (
	Pending Phase = iota
	Running
	Ended
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "Pending"
	case Running:
		return "Running"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// State is the game aggregate: phase, config, every player's account
// and private price ticker, and the remaining tick budget.
type State struct {
	Phase         Phase
	Config        Config
	Players       map[ids.PlayerId]PlayerState
	PlayerTickers map[ids.PlayerId]*market.PlayerTicker
	TicksRemaining int32
}

// New creates a Pending game for the given players and config. Tickers
// are allocated immediately (so every player key has a matching ticker
// key, per the state invariant) but their price is only initialized to
// StartingPrice when Start runs.
func New(cfg Config, players []ids.PlayerId) *State {
	s := &State{
		Phase:          Pending,
		Config:         cfg,
		Players:        make(map[ids.PlayerId]PlayerState, len(players)),
		PlayerTickers:  make(map[ids.PlayerId]*market.PlayerTicker, len(players)),
		TicksRemaining: cfg.TickCount(),
	}
	for _, pid := range players {
		s.Players[pid] = NewPlayerState(cfg.StartingBalance)
		s.PlayerTickers[pid] = market.NewPlayerTicker(cfg.MaxPriceDelta, 0)
	}
	return s
}

// sortedPlayerIDs returns every player id in a fixed, reproducible
// order (lexical on the UUID bytes). The reducer emits effects in this
// order so the same (state, action) pair always produces the same
// effect vector, satisfying the deterministic-order requirement on
// GameEffect sequences.
func (s *State) sortedPlayerIDs() []ids.PlayerId {
	out := make([]ids.PlayerId, 0, len(s.Players))
	for pid := range s.Players {
		out = append(out, pid)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
