// Package lobby implements the ready-up state machine that gates game
// launch: players arrive, ready up, and a ten-second countdown hands
// off to game creation once everyone is ready.
package lobby

import (
	"sort"

	"github.com/ndrandal/tradinggame/internal/ids"
)

// Phase is the lobby's lifecycle stage.
type Phase int

const (
	WaitingForReady Phase = iota
	CountingDown
	GameStarted
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case WaitingForReady:
		return "WaitingForReady"
	case CountingDown:
		return "CountingDown"
	case GameStarted:
		return "GameStarted"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// State is the lobby aggregate. Invariant: ReadyPlayers is a subset of
// ArrivedPlayers, which is a subset of ExpectedPlayers.
type State struct {
	Id              ids.LobbyId
	ExpectedPlayers []ids.PlayerId
	ArrivedPlayers  map[ids.PlayerId]struct{}
	ReadyPlayers    map[ids.PlayerId]struct{}
	Phase           Phase

	// Remaining is only meaningful in CountingDown.
	Remaining uint32

	// GameId is only meaningful once Phase == GameStarted.
	GameId ids.GameId
}

// New creates a WaitingForReady lobby for the given expected players.
func New(id ids.LobbyId, expected []ids.PlayerId) *State {
	return &State{
		Id:              id,
		ExpectedPlayers: expected,
		ArrivedPlayers:  make(map[ids.PlayerId]struct{}),
		ReadyPlayers:    make(map[ids.PlayerId]struct{}),
		Phase:           WaitingForReady,
	}
}

func (s *State) expected(pid ids.PlayerId) bool {
	for _, p := range s.ExpectedPlayers {
		if p == pid {
			return true
		}
	}
	return false
}

// sortedArrivedPlayers returns ArrivedPlayers in a fixed, reproducible
// order so broadcasts have a deterministic effect vector, mirroring the
// game reducer's sortedPlayerIDs.
func (s *State) sortedArrivedPlayers() []ids.PlayerId {
	out := make([]ids.PlayerId, 0, len(s.ArrivedPlayers))
	for pid := range s.ArrivedPlayers {
		out = append(out, pid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
