// Package matchmaking implements the FIFO waiting room that assembles
// groups of players into lobbies.
package matchmaking

import "github.com/ndrandal/tradinggame/internal/ids"

// OutcomeKind tags the MatchmakingOutcome sum type.
type OutcomeKind int

const (
	OutcomeMatched OutcomeKind = iota
	OutcomeEnqueued
	OutcomeDequeued
	OutcomePlayerNotFound
	OutcomeAlreadyQueued
)

// Outcome is the result of a single queue command.
type Outcome struct {
	Kind     OutcomeKind
	PlayerId ids.PlayerId   // Enqueued / Dequeued
	Matched  []ids.PlayerId // Matched (may be empty: "tried, nothing matched")
}

// Queue is an ordered sequence of waiting players. A player appears at
// most once.
type Queue struct {
	PlayersToStart int
	players        []ids.PlayerId
}

// New creates an empty queue requiring playersToStart players to form
// a match (default 2).
func New(playersToStart int) *Queue {
	if playersToStart <= 0 {
		playersToStart = 2
	}
	return &Queue{PlayersToStart: playersToStart}
}

// Restore rebuilds a Queue from persisted state, in FIFO order. Used
// by durable repositories decoding a stored queue document.
func Restore(playersToStart int, players []ids.PlayerId) *Queue {
	q := New(playersToStart)
	q.players = append(q.players, players...)
	return q
}

func (q *Queue) indexOf(pid ids.PlayerId) int {
	for i, p := range q.players {
		if p == pid {
			return i
		}
	}
	return -1
}

// Join appends pid to the queue, or returns AlreadyQueued if already present.
func (q *Queue) Join(pid ids.PlayerId) Outcome {
	if q.indexOf(pid) >= 0 {
		return Outcome{Kind: OutcomeAlreadyQueued, PlayerId: pid}
	}
	q.players = append(q.players, pid)
	return Outcome{Kind: OutcomeEnqueued, PlayerId: pid}
}

// Leave removes pid from the queue, or returns PlayerNotFound.
func (q *Queue) Leave(pid ids.PlayerId) Outcome {
	idx := q.indexOf(pid)
	if idx < 0 {
		return Outcome{Kind: OutcomePlayerNotFound, PlayerId: pid}
	}
	q.players = append(q.players[:idx], q.players[idx+1:]...)
	return Outcome{Kind: OutcomeDequeued, PlayerId: pid}
}

// TryMatchmake removes the first PlayersToStart entries, in FIFO
// order, and returns them as Matched. If the queue is shorter than
// PlayersToStart, it returns Matched with an empty slice: the attempt
// happened, nothing matched.
func (q *Queue) TryMatchmake() Outcome {
	if len(q.players) < q.PlayersToStart {
		return Outcome{Kind: OutcomeMatched, Matched: nil}
	}
	matched := append([]ids.PlayerId(nil), q.players[:q.PlayersToStart]...)
	q.players = q.players[q.PlayersToStart:]
	return Outcome{Kind: OutcomeMatched, Matched: matched}
}

// Players returns the current queue contents in FIFO order. Intended
// for tests and diagnostics, not for matchmaking decisions.
func (q *Queue) Players() []ids.PlayerId {
	out := make([]ids.PlayerId, len(q.players))
	copy(out, q.players)
	return out
}
