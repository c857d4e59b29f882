package matchmaking

import (
	"testing"

	"github.com/ndrandal/tradinggame/internal/ids"
)

func TestJoinThenLeaveRestoresQueue(t *testing.T) {
	p1, p2, p3 := ids.NewPlayerId(), ids.NewPlayerId(), ids.NewPlayerId()
	q := New(2)

	q.Join(p1)
	q.Join(p2)
	q.Join(p3)

	outcome := q.Leave(p2)
	if outcome.Kind != OutcomeDequeued {
		t.Fatalf("expected Dequeued, got %v", outcome.Kind)
	}

	want := []ids.PlayerId{p1, p3}
	got := q.Players()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("queue = %v, want %v", got, want)
	}
}

func TestJoinRejectsDuplicate(t *testing.T) {
	p1 := ids.NewPlayerId()
	q := New(2)
	q.Join(p1)

	outcome := q.Join(p1)
	if outcome.Kind != OutcomeAlreadyQueued {
		t.Fatalf("expected AlreadyQueued, got %v", outcome.Kind)
	}
}

func TestLeaveUnknownPlayer(t *testing.T) {
	q := New(2)
	outcome := q.Leave(ids.NewPlayerId())
	if outcome.Kind != OutcomePlayerNotFound {
		t.Fatalf("expected PlayerNotFound, got %v", outcome.Kind)
	}
}

func TestTryMatchmakeFIFO(t *testing.T) {
	p1, p2, p3 := ids.NewPlayerId(), ids.NewPlayerId(), ids.NewPlayerId()
	q := New(2)
	q.Join(p1)
	q.Join(p2)
	q.Join(p3)

	outcome := q.TryMatchmake()
	if outcome.Kind != OutcomeMatched || len(outcome.Matched) != 2 {
		t.Fatalf("expected Matched with 2 players, got %+v", outcome)
	}
	if outcome.Matched[0] != p1 || outcome.Matched[1] != p2 {
		t.Fatalf("expected FIFO [p1,p2], got %v", outcome.Matched)
	}

	remaining := q.Players()
	if len(remaining) != 1 || remaining[0] != p3 {
		t.Fatalf("remaining queue = %v, want [p3]", remaining)
	}
}

func TestTryMatchmakeBelowThresholdMatchesNothing(t *testing.T) {
	p1 := ids.NewPlayerId()
	q := New(2)
	q.Join(p1)

	outcome := q.TryMatchmake()
	if outcome.Kind != OutcomeMatched || len(outcome.Matched) != 0 {
		t.Fatalf("expected Matched([]), got %+v", outcome)
	}
	if len(q.Players()) != 1 {
		t.Fatal("queue should be untouched when nothing matches")
	}
}

func TestRestorePreservesOrderAndThreshold(t *testing.T) {
	p1, p2 := ids.NewPlayerId(), ids.NewPlayerId()
	q := Restore(3, []ids.PlayerId{p1, p2})

	if q.PlayersToStart != 3 {
		t.Fatalf("PlayersToStart = %d, want 3", q.PlayersToStart)
	}
	got := q.Players()
	if len(got) != 2 || got[0] != p1 || got[1] != p2 {
		t.Fatalf("Players() = %v, want [%v %v]", got, p1, p2)
	}

	outcome := q.TryMatchmake()
	if outcome.Kind != OutcomeMatched || len(outcome.Matched) != 0 {
		t.Fatalf("expected no match below threshold, got %+v", outcome)
	}
}

// Property: for any join/leave sequence, the queue equals the
// set-difference of joined minus left, in insertion order of the
// surviving members.
func TestJoinLeaveSequencePreservesInsertionOrder(t *testing.T) {
	q := New(100) // large enough that TryMatchmake never fires
	var joined []ids.PlayerId
	left := make(map[ids.PlayerId]bool)

	ops := []struct {
		join bool
		idx  int
	}{
		{true, 0}, {true, 1}, {true, 2}, {false, 1}, {true, 3}, {false, 0}, {true, 4},
	}

	for _, op := range ops {
		if op.join {
			pid := ids.NewPlayerId()
			joined = append(joined, pid)
			q.Join(pid)
		} else if op.idx < len(joined) {
			q.Leave(joined[op.idx])
			left[joined[op.idx]] = true
		}
	}

	var want []ids.PlayerId
	for _, pid := range joined {
		if !left[pid] {
			want = append(want, pid)
		}
	}

	got := q.Players()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("at %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
