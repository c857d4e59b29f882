package game

import (
	"testing"

	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/market"
)

func testConfig() Config {
	return Config{
		TickInterval:      0,
		GameDuration:      0,
		MaxPriceDelta:     25,
		StartingPrice:     100,
		CountdownDuration: 0,
		StartingBalance:   1000,
	}
}

func newTestState(n int) (*State, []ids.PlayerId) {
	pids := make([]ids.PlayerId, n)
	for i := range pids {
		pids[i] = ids.NewPlayerId()
	}
	return New(testConfig(), pids), pids
}

func mustStart(t *testing.T, s *State) {
	t.Helper()
	if _, err := Process(s, StartAction(), market.NewRNG(1)); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

// S1: force the current price to a fixed value and place two bids at
// 40 each; both should fill at the execution price, refunding the
// difference, and the player should hold two shares.
func TestS1_TransactionsAtFixedPrice(t *testing.T) {
	s, pids := newTestState(1)
	mustStart(t, s)
	pid := pids[0]
	s.PlayerTickers[pid].CurrentPrice = 30

	if _, err := Process(s, BidAction(pid, 40), market.NewRNG(1)); err != nil {
		t.Fatalf("Bid 1: %v", err)
	}
	if _, err := Process(s, BidAction(pid, 40), market.NewRNG(1)); err != nil {
		t.Fatalf("Bid 2: %v", err)
	}

	filled := s.resolveBids()
	if len(filled) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(filled))
	}

	ps := s.Players[pid]
	if ps.Cash != 1000-30-30 {
		t.Fatalf("cash = %d, want %d", ps.Cash, 1000-60)
	}
	if len(ps.Shares) != 2 {
		t.Fatalf("shares = %d, want 2", len(ps.Shares))
	}
}

// S2: a bid exceeding available cash is rejected and leaves state
// untouched.
func TestS2_InsufficientFunds(t *testing.T) {
	s, pids := newTestState(1)
	mustStart(t, s)
	pid := pids[0]

	_, err := Process(s, BidAction(pid, 1001), market.NewRNG(1))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var insufficientFunds *InsufficientFundsError
	if !asInsufficientFunds(err, &insufficientFunds) {
		t.Fatalf("expected InsufficientFundsError, got %T: %v", err, err)
	}
	if len(s.Players[pid].OpenBids) != 0 {
		t.Fatal("state mutated despite rejected bid")
	}
}

// S3: an ask with no uncommitted share is rejected.
func TestS3_InsufficientShares(t *testing.T) {
	s, pids := newTestState(1)
	mustStart(t, s)
	pid := pids[0]

	_, err := Process(s, AskAction(pid, 50), market.NewRNG(1))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var insufficientShares *InsufficientSharesError
	if !asInsufficientShares(err, &insufficientShares) {
		t.Fatalf("expected InsufficientSharesError, got %T: %v", err, err)
	}
}

// S4: a share already committed to one open ask cannot back a second.
func TestS4_CommitThenAskGuard(t *testing.T) {
	s, pids := newTestState(1)
	mustStart(t, s)
	pid := pids[0]
	ps := s.Players[pid]
	ps.Shares = []Price{50}
	s.Players[pid] = ps

	if _, err := Process(s, AskAction(pid, 60), market.NewRNG(1)); err != nil {
		t.Fatalf("first ask: %v", err)
	}
	_, err := Process(s, AskAction(pid, 70), market.NewRNG(1))
	if err == nil {
		t.Fatal("expected second ask on the same share to fail")
	}
}

// S6: the final tick transitions ticks_remaining to zero and schedules
// End rather than another Tick.
func TestS6_FinalTickSchedulesEnd(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, []ids.PlayerId{ids.NewPlayerId()})
	mustStart(t, s)
	s.TicksRemaining = 1

	effects, err := Process(s, TickAction(), market.NewRNG(1))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if s.TicksRemaining != 0 {
		t.Fatalf("ticks_remaining = %d, want 0", s.TicksRemaining)
	}

	last := effects[len(effects)-1]
	if last.Kind != EffectDelayedAction || last.Action.Kind != ActionEnd {
		t.Fatalf("last effect = %+v, want DelayedAction{End}", last)
	}

	if _, err := Process(s, TickAction(), market.NewRNG(1)); err == nil {
		t.Fatal("expected PriceTick in Ended-adjacent zero-remaining state to fail")
	}
}

func TestStartRejectedOutsidePending(t *testing.T) {
	s, _ := newTestState(1)
	mustStart(t, s)
	if _, err := Process(s, StartAction(), market.NewRNG(1)); err == nil {
		t.Fatal("expected second Start to fail")
	}
}

func TestEndTransitionsToEndedAndReportsNetWorth(t *testing.T) {
	s, pids := newTestState(1)
	mustStart(t, s)
	pid := pids[0]
	s.PlayerTickers[pid].CurrentPrice = 120
	ps := s.Players[pid]
	ps.Shares = []Price{100, 100}
	s.Players[pid] = ps

	effects, err := Process(s, EndAction(), market.NewRNG(1))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if s.Phase != Ended {
		t.Fatalf("phase = %s, want Ended", s.Phase)
	}
	if len(effects) != 1 {
		t.Fatalf("expected 1 notification for 1 player, got %d", len(effects))
	}
	ev := effects[0].Event
	if ev.Kind != EventGameEnded {
		t.Fatalf("event kind = %v, want EventGameEnded", ev.Kind)
	}
	want := ps.Cash + Money(len(ps.Shares))*120
	if ev.FinalBalances[0].Balance != want {
		t.Fatalf("final balance = %d, want %d", ev.FinalBalances[0].Balance, want)
	}

	if _, err := Process(s, EndAction(), market.NewRNG(1)); err == nil {
		t.Fatal("expected End in Ended phase to fail")
	}
}

func TestCancelBidIsIdempotentOnSecondCall(t *testing.T) {
	s, pids := newTestState(1)
	mustStart(t, s)
	pid := pids[0]

	if _, err := Process(s, BidAction(pid, 50), market.NewRNG(1)); err != nil {
		t.Fatalf("Bid: %v", err)
	}
	if _, err := Process(s, CancelBidAction(pid, 50), market.NewRNG(1)); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := Process(s, CancelBidAction(pid, 50), market.NewRNG(1)); err == nil {
		t.Fatal("expected second cancel of the same bid to fail with OrderNotFound")
	}
}

func TestCancelBidUnknownPlayer(t *testing.T) {
	s, _ := newTestState(1)
	mustStart(t, s)
	_, err := Process(s, CancelBidAction(ids.NewPlayerId(), 50), market.NewRNG(1))
	if err == nil {
		t.Fatal("expected PlayerNotFoundError")
	}
}

func TestTickAndBidRejectedBeforeStart(t *testing.T) {
	s, pids := newTestState(1)
	if _, err := Process(s, TickAction(), market.NewRNG(1)); err == nil {
		t.Fatal("expected Tick before Start to fail")
	}
	if _, err := Process(s, BidAction(pids[0], 10), market.NewRNG(1)); err == nil {
		t.Fatal("expected Bid before Start to fail")
	}
}

func TestCountdownAllowedInAnyPhaseButEnded(t *testing.T) {
	s, _ := newTestState(1)
	if _, err := Process(s, CountdownAction(3), market.NewRNG(1)); err != nil {
		t.Fatalf("Countdown in Pending: %v", err)
	}
	mustStart(t, s)
	if _, err := Process(s, CountdownAction(2), market.NewRNG(1)); err != nil {
		t.Fatalf("Countdown in Running: %v", err)
	}
	if _, err := Process(s, EndAction(), market.NewRNG(1)); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := Process(s, CountdownAction(1), market.NewRNG(1)); err == nil {
		t.Fatal("expected Countdown in Ended to fail")
	}
}

// asInsufficientFunds / asInsufficientShares avoid importing errors.As
// purely for a single concrete-type assertion in these tests.
func asInsufficientFunds(err error, target **InsufficientFundsError) bool {
	e, ok := err.(*InsufficientFundsError)
	if ok {
		*target = e
	}
	return ok
}

func asInsufficientShares(err error, target **InsufficientSharesError) bool {
	e, ok := err.(*InsufficientSharesError)
	if ok {
		*target = e
	}
	return ok
}
