package lobby

import (
	"testing"

	"github.com/ndrandal/tradinggame/internal/ids"
)

// S5: two players ready up; the countdown runs ten ticks, yielding
// CreateGame on the tenth and no further schedule.
func TestS5_LobbyCountdownToGame(t *testing.T) {
	p1, p2 := ids.NewPlayerId(), ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1, p2})

	Process(s, PlayerArrived(p1))
	Process(s, PlayerArrived(p2))

	Process(s, PlayerReady(p1))
	effects := Process(s, PlayerReady(p2))
	if s.Phase != CountingDown || s.Remaining != 10 {
		t.Fatalf("phase=%s remaining=%d, want CountingDown{10}", s.Phase, s.Remaining)
	}
	if len(effects) != 3 || effects[0].Event.Kind != EventPlayerReady || effects[1].Event.Kind != EventCountdownStarted {
		t.Fatalf("expected [Broadcast(PlayerReady), Broadcast(CountdownStarted), ScheduleCountdownTick], got %+v", effects)
	}

	for i := 0; i < 9; i++ {
		effects = Process(s, CountdownTick())
		if len(effects) != 2 {
			t.Fatalf("tick %d: expected 2 effects (broadcast + schedule), got %d", i, len(effects))
		}
	}
	if s.Remaining != 1 {
		t.Fatalf("remaining = %d after 9 ticks, want 1", s.Remaining)
	}

	effects = Process(s, CountdownTick())
	if len(effects) != 1 || effects[0].Kind != EffectCreateGame {
		t.Fatalf("final tick: expected exactly one CreateGame effect, got %+v", effects)
	}
	if len(effects[0].Players) != 2 {
		t.Fatalf("CreateGame players = %d, want 2", len(effects[0].Players))
	}
}

func TestPlayerArrivedBroadcastsArrival(t *testing.T) {
	p1 := ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1})

	effects := Process(s, PlayerArrived(p1))
	if _, ok := s.ArrivedPlayers[p1]; !ok {
		t.Fatal("expected player to be recorded as arrived")
	}
	if len(effects) != 1 || effects[0].Kind != EffectBroadcast || effects[0].Event.Kind != EventPlayerArrived || effects[0].Event.PlayerId != p1 {
		t.Fatalf("expected a single Broadcast(PlayerArrived) effect, got %+v", effects)
	}
}

func TestPlayerArrivedIgnoredIfNotExpected(t *testing.T) {
	p1 := ids.NewPlayerId()
	stranger := ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1})

	effects := Process(s, PlayerArrived(stranger))
	if effects != nil {
		t.Fatalf("expected nil effects, got %+v", effects)
	}
	if _, ok := s.ArrivedPlayers[stranger]; ok {
		t.Fatal("stranger should not be recorded as arrived")
	}
}

// Ready-then-Unready round trip: the lobby returns to WaitingForReady
// with an empty ready set and no other observable change.
func TestReadyThenUnreadyRoundTrip(t *testing.T) {
	p1 := ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1})
	Process(s, PlayerArrived(p1))

	Process(s, PlayerReady(p1))
	if len(s.ReadyPlayers) != 1 {
		t.Fatal("expected player to be ready")
	}

	Process(s, PlayerUnready(p1))
	if s.Phase != WaitingForReady {
		t.Fatalf("phase = %s, want WaitingForReady", s.Phase)
	}
	if len(s.ReadyPlayers) != 0 {
		t.Fatal("expected ready set to be empty after unready")
	}
}

func TestUnreadyDuringCountdownCancelsIt(t *testing.T) {
	p1, p2 := ids.NewPlayerId(), ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1, p2})
	Process(s, PlayerArrived(p1))
	Process(s, PlayerArrived(p2))
	Process(s, PlayerReady(p1))
	Process(s, PlayerReady(p2))
	if s.Phase != CountingDown {
		t.Fatal("setup: expected CountingDown")
	}

	effects := Process(s, PlayerUnready(p1))
	if s.Phase != WaitingForReady {
		t.Fatalf("phase = %s, want WaitingForReady after unready mid-countdown", s.Phase)
	}
	if len(effects) != 2 || effects[0].Event.Kind != EventPlayerUnready || effects[1].Event.Kind != EventCountdownCancelled {
		t.Fatalf("expected [Broadcast(PlayerUnready), Broadcast(CountdownCancelled)], got %+v", effects)
	}
}

func TestDisconnectDuringCountdownContinues(t *testing.T) {
	p1, p2, p3 := ids.NewPlayerId(), ids.NewPlayerId(), ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1, p2, p3})
	Process(s, PlayerArrived(p1))
	Process(s, PlayerArrived(p2))
	Process(s, PlayerArrived(p3))
	Process(s, PlayerReady(p1))
	Process(s, PlayerReady(p2))
	Process(s, PlayerReady(p3))
	if s.Phase != CountingDown {
		t.Fatal("setup: expected CountingDown")
	}

	Process(s, PlayerDisconnected(p3))
	if s.Phase != CountingDown {
		t.Fatalf("phase = %s, want CountingDown to continue despite disconnect", s.Phase)
	}

	effects := Process(s, CountdownTick())
	if len(effects) != 2 {
		t.Fatalf("countdown should still be ticking, got %+v", effects)
	}
}

func TestDisconnectLastArrivedCancelsLobby(t *testing.T) {
	p1 := ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1})
	Process(s, PlayerArrived(p1))

	effects := Process(s, PlayerDisconnected(p1))
	if s.Phase != Cancelled {
		t.Fatalf("phase = %s, want Cancelled", s.Phase)
	}
	if len(effects) != 2 || effects[0].Event.Kind != EventPlayerDisconnected || effects[1].Event.Kind != EventLobbyCancelled {
		t.Fatalf("expected [Broadcast(PlayerDisconnected), Broadcast(LobbyCancelled)], got %+v", effects)
	}
}

func TestStartGameTransitionsPhase(t *testing.T) {
	p1 := ids.NewPlayerId()
	s := New(ids.NewLobbyId(), []ids.PlayerId{p1})
	gid := ids.NewGameId()

	effects := Process(s, StartGame(gid))
	if s.Phase != GameStarted || s.GameId != gid {
		t.Fatalf("phase = %s, gameId = %s", s.Phase, s.GameId)
	}
	if len(effects) != 1 || effects[0].Event.Kind != EventGameStarting {
		t.Fatalf("expected GameStarting broadcast, got %+v", effects)
	}
}
