package lobby

// Process is the lobby's pure reducer. Unlike the game reducer, an
// action invoked against an unsatisfied precondition is not an error:
// it is silently ignored (empty effect vector), matching the
// PlayerArrived-outside-expected-players rule generalized to every
// other precondition in this machine.
func Process(s *State, action Action) []Effect {
	switch action.Kind {
	case ActionPlayerArrived:
		return processPlayerArrived(s, action)
	case ActionPlayerReady:
		return processPlayerReady(s, action)
	case ActionPlayerUnready:
		return processPlayerUnready(s, action)
	case ActionPlayerDisconnected:
		return processPlayerDisconnected(s, action)
	case ActionCountdownTick:
		return processCountdownTick(s, action)
	case ActionStartGame:
		return processStartGame(s, action)
	default:
		return nil
	}
}

func processPlayerArrived(s *State, action Action) []Effect {
	if !s.expected(action.PlayerId) {
		return nil
	}
	s.ArrivedPlayers[action.PlayerId] = struct{}{}
	return []Effect{Broadcast(Event{Kind: EventPlayerArrived, PlayerId: action.PlayerId})}
}

func processPlayerReady(s *State, action Action) []Effect {
	if _, arrived := s.ArrivedPlayers[action.PlayerId]; !arrived {
		return nil
	}
	if s.Phase != WaitingForReady {
		return nil
	}

	s.ReadyPlayers[action.PlayerId] = struct{}{}

	effects := []Effect{Broadcast(Event{Kind: EventPlayerReady, PlayerId: action.PlayerId})}

	if len(s.ArrivedPlayers) == 0 || len(s.ReadyPlayers) != len(s.ArrivedPlayers) {
		return effects
	}
	for pid := range s.ArrivedPlayers {
		if _, ok := s.ReadyPlayers[pid]; !ok {
			return effects
		}
	}

	s.Phase = CountingDown
	s.Remaining = 10
	return append(effects,
		Broadcast(Event{Kind: EventCountdownStarted, Remaining: 10}),
		ScheduleCountdownTick(1),
	)
}

func processPlayerUnready(s *State, action Action) []Effect {
	if _, ok := s.ReadyPlayers[action.PlayerId]; !ok {
		return nil
	}
	delete(s.ReadyPlayers, action.PlayerId)

	effects := []Effect{Broadcast(Event{Kind: EventPlayerUnready, PlayerId: action.PlayerId})}

	if s.Phase != CountingDown {
		return effects
	}
	s.Phase = WaitingForReady
	s.Remaining = 0
	return append(effects, Broadcast(Event{Kind: EventCountdownCancelled}))
}

func processPlayerDisconnected(s *State, action Action) []Effect {
	delete(s.ArrivedPlayers, action.PlayerId)
	delete(s.ReadyPlayers, action.PlayerId)

	effects := []Effect{Broadcast(Event{Kind: EventPlayerDisconnected, PlayerId: action.PlayerId})}

	if len(s.ArrivedPlayers) == 0 {
		s.Phase = Cancelled
		return append(effects, Broadcast(Event{Kind: EventLobbyCancelled}))
	}
	return effects
}

func processCountdownTick(s *State, action Action) []Effect {
	if s.Phase != CountingDown {
		return nil
	}

	if s.Remaining > 1 {
		s.Remaining--
		return []Effect{
			Broadcast(Event{Kind: EventCountdownTick, Remaining: s.Remaining}),
			ScheduleCountdownTick(1),
		}
	}

	return []Effect{CreateGame(s.Id, s.sortedArrivedPlayers())}
}

func processStartGame(s *State, action Action) []Effect {
	s.Phase = GameStarted
	s.GameId = action.GameId
	return []Effect{Broadcast(Event{Kind: EventGameStarting, GameId: action.GameId})}
}
