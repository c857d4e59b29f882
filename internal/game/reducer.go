package game

import (
	"github.com/ndrandal/tradinggame/internal/market"
)

// Process is the pure reducer: (state, action) -> (effects, error).
// On error, state is left entirely unchanged and no effects are
// returned. rng supplies the ticker's entropy for any Tick action; the
// same (state, action, rng-sequence) always produces the same result,
// per the note on threading a seeded RNG through the reducer instead
// of a package-global one.
func Process(s *State, action Action, rng *market.RNG) ([]Effect, error) {
	switch action.Kind {
	case ActionCountdown:
		return processCountdown(s, action)
	case ActionStart:
		return processStart(s, action)
	case ActionTick:
		return processTick(s, action, rng)
	case ActionBid:
		return processBid(s, action)
	case ActionAsk:
		return processAsk(s, action)
	case ActionCancelBid:
		return processCancelBid(s, action)
	case ActionCancelAsk:
		return processCancelAsk(s, action)
	case ActionEnd:
		return processEnd(s, action)
	default:
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}
}

func (s *State) broadcast(ev Event) []Effect {
	pids := s.sortedPlayerIDs()
	effects := make([]Effect, 0, len(pids))
	for _, pid := range pids {
		effects = append(effects, Notify(pid, ev))
	}
	return effects
}

func processCountdown(s *State, action Action) ([]Effect, error) {
	if s.Phase == Ended {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}
	return s.broadcast(Event{Kind: EventCountdown, Remaining: action.Remaining}), nil
}

func processStart(s *State, action Action) ([]Effect, error) {
	if s.Phase != Pending {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	s.Phase = Running
	pids := s.sortedPlayerIDs()
	for _, pid := range pids {
		s.PlayerTickers[pid].CurrentPrice = s.Config.StartingPrice
	}

	ev := Event{
		Kind:                EventGameStarted,
		StartingPrice:       s.Config.StartingPrice,
		StartingBalance:     s.Config.StartingBalance,
		Players:             pids,
		GameDurationSeconds: uint32(s.Config.GameDuration.Seconds()),
	}

	effects := s.broadcast(ev)
	effects = append(effects, Delayed(s.Config.TickInterval, TickAction()))
	return effects, nil
}

func processTick(s *State, action Action, rng *market.RNG) ([]Effect, error) {
	if s.Phase != Running || s.TicksRemaining <= 0 {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	s.TicksRemaining--

	pids := s.sortedPlayerIDs()
	for _, pid := range pids {
		s.PlayerTickers[pid].Tick(rng)
	}

	bidFills := s.resolveBids()
	askFills := s.resolveAsks()

	var effects []Effect

	for _, notified := range pids {
		for _, owner := range pids {
			effects = append(effects, Notify(notified, Event{
				Kind:     EventPriceChanged,
				PlayerId: owner,
				Price:    s.PlayerTickers[owner].CurrentPrice,
			}))
		}
	}

	for _, notified := range pids {
		for _, f := range bidFills {
			effects = append(effects, Notify(notified, Event{
				Kind:      EventBidFilled,
				PlayerId:  f.PlayerId,
				Value:     f.Value,
				FillPrice: f.Price,
			}))
		}
	}

	for _, notified := range pids {
		for _, f := range askFills {
			effects = append(effects, Notify(notified, Event{
				Kind:      EventAskFilled,
				PlayerId:  f.PlayerId,
				Value:     f.Value,
				FillPrice: f.Price,
			}))
		}
	}

	next := TickAction()
	if s.TicksRemaining == 0 {
		next = EndAction()
	}
	effects = append(effects, Delayed(s.Config.TickInterval, next))

	return effects, nil
}

func processBid(s *State, action Action) ([]Effect, error) {
	if s.Phase != Running {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	pid := action.PlayerId
	v := action.Value
	ps := s.Players[pid]

	if available := ps.AvailableCash(); available < v {
		return nil, &InsufficientFundsError{Available: available, Required: v}
	}

	ps.OpenBids = append(ps.OpenBids, v)
	s.Players[pid] = ps

	for _, tpid := range s.sortedPlayerIDs() {
		s.PlayerTickers[tpid].Ticker.OnBidPlaced(v)
	}

	return s.broadcast(Event{Kind: EventBidPlaced, PlayerId: pid, Value: v}), nil
}

func processAsk(s *State, action Action) ([]Effect, error) {
	if s.Phase != Running {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	pid := action.PlayerId
	v := action.Value
	ps := s.Players[pid]

	if available := ps.AvailableShares(); available < 1 {
		return nil, &InsufficientSharesError{Available: available, Required: 1}
	}

	ps.OpenAsks = append(ps.OpenAsks, v)
	s.Players[pid] = ps

	for _, tpid := range s.sortedPlayerIDs() {
		s.PlayerTickers[tpid].Ticker.OnAskPlaced(v)
	}

	return s.broadcast(Event{Kind: EventAskPlaced, PlayerId: pid, Value: v}), nil
}

func processCancelBid(s *State, action Action) ([]Effect, error) {
	if s.Phase != Running {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	pid := action.PlayerId
	ps, ok := s.Players[pid]
	if !ok {
		return nil, &PlayerNotFoundError{PlayerId: pid}
	}

	remaining, found := removeFirst(ps.OpenBids, action.Price)
	if !found {
		return nil, &OrderNotFoundError{OrderType: "bid", Price: action.Price}
	}
	ps.OpenBids = remaining
	s.Players[pid] = ps

	return s.broadcast(Event{Kind: EventBidCanceled, PlayerId: pid, Value: action.Price}), nil
}

func processCancelAsk(s *State, action Action) ([]Effect, error) {
	if s.Phase != Running {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	pid := action.PlayerId
	ps, ok := s.Players[pid]
	if !ok {
		return nil, &PlayerNotFoundError{PlayerId: pid}
	}

	remaining, found := removeFirst(ps.OpenAsks, action.Price)
	if !found {
		return nil, &OrderNotFoundError{OrderType: "ask", Price: action.Price}
	}
	ps.OpenAsks = remaining
	s.Players[pid] = ps

	return s.broadcast(Event{Kind: EventAskCanceled, PlayerId: pid, Value: action.Price}), nil
}

func processEnd(s *State, action Action) ([]Effect, error) {
	if s.Phase != Running {
		return nil, &InvalidPhaseError{Action: action.Kind.String(), Phase: s.Phase}
	}

	s.Phase = Ended

	pids := s.sortedPlayerIDs()
	balances := make([]FinalBalance, 0, len(pids))
	for _, pid := range pids {
		price := s.PlayerTickers[pid].CurrentPrice
		balances = append(balances, FinalBalance{
			PlayerId: pid,
			Balance:  s.Players[pid].NetWorth(price),
		})
	}

	return s.broadcast(Event{Kind: EventGameEnded, FinalBalances: balances}), nil
}
