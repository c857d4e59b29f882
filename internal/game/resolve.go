package game

import "github.com/ndrandal/tradinggame/internal/ids"

// fill is one resolved order. Price is the fill price (the player's
// current perceived price, used to move cash/shares and to feed the
// market-wide ticker signal); Value is the order's original bid/ask
// value, which is what the player-facing BidFilled/AskFilled event
// reports.
type fill struct {
	PlayerId ids.PlayerId
	Price    Price
	Value    Price
}

// removeIndices removes the elements at idxs (given in ascending
// order) from vs, processed from the highest index to the lowest so
// swap-with-last deletions never disturb an index still pending
// removal. This is the language-neutral "collect indices, then remove
// in reverse" technique for mutating an order book while iterating it
// without exposing the container's internal order.
func removeIndices(vs []Price, idxs []int) []Price {
	for i := len(idxs) - 1; i >= 0; i-- {
		idx := idxs[i]
		last := len(vs) - 1
		vs[idx] = vs[last]
		vs = vs[:last]
	}
	return vs
}

// resolveBids fills every player's open bids against that player's own
// current price independently, then broadcasts the resulting fills as
// a market-wide ticker signal to every player (not just the fillee).
func (s *State) resolveBids() []fill {
	pids := s.sortedPlayerIDs()
	var filled []fill

	for _, pid := range pids {
		ps := s.Players[pid]
		price := s.PlayerTickers[pid].CurrentPrice

		var idxs []int
		for i, bid := range ps.OpenBids {
			if bid >= price {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) == 0 {
			continue
		}

		values := make([]Price, len(idxs))
		for i, idx := range idxs {
			values[i] = ps.OpenBids[idx]
		}
		ps.OpenBids = removeIndices(ps.OpenBids, idxs)
		for _, bidValue := range values {
			ps.Shares = append(ps.Shares, price)
			ps.Cash -= price
			filled = append(filled, fill{PlayerId: pid, Price: price, Value: bidValue})
		}
		s.Players[pid] = ps
	}

	for _, f := range filled {
		for _, tpid := range pids {
			s.PlayerTickers[tpid].Ticker.OnBidFilled(f.Price)
		}
	}
	return filled
}

// resolveAsks is the mirror of resolveBids: an ask fills when the
// player's own current price rises to or above the ask value.
func (s *State) resolveAsks() []fill {
	pids := s.sortedPlayerIDs()
	var filled []fill

	for _, pid := range pids {
		ps := s.Players[pid]
		price := s.PlayerTickers[pid].CurrentPrice

		var idxs []int
		for i, ask := range ps.OpenAsks {
			if ask <= price {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) == 0 {
			continue
		}

		values := make([]Price, len(idxs))
		for i, idx := range idxs {
			values[i] = ps.OpenAsks[idx]
		}
		ps.OpenAsks = removeIndices(ps.OpenAsks, idxs)
		for _, askValue := range values {
			if len(ps.Shares) > 0 {
				ps.Shares = ps.Shares[:len(ps.Shares)-1]
			}
			ps.Cash += price
			filled = append(filled, fill{PlayerId: pid, Price: price, Value: askValue})
		}
		s.Players[pid] = ps
	}

	for _, f := range filled {
		for _, tpid := range pids {
			s.PlayerTickers[tpid].Ticker.OnAskFilled(f.Price)
		}
	}
	return filled
}
