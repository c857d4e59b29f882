package game

// PlayerState is one player's account within a GameState. Shares,
// open bids, and open asks are multisets: their element order carries
// no meaning and implementations (including this one) must not let
// any observable behavior depend on it.
type PlayerState struct {
	Cash     Money
	Shares   []Price // purchase prices; len() is share count
	OpenBids []Price
	OpenAsks []Price
}

// NewPlayerState creates a fresh account with the given starting cash
// and no open positions.
func NewPlayerState(startingCash Money) PlayerState {
	return PlayerState{Cash: startingCash}
}

// AvailableCash is cash not reserved against pending bids.
func (p PlayerState) AvailableCash() Money {
	return p.Cash - sumPrices(p.OpenBids)
}

// AvailableShares is shares not already committed to open asks.
func (p PlayerState) AvailableShares() int {
	free := len(p.Shares) - len(p.OpenAsks)
	if free < 0 {
		return 0
	}
	return free
}

// NetWorth is cash plus the mark-to-market value of held shares at
// price p.
func (p PlayerState) NetWorth(price Price) Money {
	return p.Cash + Money(len(p.Shares))*price
}

func sumPrices(vs []Price) Price {
	var total Price
	for _, v := range vs {
		total += v
	}
	return total
}

// removeFirst removes the first occurrence of value from vs, returning
// the resulting slice and whether a match was found. Order of the
// remaining elements is unspecified, matching the multiset contract.
func removeFirst(vs []Price, value Price) ([]Price, bool) {
	for i, v := range vs {
		if v == value {
			vs[i] = vs[len(vs)-1]
			return vs[:len(vs)-1], true
		}
	}
	return vs, false
}
