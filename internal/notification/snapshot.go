package notification

import (
	"encoding/json"
	"sort"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
)

// EncodeGameSnapshot frames a full read of a game's current state as a
// synthetic "game_snapshot" notification. It is not part of the
// GameEvent vocabulary the reducer emits: it exists only so a
// reconnecting player can recover phase, every player's perceived
// price, and their own account without waiting for the next Tick.
func EncodeGameSnapshot(gameID ids.GameId, viewer ids.PlayerId, st *game.State) ([]byte, error) {
	pids := make([]ids.PlayerId, 0, len(st.PlayerTickers))
	for pid := range st.PlayerTickers {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i].String() < pids[j].String() })

	prices := make(map[string]int32, len(pids))
	for _, pid := range pids {
		prices[pid.String()] = st.PlayerTickers[pid].CurrentPrice
	}

	obj := map[string]any{
		"type":            "game_snapshot",
		"game_id":         gameID.String(),
		"phase":           st.Phase.String(),
		"ticks_remaining": st.TicksRemaining,
		"prices":          prices,
	}

	if account, ok := st.Players[viewer]; ok {
		obj["account"] = map[string]any{
			"cash":      account.Cash,
			"shares":    account.Shares,
			"open_bids": account.OpenBids,
			"open_asks": account.OpenAsks,
		}
	}

	return json.Marshal(obj)
}
