// Package notification defines the wire-level GameNotification
// vocabulary and its JSON encoding. The encoding follows the
// teacher's itch.EncodeJSON pattern: tag the variant in a snake_case
// "type" field and place payload fields at the top level.
package notification

import (
	"encoding/json"
	"fmt"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
)

// EncodeGameEvent encodes a single GameEvent as the GameNotification
// wire shape: GameEvent(event). PlayerId fields are rendered as
// 36-character UUID strings via their String methods.
func EncodeGameEvent(ev game.Event) ([]byte, error) {
	obj := eventToMap(ev)
	if obj == nil {
		return nil, fmt.Errorf("unsupported event kind: %d", ev.Kind)
	}
	return json.Marshal(obj)
}

func eventToMap(ev game.Event) map[string]any {
	switch ev.Kind {
	case game.EventCountdown:
		return map[string]any{
			"type":      "countdown",
			"remaining": ev.Remaining,
		}

	case game.EventGameStarted:
		return map[string]any{
			"type":                  "game_started",
			"starting_price":        ev.StartingPrice,
			"starting_balance":      ev.StartingBalance,
			"players":               playerIDStrings(ev.Players),
			"game_duration_secs":    ev.GameDurationSeconds,
		}

	case game.EventPriceChanged:
		return map[string]any{
			"type":      "price_changed",
			"player_id": ev.PlayerId.String(),
			"price":     ev.Price,
		}

	case game.EventBidPlaced:
		return map[string]any{"type": "bid_placed", "player_id": ev.PlayerId.String(), "value": ev.Value}
	case game.EventAskPlaced:
		return map[string]any{"type": "ask_placed", "player_id": ev.PlayerId.String(), "value": ev.Value}
	case game.EventBidCanceled:
		return map[string]any{"type": "bid_canceled", "player_id": ev.PlayerId.String(), "value": ev.Value}
	case game.EventAskCanceled:
		return map[string]any{"type": "ask_canceled", "player_id": ev.PlayerId.String(), "value": ev.Value}

	case game.EventBidFilled:
		return map[string]any{"type": "bid_filled", "player_id": ev.PlayerId.String(), "value": ev.Value}
	case game.EventAskFilled:
		return map[string]any{"type": "ask_filled", "player_id": ev.PlayerId.String(), "value": ev.Value}

	case game.EventGameEnded:
		balances := make([][2]any, len(ev.FinalBalances))
		for i, fb := range ev.FinalBalances {
			balances[i] = [2]any{fb.PlayerId.String(), fb.Balance}
		}
		return map[string]any{
			"type":           "game_ended",
			"final_balances": balances,
		}
	}
	return nil
}

func playerIDStrings(pids []ids.PlayerId) []string {
	out := make([]string, len(pids))
	for i, pid := range pids {
		out[i] = pid.String()
	}
	return out
}
