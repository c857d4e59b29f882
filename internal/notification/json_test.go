package notification

import (
	"encoding/json"
	"testing"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
)

func decodeEvent(t *testing.T, ev game.Event) map[string]any {
	t.Helper()
	data, err := EncodeGameEvent(ev)
	if err != nil {
		t.Fatalf("EncodeGameEvent error: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	return obj
}

func TestEncodeCountdown(t *testing.T) {
	obj := decodeEvent(t, game.Event{Kind: game.EventCountdown, Remaining: 3})
	if obj["type"] != "countdown" {
		t.Fatalf("type = %v, want countdown", obj["type"])
	}
	if obj["remaining"].(float64) != 3 {
		t.Fatalf("remaining = %v, want 3", obj["remaining"])
	}
}

func TestEncodePriceChangedCarriesPlayerIdAsUUIDString(t *testing.T) {
	pid := ids.NewPlayerId()
	obj := decodeEvent(t, game.Event{Kind: game.EventPriceChanged, PlayerId: pid, Price: 55})
	if obj["type"] != "price_changed" {
		t.Fatalf("type = %v, want price_changed", obj["type"])
	}
	got, ok := obj["player_id"].(string)
	if !ok || len(got) != 36 {
		t.Fatalf("player_id = %v, want a 36-character UUID string", obj["player_id"])
	}
	if got != pid.String() {
		t.Fatalf("player_id = %s, want %s", got, pid.String())
	}
}

func TestEncodeGameEndedCarriesFinalBalances(t *testing.T) {
	pid := ids.NewPlayerId()
	obj := decodeEvent(t, game.Event{
		Kind:          game.EventGameEnded,
		FinalBalances: []game.FinalBalance{{PlayerId: pid, Balance: 1234}},
	})
	if obj["type"] != "game_ended" {
		t.Fatalf("type = %v, want game_ended", obj["type"])
	}
	balances, ok := obj["final_balances"].([]any)
	if !ok || len(balances) != 1 {
		t.Fatalf("final_balances = %v, want a one-element array", obj["final_balances"])
	}
}

func TestEncodeBidFilledUsesValueKeyForOriginalBidValue(t *testing.T) {
	pid := ids.NewPlayerId()
	obj := decodeEvent(t, game.Event{Kind: game.EventBidFilled, PlayerId: pid, Value: 42, FillPrice: 55})
	if obj["type"] != "bid_filled" {
		t.Fatalf("type = %v, want bid_filled", obj["type"])
	}
	if obj["value"].(float64) != 42 {
		t.Fatalf("value = %v, want the original bid value 42, not the fill price", obj["value"])
	}
}

func TestEncodeGameSnapshotCarriesViewerAccountAndOtherPrices(t *testing.T) {
	viewer, other := ids.NewPlayerId(), ids.NewPlayerId()
	st := game.New(game.DefaultConfig(), []ids.PlayerId{viewer, other})

	data, err := EncodeGameSnapshot(ids.NewGameId(), viewer, st)
	if err != nil {
		t.Fatalf("EncodeGameSnapshot error: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}

	if obj["type"] != "game_snapshot" {
		t.Fatalf("type = %v, want game_snapshot", obj["type"])
	}
	prices, ok := obj["prices"].(map[string]any)
	if !ok || len(prices) != 2 {
		t.Fatalf("prices = %v, want a two-entry map", obj["prices"])
	}
	account, ok := obj["account"].(map[string]any)
	if !ok {
		t.Fatalf("account = %v, want the viewer's account", obj["account"])
	}
	if account["cash"].(float64) != float64(game.DefaultConfig().StartingBalance) {
		t.Fatalf("cash = %v, want %d", account["cash"], game.DefaultConfig().StartingBalance)
	}
}

func TestEncodeGameSnapshotOmitsAccountForUnknownViewer(t *testing.T) {
	st := game.New(game.DefaultConfig(), []ids.PlayerId{ids.NewPlayerId()})

	data, err := EncodeGameSnapshot(ids.NewGameId(), ids.NewPlayerId(), st)
	if err != nil {
		t.Fatalf("EncodeGameSnapshot error: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if _, ok := obj["account"]; ok {
		t.Fatalf("account = %v, want no account key for an unrecognized viewer", obj["account"])
	}
}
