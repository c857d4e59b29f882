package notification

import (
	"encoding/json"
	"fmt"

	"github.com/ndrandal/tradinggame/internal/lobby"
)

// EncodeLobbyEvent mirrors EncodeGameEvent for the lobby's notification
// vocabulary.
func EncodeLobbyEvent(ev lobby.Event) ([]byte, error) {
	obj := lobbyEventToMap(ev)
	if obj == nil {
		return nil, fmt.Errorf("unsupported lobby event kind: %d", ev.Kind)
	}
	return json.Marshal(obj)
}

func lobbyEventToMap(ev lobby.Event) map[string]any {
	switch ev.Kind {
	case lobby.EventPlayerArrived:
		return map[string]any{"type": "player_arrived", "player_id": ev.PlayerId.String()}
	case lobby.EventPlayerReady:
		return map[string]any{"type": "player_ready", "player_id": ev.PlayerId.String()}
	case lobby.EventPlayerUnready:
		return map[string]any{"type": "player_unready", "player_id": ev.PlayerId.String()}
	case lobby.EventPlayerDisconnected:
		return map[string]any{"type": "player_disconnected", "player_id": ev.PlayerId.String()}
	case lobby.EventCountdownStarted:
		return map[string]any{"type": "countdown_started", "remaining": ev.Remaining}
	case lobby.EventCountdownTick:
		return map[string]any{"type": "countdown_tick", "remaining": ev.Remaining}
	case lobby.EventCountdownCancelled:
		return map[string]any{"type": "countdown_cancelled"}
	case lobby.EventLobbyCancelled:
		return map[string]any{"type": "lobby_cancelled"}
	case lobby.EventGameStarting:
		return map[string]any{"type": "game_starting", "game_id": ev.GameId.String()}
	}
	return nil
}
