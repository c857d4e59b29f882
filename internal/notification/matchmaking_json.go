package notification

import (
	"encoding/json"
	"fmt"

	"github.com/ndrandal/tradinggame/internal/matchmaking"
)

// EncodeMatchmakingOutcome encodes a single queue command's outcome as
// the player-facing notification. Matched carries the full matched
// group (including the recipient) so a client can show who it was
// paired with without a follow-up lookup.
func EncodeMatchmakingOutcome(outcome matchmaking.Outcome) ([]byte, error) {
	switch outcome.Kind {
	case matchmaking.OutcomeEnqueued:
		return json.Marshal(map[string]any{"type": "queue_joined"})
	case matchmaking.OutcomeDequeued:
		return json.Marshal(map[string]any{"type": "queue_left"})
	case matchmaking.OutcomeAlreadyQueued:
		return json.Marshal(map[string]any{"type": "queue_already_joined"})
	case matchmaking.OutcomePlayerNotFound:
		return json.Marshal(map[string]any{"type": "queue_not_joined"})
	case matchmaking.OutcomeMatched:
		if len(outcome.Matched) == 0 {
			return json.Marshal(map[string]any{"type": "queue_waiting"})
		}
		return json.Marshal(map[string]any{
			"type":    "queue_matched",
			"players": playerIDStrings(outcome.Matched),
		})
	}
	return nil, fmt.Errorf("unsupported matchmaking outcome kind: %d", outcome.Kind)
}
