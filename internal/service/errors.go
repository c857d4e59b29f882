package service

import (
	"fmt"

	"github.com/ndrandal/tradinggame/internal/ids"
)

// GameNotFound is returned when the repository has no entry for a
// requested GameId.
type GameNotFound struct {
	GameId ids.GameId
}

func (e *GameNotFound) Error() string {
	return fmt.Sprintf("game not found: %s", e.GameId)
}

// LobbyNotFound is returned when the repository has no entry for a
// requested LobbyId.
type LobbyNotFound struct {
	LobbyId ids.LobbyId
}

func (e *LobbyNotFound) Error() string {
	return fmt.Sprintf("lobby not found: %s", e.LobbyId)
}
