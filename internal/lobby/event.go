package lobby

import "github.com/ndrandal/tradinggame/internal/ids"

type EventKind int

const (
	EventPlayerArrived EventKind = iota
	EventPlayerReady
	EventPlayerUnready
	EventPlayerDisconnected
	EventCountdownStarted
	EventCountdownTick
	EventCountdownCancelled
	EventLobbyCancelled
	EventGameStarting
)

// Event is the externally visible lobby vocabulary. Only fields
// relevant to Kind are populated.
type Event struct {
	Kind      EventKind
	PlayerId  ids.PlayerId // PlayerArrived / PlayerReady / PlayerUnready / PlayerDisconnected
	Remaining uint32       // CountdownStarted / CountdownTick
	GameId    ids.GameId   // GameStarting
}
