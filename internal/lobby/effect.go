package lobby

import "github.com/ndrandal/tradinggame/internal/ids"

type EffectKind int

const (
	EffectNotification EffectKind = iota
	EffectBroadcast
	EffectScheduleCountdownTick
	EffectCreateGame
)

type Effect struct {
	Kind EffectKind

	// Notification
	PlayerId ids.PlayerId
	Event    Event

	// Broadcast reuses Event.

	// ScheduleCountdownTick
	DelaySeconds uint32

	// CreateGame
	LobbyId ids.LobbyId
	Players []ids.PlayerId
}

func Notify(pid ids.PlayerId, ev Event) Effect {
	return Effect{Kind: EffectNotification, PlayerId: pid, Event: ev}
}

func Broadcast(ev Event) Effect {
	return Effect{Kind: EffectBroadcast, Event: ev}
}

func ScheduleCountdownTick(delaySeconds uint32) Effect {
	return Effect{Kind: EffectScheduleCountdownTick, DelaySeconds: delaySeconds}
}

func CreateGame(lobbyID ids.LobbyId, players []ids.PlayerId) Effect {
	return Effect{Kind: EffectCreateGame, LobbyId: lobbyID, Players: players}
}
