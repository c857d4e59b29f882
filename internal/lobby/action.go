package lobby

import "github.com/ndrandal/tradinggame/internal/ids"

type ActionKind int

const (
	ActionPlayerArrived ActionKind = iota
	ActionPlayerReady
	ActionPlayerUnready
	ActionPlayerDisconnected
	ActionCountdownTick
	ActionStartGame
)

type Action struct {
	Kind     ActionKind
	PlayerId ids.PlayerId // Arrived/Ready/Unready/Disconnected
	GameId   ids.GameId   // StartGame
}

func PlayerArrived(pid ids.PlayerId) Action     { return Action{Kind: ActionPlayerArrived, PlayerId: pid} }
func PlayerReady(pid ids.PlayerId) Action       { return Action{Kind: ActionPlayerReady, PlayerId: pid} }
func PlayerUnready(pid ids.PlayerId) Action     { return Action{Kind: ActionPlayerUnready, PlayerId: pid} }
func PlayerDisconnected(pid ids.PlayerId) Action {
	return Action{Kind: ActionPlayerDisconnected, PlayerId: pid}
}
func CountdownTick() Action { return Action{Kind: ActionCountdownTick} }
func StartGame(gid ids.GameId) Action { return Action{Kind: ActionStartGame, GameId: gid} }
