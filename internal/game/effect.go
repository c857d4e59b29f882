package game

import (
	"time"

	"github.com/ndrandal/tradinggame/internal/ids"
)

// EffectKind distinguishes the two ways a reducer call can affect the
// outside world: a notification addressed to one player, or a
// self-scheduled follow-up action.
type EffectKind int

const (
	EffectNotification EffectKind = iota
	EffectDelayedAction
)

// Effect is a single observable emission of the reducer. Consumers
// must not rely on delivery order across different Effect values
// dispatched concurrently, but may rely on the order effects appear
// within one action's returned slice.
type Effect struct {
	Kind EffectKind

	// Notification
	PlayerId ids.PlayerId
	Event    Event

	// DelayedAction
	Delay  time.Duration
	Action Action
}

func Notify(pid ids.PlayerId, ev Event) Effect {
	return Effect{Kind: EffectNotification, PlayerId: pid, Event: ev}
}

func Delayed(delay time.Duration, action Action) Effect {
	return Effect{Kind: EffectDelayedAction, Delay: delay, Action: action}
}
