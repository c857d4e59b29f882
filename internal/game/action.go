package game

import "github.com/ndrandal/tradinggame/internal/ids"

// Action is the sum type the reducer accepts. Exactly one of the
// fields below is meaningful per Kind; use the constructors to build
// well-formed values.
type ActionKind int

const (
	ActionCountdown ActionKind = iota
	ActionStart
	ActionTick
	ActionBid
	ActionAsk
	ActionCancelBid
	ActionCancelAsk
	ActionEnd
)

type Action struct {
	Kind ActionKind

	// Countdown
	Remaining uint32

	// Bid / Ask / CancelBid / CancelAsk
	PlayerId ids.PlayerId
	Value    Price // Bid/Ask value
	Price    Price // CancelBid/CancelAsk target price
}

func CountdownAction(remaining uint32) Action { return Action{Kind: ActionCountdown, Remaining: remaining} }
func StartAction() Action                     { return Action{Kind: ActionStart} }
func TickAction() Action                      { return Action{Kind: ActionTick} }
func EndAction() Action                       { return Action{Kind: ActionEnd} }

func BidAction(pid ids.PlayerId, value Price) Action {
	return Action{Kind: ActionBid, PlayerId: pid, Value: value}
}

func AskAction(pid ids.PlayerId, value Price) Action {
	return Action{Kind: ActionAsk, PlayerId: pid, Value: value}
}

func CancelBidAction(pid ids.PlayerId, price Price) Action {
	return Action{Kind: ActionCancelBid, PlayerId: pid, Price: price}
}

func CancelAskAction(pid ids.PlayerId, price Price) Action {
	return Action{Kind: ActionCancelAsk, PlayerId: pid, Price: price}
}

func (k ActionKind) String() string {
	switch k {
	case ActionCountdown:
		return "Countdown"
	case ActionStart:
		return "Start"
	case ActionTick:
		return "PriceTick"
	case ActionBid:
		return "Bid"
	case ActionAsk:
		return "Ask"
	case ActionCancelBid:
		return "CancelBid"
	case ActionCancelAsk:
		return "CancelAsk"
	case ActionEnd:
		return "End"
	default:
		return "Unknown"
	}
}
