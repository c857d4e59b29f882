package game

import "github.com/ndrandal/tradinggame/internal/ids"

// EventKind tags the externally visible GameEvent vocabulary. Wire
// encoding (internal/notification) maps each kind to the snake_case
// "type" tag named in the notification contract.
type EventKind int

const (
	EventCountdown EventKind = iota
	EventGameStarted
	EventPriceChanged
	EventBidPlaced
	EventAskPlaced
	EventBidFilled
	EventAskFilled
	EventBidCanceled
	EventAskCanceled
	EventGameEnded
)

// FinalBalance pairs a player with their net worth at game end.
type FinalBalance struct {
	PlayerId ids.PlayerId
	Balance  Money
}

// Event is a single externally visible occurrence emitted by the
// reducer. Only the fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	Remaining uint32 // Countdown

	// GameStarted
	StartingPrice      Price
	StartingBalance    Money
	Players            []ids.PlayerId
	GameDurationSeconds uint32

	// PriceChanged — PlayerId is the ticker owner.
	// BidPlaced / AskPlaced / BidCanceled / AskCanceled / BidFilled /
	// AskFilled — PlayerId is the order owner (never the notification
	// recipient; a fill notification's recipient is carried by the
	// enclosing Effect, not by the event payload).
	PlayerId ids.PlayerId
	Price    Price // PriceChanged
	Value    Price // placed/canceled/filled orders: the order's original bid/ask value
	FillPrice Price // filled orders: the perceived price the fill executed at

	// GameEnded
	FinalBalances []FinalBalance
}
