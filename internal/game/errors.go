package game

import (
	"fmt"

	"github.com/ndrandal/tradinggame/internal/ids"
)

// InvalidPhaseError reports an action invoked in a phase where it is
// not legal. The reducer does not mutate state and emits no effects
// when this is returned.
type InvalidPhaseError struct {
	Action string
	Phase  Phase
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid phase: action %q in phase %s", e.Action, e.Phase)
}

// InsufficientFundsError reports a bid that would exceed available cash.
type InsufficientFundsError struct {
	Available Money
	Required  Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %d, required %d", e.Available, e.Required)
}

// InsufficientSharesError reports an ask without an uncommitted share.
type InsufficientSharesError struct {
	Available int
	Required  int
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: available %d, required %d", e.Available, e.Required)
}

// PlayerNotFoundError reports a cancel for a player absent from the game.
type PlayerNotFoundError struct {
	PlayerId ids.PlayerId
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player not found: %s", e.PlayerId)
}

// OrderNotFoundError reports a cancel for a price with no matching
// open order.
type OrderNotFoundError struct {
	OrderType string // "bid" or "ask"
	Price     Price
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found: %s at price %d", e.OrderType, e.Price)
}
