package engine

import (
	"errors"
	"fmt"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// Sentinel errors returned by Validate.
var (
	ErrInvalidSide     = errors.New("invalid order side")
	ErrInvalidType     = errors.New("invalid order type")
	ErrUnknownMarket   = errors.New("unknown market id")
	ErrPriceMissing    = errors.New("limit order requires a positive price")
	ErrQuantityMissing = errors.New("order requires a positive quantity")
	ErrTradingHalted   = errors.New("trading disabled by health breaker")
)

// TradingGate reports whether trading is currently allowed.
// Satisfied by adapter.HealthBreaker.
type TradingGate interface {
	CanTrade() bool
}

// Validator performs pre-flight checks on orders before they are submitted
// through the exchange adapter. It fails fast: the first failing check
// returns an error and the order is rejected.
type Validator struct {
	gate    TradingGate
	markets map[string]struct{}
}

// NewValidator creates a Validator gated by the given breaker and restricted
// to the given market ids.
func NewValidator(gate TradingGate, marketIDs []string) *Validator {
	markets := make(map[string]struct{}, len(marketIDs))
	for _, id := range marketIDs {
		markets[id] = struct{}{}
	}
	return &Validator{
		gate:    gate,
		markets: markets,
	}
}

// Validate runs all pre-flight checks on the order. On success the order
// status is advanced to StatusValidated. On failure an error is returned
// and the status is set to StatusRejected.
func (v *Validator) Validate(order *Order) error {
	if err := v.validate(order); err != nil {
		order.Status = StatusRejected
		return err
	}
	order.Status = StatusValidated
	return nil
}

func (v *Validator) validate(order *Order) error {
	// 1. Basic field checks.
	if order.Side != adapter.SideBuy && order.Side != adapter.SideSell {
		return ErrInvalidSide
	}
	if order.Type != Limit && order.Type != Market {
		return ErrInvalidType
	}

	// 2. Market check.
	if _, ok := v.markets[order.MarketID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarket, order.MarketID)
	}

	// 3. Price check. Market orders take their price from the book at
	// execution time.
	if order.Type == Limit && !order.Price.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrPriceMissing, order.Price)
	}

	// 4. Quantity check.
	if !order.Quantity.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrQuantityMissing, order.Quantity)
	}

	// 5. Health breaker check.
	if !v.gate.CanTrade() {
		return ErrTradingHalted
	}

	return nil
}
