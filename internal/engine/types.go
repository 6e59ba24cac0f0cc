package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// OrderType distinguishes execution semantics.
type OrderType uint8

const (
	Limit  OrderType = iota + 1
	Market
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	default:
		return "unknown"
	}
}

// Status tracks the lifecycle of an order.
type Status uint8

const (
	StatusNew       Status = iota + 1
	StatusValidated
	StatusPending
	StatusFilled
	StatusCancelled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusValidated:
		return "validated"
	case StatusPending:
		return "pending"
	case StatusFilled:
		return "filled"
	case StatusCancelled:
		return "cancelled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Order is the engine's order representation, prior to submission through an
// exchange adapter.
type Order struct {
	OrderID   string
	Exchange  adapter.Exchange
	MarketID  string
	Side      adapter.Side
	Type      OrderType
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Status    Status
	CreatedAt time.Time
}
