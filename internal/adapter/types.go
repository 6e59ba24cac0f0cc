package adapter

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange identifies the venue an adapter talks to.
type Exchange string

const (
	ExchangeBTCMarkets Exchange = "btcmarkets"
)

// Side represents the direction of an order or book entry.
type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// MarketOrder is a single order book entry. Total is always price × quantity,
// computed exactly when the entry is mapped from the wire.
type MarketOrder struct {
	Side     Side
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

// MarketOrderBook is the unified order book snapshot returned by an adapter.
// BuyOrders are sorted price-descending, SellOrders price-ascending.
type MarketOrderBook struct {
	MarketID   string
	BuyOrders  []MarketOrder
	SellOrders []MarketOrder
}

// Ticker is the latest market summary. Fields the venue does not supply are
// NullDecimals with Valid=false: "unknown", never zero.
type Ticker struct {
	Last      decimal.Decimal
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	Volume    decimal.Decimal
	High      decimal.NullDecimal
	Low       decimal.NullDecimal
	Open      decimal.NullDecimal
	Vwap      decimal.NullDecimal
	Timestamp int64 // epoch seconds
}

// OpenOrder is a previously placed order not yet fully filled or cancelled.
// Total is computed as price × quantity; the venue does not supply it.
type OpenOrder struct {
	ID        string
	CreatedAt time.Time
	MarketID  string
	Side      Side
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Remaining decimal.Decimal
	Total     decimal.Decimal
}

// BalanceInfo holds per-currency balances. Keys are uppercase currency codes
// regardless of how the venue spells them on the wire.
type BalanceInfo struct {
	Available map[string]decimal.Decimal
	OnHold    map[string]decimal.Decimal
}

// Quote is a compact best bid/ask/last snapshot for out-of-process consumers
// (see QuoteWriter).
type Quote struct {
	Exchange  Exchange
	MarketID  string
	Bid       string
	Ask       string
	Last      string
	Timestamp time.Time
}
