package btcmarkets

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// Wire-level request and response shapes for the BTC Markets v1 API, and the
// mapping between them and the domain entities. Amount fields are json.Number
// so the codec, not encoding/json, decides how numerals are interpreted.

const (
	sideTokenBuy  = "Bid"
	sideTokenSell = "Ask"
)

func sideToken(side adapter.Side) (string, error) {
	switch side {
	case adapter.SideBuy:
		return sideTokenBuy, nil
	case adapter.SideSell:
		return sideTokenSell, nil
	default:
		return "", adapter.NewTradingError("createOrder", fmt.Sprintf("unsupported order side %d", side), nil)
	}
}

// parseSideToken maps the exchange's side token onto a Side. Any token outside
// the two known values is fatal, not retried.
func parseSideToken(op, token string) (adapter.Side, error) {
	switch token {
	case sideTokenBuy:
		return adapter.SideBuy, nil
	case sideTokenSell:
		return adapter.SideSell, nil
	default:
		return 0, adapter.NewTradingError(op, "unrecognized order side token "+strconv.Quote(token), nil)
	}
}

// --- requests ---

type createOrderRequest struct {
	Currency        string      `json:"currency"`
	Instrument      string      `json:"instrument"`
	Price           json.Number `json:"price"`
	Volume          json.Number `json:"volume"`
	OrderSide       string      `json:"orderSide"`
	OrderType       string      `json:"ordertype"`
	ClientRequestID string      `json:"clientRequestId,omitempty"`
}

type cancelOrderRequest struct {
	OrderIDs []string `json:"orderIds"`
}

type openOrdersRequest struct {
	Currency   string `json:"currency"`
	Instrument string `json:"instrument"`
	Limit      int    `json:"limit"`
	Since      int64  `json:"since"`
}

func buildCreateOrderBody(m Market, side adapter.Side, price, quantity decimal.Decimal, orderType, clientRequestID string) ([]byte, error) {
	token, err := sideToken(side)
	if err != nil {
		return nil, err
	}
	codec := apiMethods[opCreateOrder].codec
	return json.Marshal(createOrderRequest{
		Currency:        m.Counter,
		Instrument:      m.Base,
		Price:           codec.Encode(price),
		Volume:          codec.Encode(quantity),
		OrderSide:       token,
		OrderType:       orderType,
		ClientRequestID: clientRequestID,
	})
}

func buildCancelOrderBody(orderID string) ([]byte, error) {
	return json.Marshal(cancelOrderRequest{OrderIDs: []string{orderID}})
}

func buildOpenOrdersBody(m Market, limit int, since int64) ([]byte, error) {
	return json.Marshal(openOrdersRequest{
		Currency:   m.Counter,
		Instrument: m.Base,
		Limit:      limit,
		Since:      since,
	})
}

// --- responses ---

type orderBookResponse struct {
	Currency   string          `json:"currency"`
	Instrument string          `json:"instrument"`
	Timestamp  int64           `json:"timestamp"`
	Bids       [][]json.Number `json:"bids"`
	Asks       [][]json.Number `json:"asks"`
}

type tickResponse struct {
	BestBid   json.Number `json:"bestBid"`
	BestAsk   json.Number `json:"bestAsk"`
	LastPrice json.Number `json:"lastPrice"`
	Volume24h json.Number `json:"volume24h"`
	Timestamp int64       `json:"timestamp"`
}

type openOrderEntry struct {
	ID           json.Number `json:"id"`
	OrderSide    string      `json:"orderSide"`
	CreationTime int64       `json:"creationTime"`
	Price        json.Number `json:"price"`
	Volume       json.Number `json:"volume"`
	OpenVolume   json.Number `json:"openVolume"`
}

type openOrdersResponse struct {
	Success      bool             `json:"success"`
	ErrorCode    string           `json:"errorCode"`
	ErrorMessage string           `json:"errorMessage"`
	Orders       []openOrderEntry `json:"orders"`
}

type balanceEntry struct {
	Currency     string      `json:"currency"`
	Balance      json.Number `json:"balance"`
	PendingFunds json.Number `json:"pendingFunds"`
}

type createOrderResponse struct {
	Success      bool        `json:"success"`
	ErrorCode    string      `json:"errorCode"`
	ErrorMessage string      `json:"errorMessage"`
	ID           json.Number `json:"id"`
}

type cancelOrderResponse struct {
	Success      bool   `json:"success"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	Responses    []struct {
		Success      bool        `json:"success"`
		ErrorCode    string      `json:"errorCode"`
		ErrorMessage string      `json:"errorMessage"`
		ID           json.Number `json:"id"`
	} `json:"responses"`
}

type tradingFeeResponse struct {
	Success        bool        `json:"success"`
	ErrorCode      string      `json:"errorCode"`
	ErrorMessage   string      `json:"errorMessage"`
	TradingFeeRate json.Number `json:"tradingFeeRate"`
	Volume30Day    json.Number `json:"volume30Day"`
}

// --- mappers ---

// mapOrderBook converts [price, quantity] pairs into order-book entries with
// computed totals. Sell orders arrive price-descending from the exchange and
// are sorted ascending here unconditionally.
func mapOrderBook(payload []byte, marketID string) (adapter.MarketOrderBook, error) {
	var resp orderBookResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return adapter.MarketOrderBook{}, fmt.Errorf("decoding orderbook response: %w", err)
	}
	codec := apiMethods[opOrderBook].codec

	buys, err := mapBookEntries(codec, adapter.SideBuy, resp.Bids)
	if err != nil {
		return adapter.MarketOrderBook{}, fmt.Errorf("mapping bids: %w", err)
	}
	sells, err := mapBookEntries(codec, adapter.SideSell, resp.Asks)
	if err != nil {
		return adapter.MarketOrderBook{}, fmt.Errorf("mapping asks: %w", err)
	}
	sort.Slice(sells, func(i, j int) bool {
		return sells[i].Price.LessThan(sells[j].Price)
	})

	return adapter.MarketOrderBook{
		MarketID:   marketID,
		BuyOrders:  buys,
		SellOrders: sells,
	}, nil
}

func mapBookEntries(codec codecProfile, side adapter.Side, pairs [][]json.Number) ([]adapter.MarketOrder, error) {
	out := make([]adapter.MarketOrder, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			return nil, fmt.Errorf("order tuple has %d elements, want 2", len(pair))
		}
		price, err := codec.Decode(pair[0])
		if err != nil {
			return nil, err
		}
		quantity, err := codec.Decode(pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, adapter.MarketOrder{
			Side:     side,
			Price:    price,
			Quantity: quantity,
			Total:    price.Mul(quantity),
		})
	}
	return out, nil
}

// mapTick fills the supported ticker fields; high/low/open/vwap are not
// provided by this endpoint and stay unset.
func mapTick(payload []byte) (adapter.Ticker, error) {
	var resp tickResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return adapter.Ticker{}, fmt.Errorf("decoding tick response: %w", err)
	}
	codec := apiMethods[opTick].codec

	var t adapter.Ticker
	var err error
	if t.Bid, err = codec.Decode(resp.BestBid); err != nil {
		return adapter.Ticker{}, fmt.Errorf("tick bestBid: %w", err)
	}
	if t.Ask, err = codec.Decode(resp.BestAsk); err != nil {
		return adapter.Ticker{}, fmt.Errorf("tick bestAsk: %w", err)
	}
	if t.Last, err = codec.Decode(resp.LastPrice); err != nil {
		return adapter.Ticker{}, fmt.Errorf("tick lastPrice: %w", err)
	}
	if t.Volume, err = codec.Decode(resp.Volume24h); err != nil {
		return adapter.Ticker{}, fmt.Errorf("tick volume24h: %w", err)
	}
	t.Timestamp = resp.Timestamp
	return t, nil
}

func mapOpenOrders(payload []byte, marketID string) ([]adapter.OpenOrder, error) {
	var resp openOrdersResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decoding open orders response: %w", err)
	}
	if !resp.Success {
		return nil, adapter.NewTradingError("getOpenOrders", exchangeFailure(resp.ErrorCode, resp.ErrorMessage), nil)
	}
	codec := apiMethods[opOpenOrders].codec

	out := make([]adapter.OpenOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		side, err := parseSideToken("getOpenOrders", o.OrderSide)
		if err != nil {
			return nil, err
		}
		price, err := codec.Decode(o.Price)
		if err != nil {
			return nil, fmt.Errorf("order %s price: %w", o.ID.String(), err)
		}
		quantity, err := codec.Decode(o.Volume)
		if err != nil {
			return nil, fmt.Errorf("order %s volume: %w", o.ID.String(), err)
		}
		remaining, err := codec.Decode(o.OpenVolume)
		if err != nil {
			return nil, fmt.Errorf("order %s openVolume: %w", o.ID.String(), err)
		}
		out = append(out, adapter.OpenOrder{
			ID:        o.ID.String(),
			CreatedAt: time.UnixMilli(o.CreationTime),
			MarketID:  marketID,
			Side:      side,
			Price:     price,
			Quantity:  quantity,
			Remaining: remaining,
			Total:     price.Mul(quantity),
		})
	}
	return out, nil
}

// mapBalance keys both maps by uppercased currency code; the exchange sends
// lowercase.
func mapBalance(payload []byte) (adapter.BalanceInfo, error) {
	var entries []balanceEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return adapter.BalanceInfo{}, fmt.Errorf("decoding balance response: %w", err)
	}
	// A null body decodes cleanly into a nil slice; surface it as a failure
	// rather than an empty balance sheet.
	if entries == nil {
		return adapter.BalanceInfo{}, adapter.NewTradingError("getBalanceInfo", "missing balance list in response", nil)
	}
	codec := apiMethods[opAccountBalance].codec

	info := adapter.BalanceInfo{
		Available: make(map[string]decimal.Decimal, len(entries)),
		OnHold:    make(map[string]decimal.Decimal, len(entries)),
	}
	for _, e := range entries {
		available, err := codec.Decode(e.Balance)
		if err != nil {
			return adapter.BalanceInfo{}, fmt.Errorf("%s balance: %w", e.Currency, err)
		}
		onHold, err := codec.Decode(e.PendingFunds)
		if err != nil {
			return adapter.BalanceInfo{}, fmt.Errorf("%s pendingFunds: %w", e.Currency, err)
		}
		ccy := strings.ToUpper(e.Currency)
		info.Available[ccy] = available
		info.OnHold[ccy] = onHold
	}
	return info, nil
}

// mapCreateOrder returns the new order id, or a TradingError when the
// exchange reports failure.
func mapCreateOrder(payload []byte) (string, error) {
	var resp createOrderResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("decoding create order response: %w", err)
	}
	if !resp.Success {
		return "", adapter.NewTradingError("createOrder", exchangeFailure(resp.ErrorCode, resp.ErrorMessage), nil)
	}
	return resp.ID.String(), nil
}

// mapCancelOrder reports application-level failure as false, never as an
// error. This deliberately differs from mapCreateOrder, which raises; both
// behaviours are part of the public contract.
func mapCancelOrder(payload []byte) (bool, error) {
	var resp cancelOrderResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return false, fmt.Errorf("decoding cancel order response: %w", err)
	}
	return resp.Success, nil
}

// mapTradingFee decodes the scaled fee rate and converts the percentage into
// a fraction, rounding half-up to 8 decimal places.
func mapTradingFee(payload []byte) (decimal.Decimal, error) {
	var resp tradingFeeResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decoding trading fee response: %w", err)
	}
	if !resp.Success {
		return decimal.Decimal{}, adapter.NewTradingError("tradingFee", exchangeFailure(resp.ErrorCode, resp.ErrorMessage), nil)
	}
	rate, err := apiMethods[opTradingFee].codec.Decode(resp.TradingFeeRate)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("tradingFeeRate: %w", err)
	}
	return rate.DivRound(decimal.NewFromInt(100), 8), nil
}

func exchangeFailure(code, msg string) string {
	if msg == "" {
		return "exchange reported failure (code " + code + ")"
	}
	return "exchange reported failure: " + msg + " (code " + code + ")"
}
