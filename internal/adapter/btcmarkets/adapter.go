// Package btcmarkets implements the BTC Markets exchange adapter: an
// authenticated HTTP request pipeline over a closed market catalog, with
// normalized domain entities and a fixed error taxonomy.
package btcmarkets

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.btcmarkets.net"

const (
	defaultOrderType        = "Limit"
	defaultOrdersLimit      = 100
	defaultOrdersSinceHours = 24
)

// Config carries everything the adapter needs at construction. The adapter
// holds only values derived from it; nothing is mutable after New returns.
type Config struct {
	BaseURL string // DefaultBaseURL when empty

	Key    string // API key
	Secret string // base64-encoded API secret

	// BuyFeePercent and SellFeePercent are static fee estimates, interpreted
	// as percentages ("0.2" means 0.2%). They feed ConfiguredBuyFee and
	// ConfiguredSellFee; the live fee comes from BuyFeePercentage.
	BuyFeePercent  decimal.Decimal
	SellFeePercent decimal.Decimal

	// OrderType is forwarded verbatim on createOrder. Default "Limit".
	OrderType string

	// OrdersLimit caps how many open orders one call returns. Default 100.
	OrdersLimit int

	// OrdersSinceHours is converted at construction into an absolute
	// epoch-millisecond cutoff for the open-orders window. Default 24.
	OrdersSinceHours int
}

// Option adjusts optional collaborators on the adapter.
type Option func(*Adapter)

// WithObserver installs a pipeline event sink.
func WithObserver(o adapter.Observer) Option {
	return func(a *Adapter) { a.observer = o }
}

// WithHealthBreaker installs a breaker that records call outcomes.
func WithHealthBreaker(hb *adapter.HealthBreaker) Option {
	return func(a *Adapter) { a.breaker = hb }
}

// Adapter is the BTC Markets implementation of the trading interface. It is
// immutable after construction, so concurrent calls against one instance are
// safe.
type Adapter struct {
	baseURL  string
	signer   *Signer
	sender   adapter.RequestSender
	observer adapter.Observer
	breaker  *adapter.HealthBreaker

	orderType   string
	ordersLimit int
	ordersSince int64 // epoch ms cutoff for the open-orders window

	buyFee  decimal.Decimal // fraction, from BuyFeePercent
	sellFee decimal.Decimal // fraction, from SellFeePercent

	nowFunc func() time.Time // injectable clock for testing
}

// New builds an immutable adapter from the given config and transport.
// Malformed credentials fail here, not on first use.
func New(cfg Config, sender adapter.RequestSender, opts ...Option) (*Adapter, error) {
	signer, err := NewSigner(cfg.Key, cfg.Secret)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		baseURL:     cfg.BaseURL,
		signer:      signer,
		sender:      sender,
		observer:    adapter.NopObserver{},
		orderType:   cfg.OrderType,
		ordersLimit: cfg.OrdersLimit,
		nowFunc:     time.Now,
	}
	if a.baseURL == "" {
		a.baseURL = DefaultBaseURL
	}
	if a.orderType == "" {
		a.orderType = defaultOrderType
	}
	if a.ordersLimit <= 0 {
		a.ordersLimit = defaultOrdersLimit
	}

	sinceHours := cfg.OrdersSinceHours
	if sinceHours <= 0 {
		sinceHours = defaultOrdersSinceHours
	}
	a.ordersSince = a.nowFunc().Add(-time.Duration(sinceHours) * time.Hour).UnixMilli()

	hundred := decimal.NewFromInt(100)
	a.buyFee = cfg.BuyFeePercent.DivRound(hundred, 8)
	a.sellFee = cfg.SellFeePercent.DivRound(hundred, 8)

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ImplName identifies this adapter in logs and UIs.
func (a *Adapter) ImplName() string {
	return "BTC Markets Developer API"
}

// ConfiguredBuyFee returns the static buy fee estimate as a fraction.
func (a *Adapter) ConfiguredBuyFee() decimal.Decimal { return a.buyFee }

// ConfiguredSellFee returns the static sell fee estimate as a fraction.
func (a *Adapter) ConfiguredSellFee() decimal.Decimal { return a.sellFee }

// GetMarketOrders returns the current order book for a market. Sell orders
// are price-ascending, buy orders price-descending.
func (a *Adapter) GetMarketOrders(marketID string) (adapter.MarketOrderBook, error) {
	const op = "getMarketOrders"
	m, err := LookupMarket(marketID)
	if err != nil {
		return adapter.MarketOrderBook{}, a.classify(op, marketID, err)
	}
	payload, err := a.call(op, opOrderBook, m, marketID, nil, nil)
	if err != nil {
		return adapter.MarketOrderBook{}, err
	}
	book, err := mapOrderBook(payload, marketID)
	if err != nil {
		return adapter.MarketOrderBook{}, a.classify(op, marketID, err)
	}
	return book, nil
}

// GetTicker returns the latest market summary. High, low, open and vwap are
// not supplied by this venue and come back unset.
func (a *Adapter) GetTicker(marketID string) (adapter.Ticker, error) {
	const op = "getTicker"
	m, err := LookupMarket(marketID)
	if err != nil {
		return adapter.Ticker{}, a.classify(op, marketID, err)
	}
	payload, err := a.call(op, opTick, m, marketID, nil, nil)
	if err != nil {
		return adapter.Ticker{}, err
	}
	t, err := mapTick(payload)
	if err != nil {
		return adapter.Ticker{}, a.classify(op, marketID, err)
	}
	return t, nil
}

// GetLatestMarketPrice returns the tick's last traded price.
func (a *Adapter) GetLatestMarketPrice(marketID string) (decimal.Decimal, error) {
	t, err := a.GetTicker(marketID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return t.Last, nil
}

// GetOpenOrders returns open orders for a market, bounded by the configured
// limit and since window.
func (a *Adapter) GetOpenOrders(marketID string) ([]adapter.OpenOrder, error) {
	const op = "getOpenOrders"
	m, err := LookupMarket(marketID)
	if err != nil {
		return nil, a.classify(op, marketID, err)
	}
	body, err := buildOpenOrdersBody(m, a.ordersLimit, a.ordersSince)
	if err != nil {
		return nil, a.classify(op, marketID, err)
	}
	payload, err := a.call(op, opOpenOrders, m, marketID, body, nil)
	if err != nil {
		return nil, err
	}
	orders, err := mapOpenOrders(payload, marketID)
	if err != nil {
		return nil, a.classify(op, marketID, err)
	}
	return orders, nil
}

// CreateOrder places an order and returns its id. An exchange-reported
// failure raises a TradingError; contrast CancelOrder.
func (a *Adapter) CreateOrder(marketID string, side adapter.Side, quantity, price decimal.Decimal) (string, error) {
	const op = "createOrder"
	m, err := LookupMarket(marketID)
	if err != nil {
		return "", a.classify(op, marketID, err)
	}
	body, err := buildCreateOrderBody(m, side, price, quantity, a.orderType, "")
	if err != nil {
		return "", a.classify(op, marketID, err)
	}
	payload, err := a.call(op, opCreateOrder, m, marketID, body, nil)
	if err != nil {
		return "", err
	}
	id, err := mapCreateOrder(payload)
	if err != nil {
		return "", a.classify(op, marketID, err)
	}
	return id, nil
}

// CancelOrder cancels an order. An exchange-reported failure returns false
// with a nil error rather than raising; this asymmetry with CreateOrder is a
// documented contract, not a bug.
func (a *Adapter) CancelOrder(orderID, marketID string) (bool, error) {
	const op = "cancelOrder"
	m, err := LookupMarket(marketID)
	if err != nil {
		return false, a.classify(op, marketID, err)
	}
	body, err := buildCancelOrderBody(orderID)
	if err != nil {
		return false, a.classify(op, marketID, err)
	}
	payload, err := a.call(op, opCancelOrder, m, marketID, body, nil)
	if err != nil {
		return false, err
	}
	ok, err := mapCancelOrder(payload)
	if err != nil {
		return false, a.classify(op, marketID, err)
	}
	return ok, nil
}

// GetBalanceInfo returns per-currency available and on-hold balances, keyed
// by uppercase currency code.
func (a *Adapter) GetBalanceInfo() (adapter.BalanceInfo, error) {
	const op = "getBalanceInfo"
	payload, err := a.call(op, opAccountBalance, Market{}, "", nil, nil)
	if err != nil {
		return adapter.BalanceInfo{}, err
	}
	info, err := mapBalance(payload)
	if err != nil {
		return adapter.BalanceInfo{}, a.classify(op, "", err)
	}
	return info, nil
}

// BuyFeePercentage returns the live trading fee as a fraction, fetched from
// the exchange and rounded half-up to 8 decimal places.
func (a *Adapter) BuyFeePercentage(marketID string) (decimal.Decimal, error) {
	const op = "buyFeePercentage"
	m, err := LookupMarket(marketID)
	if err != nil {
		return decimal.Decimal{}, a.classify(op, marketID, err)
	}
	payload, err := a.call(op, opTradingFee, m, marketID, nil, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	fee, err := mapTradingFee(payload)
	if err != nil {
		return decimal.Decimal{}, a.classify(op, marketID, err)
	}
	return fee, nil
}

// SellFeePercentage delegates to BuyFeePercentage; the venue charges one
// rate for both sides.
func (a *Adapter) SellFeePercentage(marketID string) (decimal.Decimal, error) {
	return a.BuyFeePercentage(marketID)
}

// call runs the shared pipeline: fill the path, serialize the query once,
// sign, send, record the outcome, return the raw payload. The same encoded
// query string is used in both the canonical string and the request URL, so
// the two can never disagree.
func (a *Adapter) call(op string, tag operation, m Market, marketID string, body []byte, query url.Values) ([]byte, error) {
	method := apiMethods[tag]
	path := method.pathFor(m.Instrument)

	encodedQuery := ""
	if len(query) > 0 {
		encodedQuery = query.Encode()
	}

	ts := a.nowFunc().UnixMilli()
	headers, err := a.signer.Headers(path, encodedQuery, ts, string(body))
	if err != nil {
		return nil, a.classify(op, marketID, err)
	}

	reqURL := a.baseURL + path
	if encodedQuery != "" {
		reqURL += "?" + encodedQuery
	}

	a.observer.Observe(adapter.Event{
		Kind:     adapter.EventRequestBuilt,
		Exchange: adapter.ExchangeBTCMarkets,
		Op:       op,
		MarketID: marketID,
		Verb:     method.verb,
		Path:     path,
		At:       a.nowFunc(),
	})

	resp, err := a.sender.Send(reqURL, method.verb, body, headers)
	if err != nil {
		a.recordOutcome(false)
		return nil, a.classify(op, marketID, err)
	}
	a.recordOutcome(true)

	a.observer.Observe(adapter.Event{
		Kind:       adapter.EventResponseReceived,
		Exchange:   adapter.ExchangeBTCMarkets,
		Op:         op,
		MarketID:   marketID,
		Verb:       method.verb,
		Path:       path,
		StatusCode: resp.StatusCode,
		At:         a.nowFunc(),
	})
	return resp.Payload, nil
}

func (a *Adapter) recordOutcome(ok bool) {
	if a.breaker == nil {
		return
	}
	if ok {
		a.breaker.RecordSuccess()
	} else {
		a.breaker.RecordFailure()
	}
}

// classify is the single error boundary. NetworkErrors and explicitly raised
// domain errors pass through unchanged; anything else is wrapped exactly once
// into a TradingError carrying the cause. Every classified error is reported
// to the observer.
func (a *Adapter) classify(op, marketID string, err error) error {
	out := err
	switch err.(type) {
	case *adapter.NetworkError, *adapter.TradingError, *adapter.ConfigError:
	default:
		out = adapter.NewTradingError(op, "unexpected error", err)
	}
	a.observer.Observe(adapter.Event{
		Kind:     adapter.EventErrorClassified,
		Exchange: adapter.ExchangeBTCMarkets,
		Op:       op,
		MarketID: marketID,
		Err:      out,
		At:       a.nowFunc(),
	})
	return out
}
