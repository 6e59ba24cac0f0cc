package btcmarkets

import (
	"fmt"
	"net/http"
	"strings"
)

// operation tags each logical API operation.
type operation uint8

const (
	opCreateOrder operation = iota + 1
	opCancelOrder
	opOrderBook
	opTick
	opOpenOrders
	opAccountBalance
	opTradingFee
)

// apiMethod is one row of the method catalog: where an operation lives on
// the wire and which numeral convention its payloads use.
type apiMethod struct {
	path    string // template; %s is the market instrument
	verb    string
	hasBody bool
	codec   codecProfile
}

// apiMethods maps every operation to its wire definition. Codec selection is
// a table lookup here so wire-format knowledge is not scattered across call
// sites.
var apiMethods = map[operation]apiMethod{
	opCreateOrder:    {path: "/order/create", verb: http.MethodPost, hasBody: true, codec: scaledCodec},
	opCancelOrder:    {path: "/order/cancel", verb: http.MethodPost, hasBody: true, codec: scaledCodec},
	opOrderBook:      {path: "/market/%s/orderbook", verb: http.MethodGet, codec: plainCodec},
	opTick:           {path: "/market/%s/tick", verb: http.MethodGet, codec: plainCodec},
	opOpenOrders:     {path: "/order/open", verb: http.MethodPost, hasBody: true, codec: scaledCodec},
	opAccountBalance: {path: "/account/balance", verb: http.MethodGet, codec: scaledCodec},
	opTradingFee:     {path: "/account/%s/tradingfee", verb: http.MethodGet, codec: scaledCodec},
}

// pathFor fills the path template with the market instrument. Paths without
// a placeholder come back untouched even when an instrument is supplied;
// Sprintf on those would append an EXTRA-argument artifact to the path.
func (m apiMethod) pathFor(instrument string) string {
	if !strings.Contains(m.path, "%s") {
		return m.path
	}
	return fmt.Sprintf(m.path, instrument)
}
