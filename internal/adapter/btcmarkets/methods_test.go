package btcmarkets

import (
	"net/http"
	"testing"
)

func TestApiMethods_CoversEveryOperation(t *testing.T) {
	ops := []operation{
		opCreateOrder, opCancelOrder, opOrderBook, opTick,
		opOpenOrders, opAccountBalance, opTradingFee,
	}
	for _, op := range ops {
		m, ok := apiMethods[op]
		if !ok {
			t.Fatalf("operation %d missing from catalog", op)
		}
		if m.path == "" || m.verb == "" || m.codec == 0 {
			t.Errorf("operation %d has incomplete definition: %+v", op, m)
		}
	}
}

func TestApiMethods_CodecSelection(t *testing.T) {
	// Market data endpoints are plain; account and trading are scaled.
	if apiMethods[opOrderBook].codec != plainCodec || apiMethods[opTick].codec != plainCodec {
		t.Error("market data operations must use the plain codec")
	}
	for _, op := range []operation{opCreateOrder, opCancelOrder, opOpenOrders, opAccountBalance, opTradingFee} {
		if apiMethods[op].codec != scaledCodec {
			t.Errorf("operation %d must use the scaled codec", op)
		}
	}
}

func TestPathFor(t *testing.T) {
	if got := apiMethods[opOrderBook].pathFor("BTC/AUD"); got != "/market/BTC/AUD/orderbook" {
		t.Errorf("unexpected orderbook path: %s", got)
	}
	if got := apiMethods[opTradingFee].pathFor("ETH/BTC"); got != "/account/ETH/BTC/tradingfee" {
		t.Errorf("unexpected trading fee path: %s", got)
	}
	if got := apiMethods[opAccountBalance].pathFor(""); got != "/account/balance" {
		t.Errorf("unexpected balance path: %s", got)
	}
}

func TestPathFor_UntemplatedIgnoresInstrument(t *testing.T) {
	// Bodied operations resolve the market into the request body; their
	// paths must come back verbatim even though an instrument is supplied.
	for _, op := range []operation{opCreateOrder, opCancelOrder, opOpenOrders} {
		m := apiMethods[op]
		if got := m.pathFor("BTC/AUD"); got != m.path {
			t.Errorf("operation %d: pathFor mangled the path: %s", op, got)
		}
	}
}

func TestBodyVerbsArePost(t *testing.T) {
	for _, op := range []operation{opCreateOrder, opCancelOrder, opOpenOrders} {
		m := apiMethods[op]
		if !m.hasBody || m.verb != http.MethodPost {
			t.Errorf("operation %d should POST a body, got %+v", op, m)
		}
	}
}
