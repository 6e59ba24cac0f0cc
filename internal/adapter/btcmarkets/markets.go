package btcmarkets

import (
	"strings"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// Market describes one tradeable currency pair on BTC Markets.
type Market struct {
	ID         string // opaque external id, e.g. "btc_aud"
	Base       string // base currency code, e.g. "BTC"
	Counter    string // counter currency code, e.g. "AUD"
	Instrument string // exchange-facing display form, e.g. "BTC/AUD"
}

// marketIDs is the closed set of markets this adapter supports. The catalog
// is built once at package init and never mutated.
var marketIDs = []string{
	"btc_aud",
	"ltc_aud",
	"eth_aud",
	"etc_aud",
	"xrp_aud",
	"bch_aud",
	"ltc_btc",
	"eth_btc",
	"etc_btc",
	"xrp_btc",
	"bch_btc",
}

var marketCatalog = buildCatalog(marketIDs)

// buildCatalog derives each catalog entry from its id: base currency is the
// segment before "_", counter the segment after, instrument "BASE/COUNTER".
func buildCatalog(ids []string) map[string]Market {
	catalog := make(map[string]Market, len(ids))
	for _, id := range ids {
		base, counter, _ := strings.Cut(id, "_")
		base = strings.ToUpper(base)
		counter = strings.ToUpper(counter)
		catalog[id] = Market{
			ID:         id,
			Base:       base,
			Counter:    counter,
			Instrument: base + "/" + counter,
		}
	}
	return catalog
}

// LookupMarket resolves a market id against the catalog. Any id outside the
// closed set yields a ConfigError.
func LookupMarket(marketID string) (Market, error) {
	m, ok := marketCatalog[marketID]
	if !ok {
		return Market{}, adapter.NewConfigError("market id not found: "+marketID, nil)
	}
	return m, nil
}

// Markets returns every catalog entry, in declaration order.
func Markets() []Market {
	out := make([]Market, 0, len(marketIDs))
	for _, id := range marketIDs {
		out = append(out, marketCatalog[id])
	}
	return out
}
