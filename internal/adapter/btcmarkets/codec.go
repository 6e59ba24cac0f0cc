package btcmarkets

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// BTC Markets uses two numeral conventions. Market-data endpoints carry plain
// decimals; account and trading endpoints carry integers equal to the value
// multiplied by 1e8, capped at two meaningful decimal places.

// scaleFactor is the wire scaling for account/trading amounts (1e8).
const scaleFactor = 8

// wireScale is the maximum number of decimal places the exchange accepts.
const wireScale = 2

// codecProfile selects how an operation's amounts are converted between
// decimals and wire numerals. The profile for each operation comes from the
// method catalog, never from per-call branching.
type codecProfile uint8

const (
	// plainCodec parses and formats decimals directly, no scaling.
	plainCodec codecProfile = iota + 1
	// scaledCodec converts between decimals and ×1e8 integers.
	scaledCodec
)

// Decode converts a wire numeral into a decimal.
//
// The scaled profile divides by 1e8 and then truncates (rounds toward zero)
// to 2 decimal places. Truncating on both decode and encode, rather than the
// half-up rounding used for fee fractions, matches the upstream wire contract
// and must not be "corrected": downstream behaviour depends on 0.125 decoding
// to 0.12, not 0.13.
func (p codecProfile) Decode(n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed wire numeral %q: %w", n.String(), err)
	}
	switch p {
	case plainCodec:
		return d, nil
	case scaledCodec:
		return d.Shift(-scaleFactor).Truncate(wireScale), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown codec profile %d", p)
	}
}

// Encode converts a decimal into a wire numeral.
//
// The scaled profile multiplies by 1e8 and truncates to an integer.
func (p codecProfile) Encode(d decimal.Decimal) json.Number {
	switch p {
	case scaledCodec:
		return json.Number(d.Shift(scaleFactor).Truncate(0).String())
	default:
		return json.Number(d.String())
	}
}
