package amount

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is a token's fractional digit count as reported by chain metadata.
// The zero value means the count is not known yet (metadata still loading,
// or the token did not answer decimals()).
type Decimals struct {
	n     uint8
	known bool
}

// KnownDecimals wraps a decimals value that has been read from the token.
func KnownDecimals(n uint8) Decimals {
	return Decimals{n: n, known: true}
}

// Get returns the count and whether it is known.
func (d Decimals) Get() (uint8, bool) {
	return d.n, d.known
}

// Or returns the count, or def when it is unknown.
func (d Decimals) Or(def uint8) uint8 {
	if !d.known {
		return def
	}
	return d.n
}

// Format renders value / 10^decimals for display. A nil value or unknown
// decimals render as "0".
func Format(value *big.Int, decimals Decimals) string {
	n, ok := decimals.Get()
	if value == nil || !ok {
		return "0"
	}
	return FormatUnits(value, n)
}

// FormatUnits renders value / 10^decimals exactly: no leading zeros, no
// trailing fractional zeros, and no fractional part at all for whole values.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}
