package amount

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the scale used when a token does not say otherwise.
const EtherDecimals uint8 = 18

var (
	// ErrInvalidAmount is returned for text that is not a plain decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise is returned when a value has more significant fractional
	// digits than the token's decimals can hold.
	ErrTooPrecise = errors.New("amount has more fractional digits than token decimals")
)

// plainDecimal accepts "12", "12.5", "12." and ".5" with an optional sign.
// Exponents, hex and grouping characters are rejected up front because
// decimal.NewFromString would otherwise accept some of them.
var plainDecimal = regexp.MustCompile(`^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)$`)

// Rejected describes one list entry that could not be converted.
type Rejected struct {
	Index int    // position among the non-empty entries
	Text  string // the trimmed entry
	Err   error
}

func (r Rejected) Error() string {
	return fmt.Sprintf("entry %d (%q): %v", r.Index+1, r.Text, r.Err)
}

func (r Rejected) Unwrap() error { return r.Err }

// ParseUnits converts one decimal string into an integer scaled by
// 10^decimals. The conversion is exact: "3.14" at 18 decimals is
// 3140000000000000000, never a float approximation.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	if !plainDecimal.MatchString(s) {
		return nil, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, ErrTooPrecise
	}
	return scaled.BigInt(), nil
}

// Scan parses an amount list and reports every entry it had to skip.
// The returned amounts keep input order with the rejected entries removed.
func Scan(text string, decimals uint8) ([]*big.Int, []Rejected) {
	entries := SplitList(text)
	amounts := make([]*big.Int, 0, len(entries))
	var rejected []Rejected
	for i, e := range entries {
		v, err := ParseUnits(e, decimals)
		if err != nil {
			rejected = append(rejected, Rejected{Index: i, Text: e, Err: err})
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts, rejected
}

// ParseScaled converts a comma/newline separated list of decimal amounts into
// scaled integers. Entries that fail to convert are dropped; it never fails.
func ParseScaled(text string, decimals uint8) []*big.Int {
	amounts, _ := Scan(text, decimals)
	return amounts
}

// ParseEther is ParseScaled at 18 decimals.
func ParseEther(text string) []*big.Int {
	return ParseScaled(text, EtherDecimals)
}
