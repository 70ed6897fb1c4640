package amount_test

import (
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/stretchr/testify/assert"
)

func TestFormatWholeEighteen(t *testing.T) {
	assert.Equal(t, "1", amount.Format(wei("1000000000000000000"), amount.KnownDecimals(18)))
}

func TestFormatSixDecimals(t *testing.T) {
	assert.Equal(t, "1234", amount.Format(big.NewInt(1_234_000_000), amount.KnownDecimals(6)))
	assert.Equal(t, "1.234567", amount.Format(big.NewInt(1_234_567), amount.KnownDecimals(6)))
	assert.Equal(t, "123.456789", amount.Format(big.NewInt(123_456_789), amount.KnownDecimals(6)))
}

func TestFormatSmallValues(t *testing.T) {
	assert.Equal(t, "0.0000000000000001", amount.Format(big.NewInt(100), amount.KnownDecimals(18)))
	assert.Equal(t, "0.000123", amount.Format(big.NewInt(123), amount.KnownDecimals(6)))
}

func TestFormatZero(t *testing.T) {
	assert.Equal(t, "0", amount.Format(big.NewInt(0), amount.KnownDecimals(18)))
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "1234", amount.Format(wei("1234000000000000000000"), amount.KnownDecimals(18)))
}

func TestFormatZeroDecimals(t *testing.T) {
	assert.Equal(t, "42", amount.Format(big.NewInt(42), amount.KnownDecimals(0)))
}

func TestFormatNegative(t *testing.T) {
	assert.Equal(t, "-0.5", amount.FormatUnits(big.NewInt(-5), 1))
}

func TestFormatUnknownDecimals(t *testing.T) {
	assert.Equal(t, "0", amount.Format(wei("1000000000000000000"), amount.Decimals{}))
}

func TestFormatNilValue(t *testing.T) {
	assert.Equal(t, "0", amount.Format(nil, amount.KnownDecimals(18)))
	assert.Equal(t, "0", amount.FormatUnits(nil, 18))
}

func TestFormatDoesNotMutateInput(t *testing.T) {
	v := big.NewInt(1_500_000)
	amount.FormatUnits(v, 6)
	assert.Equal(t, big.NewInt(1_500_000), v)
}

func TestFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"3.14", "0.0000000000000001", "1234", "0.5", "98765.4321"} {
		parsed := amount.ParseScaled(s, 18)
		if assert.Len(t, parsed, 1, s) {
			assert.Equal(t, s, amount.Format(parsed[0], amount.KnownDecimals(18)))
		}
	}
}

func TestDecimalsOr(t *testing.T) {
	assert.Equal(t, uint8(18), amount.Decimals{}.Or(18))
	assert.Equal(t, uint8(6), amount.KnownDecimals(6).Or(18))

	n, ok := amount.KnownDecimals(0).Get()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), n)
}
