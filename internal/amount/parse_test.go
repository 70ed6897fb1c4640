package amount_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wei(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test literal " + s)
	}
	return n
}

// ---------------------------------------------------------------------------
// SplitList
// ---------------------------------------------------------------------------

func TestSplitListEmpty(t *testing.T) {
	assert.Empty(t, amount.SplitList(""))
	assert.Empty(t, amount.SplitList("   "))
	assert.Empty(t, amount.SplitList("\n\n"))
	assert.Empty(t, amount.SplitList("\t"))
	assert.Empty(t, amount.SplitList(",,,\n,"))
}

func TestSplitListMixedSeparators(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, amount.SplitList("1,,,2\n\n\n3"))
	assert.Equal(t, []string{"1", "2", "3"}, amount.SplitList(",1,2,3"))
	assert.Equal(t, []string{"1", "2", "3"}, amount.SplitList("1\n2\n3\n"))
	assert.Equal(t, []string{"1", "3"}, amount.SplitList("1,\n,3"))
}

func TestSplitListTrimsEntries(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, amount.SplitList(" 1 , 2 ,\t3 "))
}

func TestSplitListWindowsLineEndings(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, amount.SplitList("1\r\n2\r\n"))
}

// ---------------------------------------------------------------------------
// ParseUnits
// ---------------------------------------------------------------------------

func TestParseUnitsWhole(t *testing.T) {
	v, err := amount.ParseUnits("10", 18)
	require.NoError(t, err)
	assert.Equal(t, wei("10000000000000000000"), v)
}

func TestParseUnitsFraction(t *testing.T) {
	v, err := amount.ParseUnits("3.14", 18)
	require.NoError(t, err)
	assert.Equal(t, wei("3140000000000000000"), v)
}

func TestParseUnitsSixDecimals(t *testing.T) {
	v, err := amount.ParseUnits("1.234567", 6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_234_567), v)
}

func TestParseUnitsZeroDecimals(t *testing.T) {
	v, err := amount.ParseUnits("42", 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), v)
}

func TestParseUnitsLeadingAndTrailingDot(t *testing.T) {
	v, err := amount.ParseUnits(".5", 18)
	require.NoError(t, err)
	assert.Equal(t, wei("500000000000000000"), v)

	v, err = amount.ParseUnits("5.", 18)
	require.NoError(t, err)
	assert.Equal(t, wei("5000000000000000000"), v)
}

func TestParseUnitsTrailingZerosBeyondScale(t *testing.T) {
	// 1.50 at one decimal is exactly 15.
	v, err := amount.ParseUnits("1.50", 1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(15), v)
}

func TestParseUnitsSmallestUnit(t *testing.T) {
	v, err := amount.ParseUnits("0.000000000000000001", 18)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), v)
}

func TestParseUnitsLargeValueIsExact(t *testing.T) {
	// Far beyond float64's 53-bit mantissa.
	v, err := amount.ParseUnits("123456789012345678901234567890.123456789012345678", 18)
	require.NoError(t, err)
	assert.Equal(t, wei("123456789012345678901234567890123456789012345678"), v)
}

func TestParseUnitsNegative(t *testing.T) {
	v, err := amount.ParseUnits("-5", 18)
	require.NoError(t, err)
	assert.Equal(t, wei("-5000000000000000000"), v)
}

func TestParseUnitsTooPrecise(t *testing.T) {
	_, err := amount.ParseUnits("1.0000001", 6)
	assert.True(t, errors.Is(err, amount.ErrTooPrecise))
}

func TestParseUnitsRejectsMalformed(t *testing.T) {
	for _, s := range []string{"abc", "1e2", "0x10", "1.2.3", "1 2", "", ".", "-", "1,000", "NaN", "Infinity"} {
		_, err := amount.ParseUnits(s, 18)
		assert.True(t, errors.Is(err, amount.ErrInvalidAmount), "input %q", s)
	}
}

// ---------------------------------------------------------------------------
// ParseScaled / ParseEther
// ---------------------------------------------------------------------------

func TestParseScaledEmptyInputs(t *testing.T) {
	assert.Empty(t, amount.ParseScaled("", 18))
	assert.Empty(t, amount.ParseScaled("   ", 18))
	assert.Empty(t, amount.ParseScaled("\n\n", 18))
	assert.Empty(t, amount.ParseScaled("\t", 18))
}

func TestParseScaledSingle(t *testing.T) {
	assert.Equal(t, []*big.Int{wei("10000000000000000000")}, amount.ParseScaled("10", 18))
	assert.Equal(t, []*big.Int{wei("3140000000000000000")}, amount.ParseScaled("3.14", 18))
	assert.Equal(t, []*big.Int{big.NewInt(0)}, amount.ParseScaled("0", 18))
}

func TestParseScaledCommaSeparated(t *testing.T) {
	want := []*big.Int{
		wei("1500000000000000000"),
		wei("2500000000000000000"),
		wei("3000000000000000000"),
	}
	assert.Equal(t, want, amount.ParseScaled("1.5,2.5,3.0", 18))
}

func TestParseScaledSeparatorRobustness(t *testing.T) {
	want := amount.ParseScaled("1,2,3", 18)
	require.Len(t, want, 3)
	for _, in := range []string{",1,2,3", "1,2,3,", "1\n2\n3\n", "\n1\n2\n3", "1,,,2\n\n\n3", "1 , 2 , 3", "1,2\n3"} {
		assert.Equal(t, want, amount.ParseScaled(in, 18), "input %q", in)
	}
}

func TestParseScaledDropsInvalid(t *testing.T) {
	got := amount.ParseScaled("1,abc,3", 18)
	assert.Equal(t, []*big.Int{wei("1000000000000000000"), wei("3000000000000000000")}, got)
}

func TestParseScaledOnlyInvalid(t *testing.T) {
	assert.Empty(t, amount.ParseScaled("abc,def,xyz", 18))
}

func TestParseScaledUsesDecimals(t *testing.T) {
	assert.Equal(t, []*big.Int{big.NewInt(1_500_000), big.NewInt(25)}, amount.ParseScaled("1.5\n0.000025", 6))
}

func TestParseScaledDropsTooPrecise(t *testing.T) {
	assert.Equal(t, []*big.Int{big.NewInt(1_000_000)}, amount.ParseScaled("1,0.0000001", 6))
}

func TestParseEtherDefaultsTo18(t *testing.T) {
	assert.Equal(t, amount.ParseScaled("1,2", 18), amount.ParseEther("1,2"))
}

func TestParseScaledSumsToTotal(t *testing.T) {
	total := amount.Sum(amount.ParseScaled("1,2,3", 18))
	assert.Equal(t, wei("6000000000000000000"), total)
}

// ---------------------------------------------------------------------------
// Scan
// ---------------------------------------------------------------------------

func TestScanReportsRejected(t *testing.T) {
	amounts, rejected := amount.Scan("1, abc ,2.5,1e3", 18)
	assert.Len(t, amounts, 2)
	require.Len(t, rejected, 2)

	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, "abc", rejected[0].Text)
	assert.ErrorIs(t, rejected[0].Err, amount.ErrInvalidAmount)

	assert.Equal(t, 3, rejected[1].Index)
	assert.Contains(t, rejected[1].Error(), "entry 4")
}

func TestScanNoRejects(t *testing.T) {
	amounts, rejected := amount.Scan("1\n2", 18)
	assert.Len(t, amounts, 2)
	assert.Empty(t, rejected)
}
