package amount_test

import (
	"math"
	"testing"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloatsEmpty(t *testing.T) {
	assert.Empty(t, amount.ParseFloats(""))
	assert.Empty(t, amount.ParseFloats("  \n "))
}

func TestParseFloatsValues(t *testing.T) {
	assert.Equal(t, []float64{1.5, 2, 3.5, 4, 5.5}, amount.ParseFloats("1.5,2\n3.5\n4,5.5"))
	assert.Equal(t, []float64{10, -5, 3}, amount.ParseFloats("10,-5,3"))
}

func TestParseFloatsZeroFillsInvalid(t *testing.T) {
	// Invalid entries are kept as 0, unlike ParseScaled which drops them.
	assert.Equal(t, []float64{1, 0, 3}, amount.ParseFloats("1,abc,3"))
	assert.Equal(t, []float64{0, 0, 0}, amount.ParseFloats("abc,def,xyz"))
	assert.Equal(t, []float64{0}, amount.ParseFloats("NaN"))
}

func TestParseFloatsScientific(t *testing.T) {
	assert.Equal(t, []float64{100, 20}, amount.ParseFloats("1e2,2e1"))
}

func TestParseFloatsNumberCompatible(t *testing.T) {
	got := amount.ParseFloats("Infinity,0x10,1e400,-1e400,0b101,0o17,-Infinity")
	require.Len(t, got, 7)
	assert.True(t, math.IsInf(got[0], 1))
	assert.Equal(t, 16.0, got[1])
	assert.True(t, math.IsInf(got[2], 1))
	assert.True(t, math.IsInf(got[3], -1))
	assert.Equal(t, 5.0, got[4])
	assert.Equal(t, 15.0, got[5])
	assert.True(t, math.IsInf(got[6], -1))
}

func TestParseFloatsRejectsGoOnlySyntax(t *testing.T) {
	// inf, hex floats, underscores and signed hex are not numbers.
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, amount.ParseFloats("inf,0x1p4,1_000,-0x10,infinity,0xZZ"))
}

func TestParseFloatsIndentedLines(t *testing.T) {
	in := `125.50
		87.25
		200.00
		45.75`
	assert.Equal(t, []float64{125.5, 87.25, 200, 45.75}, amount.ParseFloats(in))
}

func TestSumFloats(t *testing.T) {
	assert.InDelta(t, 52.5, amount.SumFloats(amount.ParseFloats("12.50, 8.75, 25.00, 6.25")), 1e-9)
	assert.Equal(t, 0.0, amount.SumFloats(nil))
}
