package amount

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ParseFloats is the display-only list parser. Each entry is read the way a
// browser's Number() reads it, and unlike ParseScaled unparseable entries are
// kept as 0, so the result length always equals the number of non-empty
// entries. It must not be used to build transactions.
func ParseFloats(text string) []float64 {
	entries := SplitList(text)
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		out = append(out, plainNumber(e))
	}
	return out
}

// plainNumber accepts decimal and exponent notation, unsigned 0x/0o/0b
// integers and signed "Infinity". Overflow gives ±Inf; anything else is 0.
func plainNumber(s string) float64 {
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok || strings.ContainsAny(s[2:], "+-_") {
				return 0
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ParseFloat also takes inf, nan, hex floats and underscores, none of
	// which are numbers here.
	lower := strings.ToLower(s)
	if strings.ContainsAny(s, "_xXpP") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return f
}

// SumFloats adds the values returned by ParseFloats.
func SumFloats(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
