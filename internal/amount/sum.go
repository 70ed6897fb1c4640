package amount

import "math/big"

// Sum adds amounts left to right starting from zero. Nil entries count as
// zero and the inputs are never modified.
func Sum(amounts []*big.Int) *big.Int {
	total := new(big.Int)
	for _, a := range amounts {
		if a == nil {
			continue
		}
		total.Add(total, a)
	}
	return total
}
