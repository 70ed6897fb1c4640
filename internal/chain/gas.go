package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Fees holds the EIP-1559 parameters used for outgoing transactions.
type Fees struct {
	GasPrice *big.Int // eth_gasPrice (Wei)
	TipCap   *big.Int // max priority fee per gas
	FeeCap   *big.Int // max fee per gas
	BaseFee  *big.Int // latest block base fee, nil on legacy chains
}

// SuggestFees derives fees from eth_gasPrice: the tip equals the gas price and
// the cap is twice the gas price, which tolerates a doubling of the base fee
// before inclusion.
func (c *EVMClient) SuggestFees(ctx context.Context) (*Fees, error) {
	gp, err := c.GasPrice(ctx)
	if err != nil {
		return nil, err
	}
	fees := &Fees{
		GasPrice: gp,
		TipCap:   new(big.Int).Set(gp),
		FeeCap:   new(big.Int).Mul(gp, big.NewInt(2)),
	}

	var head *struct {
		BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
	}
	if err := c.read(ctx, &head, "eth_getBlockByNumber", "latest", false); err == nil && head != nil && head.BaseFeePerGas != nil {
		fees.BaseFee = head.BaseFeePerGas.ToInt()
	}
	return fees, nil
}

// MaxCost is the most a transaction with the given gas limit can pay.
func (f *Fees) MaxCost(gas uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gas), f.FeeCap)
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}
