package config

import "time"

// Gas limits for the two transactions of an airdrop.
const (
	// The batch call is sized from the recipient count rather than estimated;
	// estimation fails until the approval is mined.
	GasLimitAirdropBase         = uint64(50_000)
	GasLimitAirdropPerRecipient = uint64(30_000)

	GasLimitApprove = uint64(60_000) // EstimateGas fallback for approve
)

// Timeouts.
const (
	RPCSelectTimeout = 10 * time.Second // endpoint benchmark
	TokenReadTimeout = 20 * time.Second // token metadata reads
)

// AirdropGasLimit returns the gas limit for a batch transfer to n recipients.
func AirdropGasLimit(n int) uint64 {
	return GasLimitAirdropBase + GasLimitAirdropPerRecipient*uint64(n)
}
