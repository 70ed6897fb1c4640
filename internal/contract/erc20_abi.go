package contract

// The ERC-20 subset an airdrop touches.
//
// Function selectors:
//
//	name()              → 0x06fdde03
//	symbol()            → 0x95d89b41
//	decimals()          → 0x313ce567
//	balanceOf(address)  → 0x70a08231
//	allowance(a,a)      → 0xdd62ed3e
//	approve(a,u256)     → 0x095ea7b3
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "erc20",
		Name:        "ERC-20 Token",
		Description: "Token metadata, balance and allowance reads plus approve.",
		ABI:         erc20ABI,
	})
}

var erc20ABI = []ABIEntry{
	// ── Read ─────────────────────────────────────────────────────────────────
	{
		Name: "name", Type: "function",
		Outputs:         []ABIParam{{Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "symbol", Type: "function",
		Outputs:         []ABIParam{{Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Outputs:         []ABIParam{{Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "allowance", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}, {Name: "spender", Type: "address"}},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	// ── Write ────────────────────────────────────────────────────────────────
	{
		Name: "approve", Type: "function",
		Inputs:          []ABIParam{{Name: "spender", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "nonpayable",
	},
	// ── Events ───────────────────────────────────────────────────────────────
	{
		Name: "Approval", Type: "event",
		Inputs: []ABIParam{
			{Name: "owner", Type: "address", Indexed: true},
			{Name: "spender", Type: "address", Indexed: true},
			{Name: "value", Type: "uint256"},
		},
	},
}
