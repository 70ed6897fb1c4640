package contract

// TSender batch distributor. Both the checked and the unchecked deployment
// expose the same entry point, airdropERC20(address,address[],uint256[],uint256).
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "tsender",
		Name:        "TSender",
		Description: "Gas-optimised ERC-20 batch transfer (transferFrom sender → recipients).",
		ABI:         tsenderABI,
	})
}

var tsenderABI = []ABIEntry{
	{
		Name: "airdropERC20", Type: "function",
		Inputs: []ABIParam{
			{Name: "tokenAddress", Type: "address"},
			{Name: "recipients", Type: "address[]"},
			{Name: "amounts", Type: "uint256[]"},
			{Name: "totalAmount", Type: "uint256"},
		},
		StateMutability: "nonpayable",
	},
	{
		Name: "areListsValid", Type: "function",
		Inputs: []ABIParam{
			{Name: "recipients", Type: "address[]"},
			{Name: "amounts", Type: "uint256[]"},
		},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "pure",
	},
}
