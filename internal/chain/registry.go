package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds the metadata for one EVM network family: a mainnet and its
// public testnet. Local chains use the same network in both modes.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	ChainID         int64    `json:"chain_id"`
	TestnetChainID  int64    `json:"testnet_chain_id"`
	TestnetName     string   `json:"testnet_name"`
	NativeCurrency  string   `json:"native_currency"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	Local           bool     `json:"local,omitempty"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates the registry of supported EVM chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)*2),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
		if c.TestnetChainID != 0 {
			r.byID[c.TestnetChainID] = c
		}
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "base", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChainNotFound, name)
	}
	return c, nil
}

// GetByChainID finds a chain by mainnet or testnet chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrChainNotFound, id)
	}
	return c, nil
}

func testnet(mode string) bool { return mode == "testnet" }

// ID returns the chain ID for the given mode ("mainnet"/"testnet").
func (c *Chain) ID(mode string) int64 {
	if testnet(mode) && !c.Local {
		return c.TestnetChainID
	}
	return c.ChainID
}

// NetworkName returns the human name of the network selected by mode.
func (c *Chain) NetworkName(mode string) string {
	if testnet(mode) && !c.Local {
		return c.TestnetName
	}
	return c.DisplayName
}

// RPCs returns the RPC list for a chain in the given mode.
func (c *Chain) RPCs(mode string) []string {
	if testnet(mode) && !c.Local {
		return c.TestnetRPCs
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer URL for a chain in the given mode.
func (c *Chain) Explorer(mode string) string {
	if testnet(mode) && !c.Local {
		return c.TestnetExplorer
	}
	return c.MainnetExplorer
}

// TxURL links a transaction hash on the explorer, or "" when there is none.
func (c *Chain) TxURL(mode, hash string) string {
	base := c.Explorer(mode)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/tx/" + hash
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1,
			TestnetChainID: 11155111, TestnetName: "Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://rpc.sepolia.org", "https://ethereum-sepolia-rpc.publicnode.com"},
			MainnetExplorer: "https://etherscan.io",
			TestnetExplorer: "https://sepolia.etherscan.io",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453,
			TestnetChainID: 84532, TestnetName: "Base Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://mainnet.base.org", "https://base-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://sepolia.base.org"},
			MainnetExplorer: "https://basescan.org",
			TestnetExplorer: "https://sepolia.basescan.org",
		},
		{
			Name: "arbitrum", DisplayName: "Arbitrum One", ChainID: 42161,
			TestnetChainID: 421614, TestnetName: "Arbitrum Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum-one-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://sepolia-rollup.arbitrum.io/rpc"},
			MainnetExplorer: "https://arbiscan.io",
			TestnetExplorer: "https://sepolia.arbiscan.io",
		},
		{
			Name: "optimism", DisplayName: "OP Mainnet", ChainID: 10,
			TestnetChainID: 11155420, TestnetName: "OP Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://mainnet.optimism.io", "https://optimism-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://sepolia.optimism.io"},
			MainnetExplorer: "https://optimistic.etherscan.io",
			TestnetExplorer: "https://sepolia-optimism.etherscan.io",
		},
		{
			Name: "polygon", DisplayName: "Polygon PoS", ChainID: 137,
			TestnetChainID: 80002, TestnetName: "Amoy", NativeCurrency: "POL",
			MainnetRPCs:     []string{"https://polygon-bor-rpc.publicnode.com", "https://polygon-rpc.com"},
			TestnetRPCs:     []string{"https://rpc-amoy.polygon.technology"},
			MainnetExplorer: "https://polygonscan.com",
			TestnetExplorer: "https://amoy.polygonscan.com",
		},
		{
			Name: "zksync", DisplayName: "ZKsync Era", ChainID: 324,
			TestnetChainID: 300, TestnetName: "ZKsync Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://mainnet.era.zksync.io"},
			TestnetRPCs:     []string{"https://sepolia.era.zksync.dev"},
			MainnetExplorer: "https://explorer.zksync.io",
			TestnetExplorer: "https://sepolia.explorer.zksync.io",
		},
		{
			Name: "bnb", DisplayName: "BNB Smart Chain", ChainID: 56,
			TestnetChainID: 97, TestnetName: "BSC Testnet", NativeCurrency: "BNB",
			MainnetRPCs:     []string{"https://bsc-dataseed.bnbchain.org", "https://bsc-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://data-seed-prebsc-1-s1.bnbchain.org:8545"},
			MainnetExplorer: "https://bscscan.com",
			TestnetExplorer: "https://testnet.bscscan.com",
		},
		{
			Name: "avalanche", DisplayName: "Avalanche C-Chain", ChainID: 43114,
			TestnetChainID: 43113, TestnetName: "Fuji", NativeCurrency: "AVAX",
			MainnetRPCs:     []string{"https://api.avax.network/ext/bc/C/rpc"},
			TestnetRPCs:     []string{"https://api.avax-test.network/ext/bc/C/rpc"},
			MainnetExplorer: "https://snowtrace.io",
			TestnetExplorer: "https://testnet.snowtrace.io",
		},
		{
			Name: "linea", DisplayName: "Linea", ChainID: 59144,
			TestnetChainID: 59141, TestnetName: "Linea Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://rpc.linea.build"},
			TestnetRPCs:     []string{"https://rpc.sepolia.linea.build"},
			MainnetExplorer: "https://lineascan.build",
			TestnetExplorer: "https://sepolia.lineascan.build",
		},
		{
			Name: "scroll", DisplayName: "Scroll", ChainID: 534352,
			TestnetChainID: 534351, TestnetName: "Scroll Sepolia", NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://rpc.scroll.io"},
			TestnetRPCs:     []string{"https://sepolia-rpc.scroll.io"},
			MainnetExplorer: "https://scrollscan.com",
			TestnetExplorer: "https://sepolia.scrollscan.com",
		},
		{
			Name: "anvil", DisplayName: "Anvil (local)", ChainID: 31337,
			NativeCurrency: "ETH", Local: true,
			MainnetRPCs: []string{"http://127.0.0.1:8545"},
		},
	}
}
