package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()

	c, err := r.GetByName("Base")
	require.NoError(t, err)
	assert.Equal(t, int64(8453), c.ID("mainnet"))
	assert.Equal(t, int64(84532), c.ID("testnet"))
	assert.Equal(t, "Base Sepolia", c.NetworkName("testnet"))

	byID, err := r.GetByChainID(84532)
	require.NoError(t, err)
	assert.Equal(t, "base", byID.Name)

	_, err = r.GetByName("solana")
	assert.ErrorIs(t, err, ErrChainNotFound)
	_, err = r.GetByChainID(999999)
	assert.ErrorIs(t, err, ErrChainNotFound)
}

func TestRegistryChainsAreComplete(t *testing.T) {
	seen := map[int64]string{}
	for _, c := range NewRegistry().All() {
		assert.NotEmpty(t, c.DisplayName, c.Name)
		assert.NotEmpty(t, c.MainnetRPCs, c.Name)
		assert.NotZero(t, c.ChainID, c.Name)
		if !c.Local {
			assert.NotEmpty(t, c.TestnetRPCs, c.Name)
			assert.NotZero(t, c.TestnetChainID, c.Name)
		}
		for _, id := range []int64{c.ChainID, c.TestnetChainID} {
			if id == 0 {
				continue
			}
			prev, dup := seen[id]
			assert.False(t, dup, "chain id %d used by %s and %s", id, prev, c.Name)
			seen[id] = c.Name
		}
	}
}

func TestLocalChainIgnoresMode(t *testing.T) {
	c, err := NewRegistry().GetByName("anvil")
	require.NoError(t, err)
	assert.Equal(t, int64(31337), c.ID("testnet"))
	assert.Equal(t, c.RPCs("mainnet"), c.RPCs("testnet"))
	assert.Empty(t, c.TxURL("testnet", "0xabc"))
}

func TestTxURL(t *testing.T) {
	c, err := NewRegistry().GetByName("ethereum")
	require.NoError(t, err)
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", c.TxURL("testnet", "0xabc"))
	assert.Equal(t, "https://etherscan.io/tx/0xabc", c.TxURL("mainnet", "0xabc"))
}
