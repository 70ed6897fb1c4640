package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ethereum", cfg.DefaultNetwork)
	assert.Equal(t, "mainnet", cfg.NetworkMode)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.False(t, cfg.UnsafeMode)
	assert.Equal(t, 180*time.Second, cfg.ConfirmWait())
	assert.Equal(t, dir, cfg.Dir())
	assert.NotNil(t, cfg.CustomRPCs)
	assert.NotNil(t, cfg.Deployments)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.DefaultNetwork = "base"
	cfg.DefaultWallet = "mywallet"
	cfg.RPCAlgorithm = "round-robin"
	cfg.UnsafeMode = true
	cfg.SetDeployment("8453", config.Deployment{Safe: "0x1111111111111111111111111111111111111111"})

	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "base", reloaded.DefaultNetwork)
	assert.Equal(t, "mywallet", reloaded.DefaultWallet)
	assert.Equal(t, "round-robin", reloaded.RPCAlgorithm)
	assert.True(t, reloaded.UnsafeMode)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", reloaded.Deployments["8453"].Safe)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	cfg.NetworkMode = "mainnet"
	require.NoError(t, cfg.Save())

	t.Setenv("TSEND_NETWORK_MODE", "testnet")
	t.Setenv("TSEND_UNSAFE_MODE", "true")

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "testnet", reloaded.NetworkMode)
	assert.True(t, reloaded.UnsafeMode)
}

func TestSaveDoesNotPersistEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TSEND_UNSAFE_MODE", "true")
	t.Setenv("TSEND_RPC_ALGORITHM", "failover")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.True(t, cfg.UnsafeMode)
	require.NoError(t, cfg.AddRPC("anvil", "http://127.0.0.1:8545"))
	cfg.DefaultWallet = "alice"
	require.NoError(t, cfg.Save())

	os.Unsetenv("TSEND_UNSAFE_MODE")
	os.Unsetenv("TSEND_RPC_ALGORITHM")

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.False(t, reloaded.UnsafeMode)
	assert.Equal(t, "fastest", reloaded.RPCAlgorithm)
	assert.Equal(t, "alice", reloaded.DefaultWallet)
	assert.Equal(t, []string{"http://127.0.0.1:8545"}, reloaded.GetRPCs("anvil"))
}

func TestSaveWritesChangedOverriddenField(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TSEND_NETWORK_MODE", "testnet")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	cfg.NetworkMode = "mainnet"
	cfg.RPCAlgorithm = "round-robin"
	require.NoError(t, cfg.Save())

	os.Unsetenv("TSEND_NETWORK_MODE")
	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", reloaded.NetworkMode)
	assert.Equal(t, "round-robin", reloaded.RPCAlgorithm)
}

func TestOverrideNetworkModeIsNotSaved(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.OverrideNetworkMode("testnet")
	assert.Equal(t, "testnet", cfg.NetworkMode)
	cfg.SetDeployment("84532", config.Deployment{Safe: "0x1111111111111111111111111111111111111111"})
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", reloaded.NetworkMode)
	assert.Contains(t, reloaded.Deployments, "84532")
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"network_mode":"devnet"}`), 0o600))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "network_mode")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{not json`), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestAddCustomRPC(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://custom.base.rpc"))
	assert.Contains(t, cfg.GetRPCs("base"), "https://custom.base.rpc")
}

func TestAddDuplicateRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	cfg.AddRPC("base", "https://custom.base.rpc") //nolint:errcheck
	err := cfg.AddRPC("base", "https://custom.base.rpc")
	assert.Error(t, err)
}

func TestRemoveCustomRPC(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	cfg.AddRPC("base", "https://rpc1.base") //nolint:errcheck
	cfg.AddRPC("base", "https://rpc2.base") //nolint:errcheck

	require.NoError(t, cfg.RemoveRPC("base", "https://rpc1.base"))

	rpcs := cfg.GetRPCs("base")
	assert.NotContains(t, rpcs, "https://rpc1.base")
	assert.Contains(t, rpcs, "https://rpc2.base")
}

func TestRemoveNonExistentRPCErrors(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())
	assert.Error(t, cfg.RemoveRPC("base", "https://nope"))
}

func TestSetDeploymentMerges(t *testing.T) {
	cfg, _ := config.Load(t.TempDir())

	cfg.SetDeployment("324", config.Deployment{Safe: "0xaa"})
	cfg.SetDeployment("324", config.Deployment{Unsafe: "0xbb"})

	d := cfg.Deployments["324"]
	assert.Equal(t, "0xaa", d.Safe)
	assert.Equal(t, "0xbb", d.Unsafe)

	require.NoError(t, cfg.RemoveDeployment("324"))
	assert.Error(t, cfg.RemoveDeployment("324"))
}

func TestAirdropGasLimit(t *testing.T) {
	assert.Equal(t, uint64(50_000), config.AirdropGasLimit(0))
	assert.Equal(t, uint64(80_000), config.AirdropGasLimit(1))
	assert.Equal(t, uint64(3_050_000), config.AirdropGasLimit(100))
}
