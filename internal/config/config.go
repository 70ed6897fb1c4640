package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultNetwork        = "ethereum"
	defaultMode           = "mainnet"
	defaultAlgorithm      = "fastest"
	defaultConfirmTimeout = 180

	configFile  = "config.json"
	walletsFile = "wallets.json"
	formFile    = "form.json"
	cursorFile  = "rpc_cursor.json"

	envPrefix = "TSEND"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.tsend.
// Values from config.json are overridden by TSEND_* environment variables,
// e.g. TSEND_NETWORK_MODE=testnet.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".tsend")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := decode(path, true)
	if err != nil {
		return nil, err
	}
	stored, err := decode(path, false)
	if err != nil {
		return nil, err
	}
	cfg.stored = stored.settings()
	cfg.overlay = cfg.settings()

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if cfg.Deployments == nil {
		cfg.Deployments = make(map[string]Deployment)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if c.NetworkMode != "mainnet" && c.NetworkMode != "testnet" {
		return fmt.Errorf("invalid network_mode %q (use mainnet or testnet)", c.NetworkMode)
	}
	switch c.RPCAlgorithm {
	case "fastest", "round-robin", "failover":
	default:
		return fmt.Errorf("invalid rpc_algorithm %q (use fastest, round-robin or failover)", c.RPCAlgorithm)
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("invalid confirm_timeout %d", c.ConfirmTimeout)
	}
	return nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	// Values still equal to their TSEND_* or flag override are written back
	// as they were in the file.
	out := *c
	out.applySettings(c.stored.keepUnchanged(c.overlay, c.settings()))
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// OverrideNetworkMode switches the mode for this run only; Save keeps the
// stored mode unless it is changed again afterwards.
func (c *Config) OverrideNetworkMode(mode string) {
	c.NetworkMode = mode
	c.overlay.NetworkMode = mode
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// SetDeployment records the TSender addresses for a chain ID. Empty fields
// keep whatever was stored before.
func (c *Config) SetDeployment(chain string, d Deployment) {
	if c.Deployments == nil {
		c.Deployments = make(map[string]Deployment)
	}
	cur := c.Deployments[chain]
	if d.Safe != "" {
		cur.Safe = d.Safe
	}
	if d.Unsafe != "" {
		cur.Unsafe = d.Unsafe
	}
	c.Deployments[chain] = cur
}

// RemoveDeployment forgets the stored TSender addresses for a chain ID.
func (c *Config) RemoveDeployment(chain string) error {
	if _, ok := c.Deployments[chain]; !ok {
		return fmt.Errorf("no contract addresses stored for chain ID %s", chain)
	}
	delete(c.Deployments, chain)
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is the wallet store file.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// FormStore returns the key-value store holding the last-entered form values.
func (c *Config) FormStore() *FileKV {
	return NewFileKV(filepath.Join(c.configDir, formFile))
}

// RPCCursorStore holds the round-robin position per chain and mode.
func (c *Config) RPCCursorStore() *FileKV {
	return NewFileKV(filepath.Join(c.configDir, cursorFile))
}

// --- helpers ---

// decode reads path (if present) over the defaults. withEnv layers the
// TSEND_* environment on top.
func decode(path string, withEnv bool) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func defaultValues() map[string]any {
	return map[string]any{
		"default_network": defaultNetwork,
		"default_wallet":  "",
		"network_mode":    defaultMode,
		"rpc_algorithm":   defaultAlgorithm,
		"unsafe_mode":     false,
		"confirm_timeout": defaultConfirmTimeout,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
