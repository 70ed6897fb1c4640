package config

import "time"

// Config holds all tsend configuration.
type Config struct {
	DefaultNetwork string `json:"default_network" mapstructure:"default_network"`
	DefaultWallet  string `json:"default_wallet"  mapstructure:"default_wallet"`
	// "mainnet" | "testnet"
	NetworkMode string `json:"network_mode" mapstructure:"network_mode"`
	// "fastest" | "round-robin" | "failover"
	RPCAlgorithm string `json:"rpc_algorithm" mapstructure:"rpc_algorithm"`
	// Use the unchecked TSender deployment by default.
	UnsafeMode bool `json:"unsafe_mode" mapstructure:"unsafe_mode"`
	// Seconds to wait for each receipt.
	ConfirmTimeout int                 `json:"confirm_timeout" mapstructure:"confirm_timeout"`
	CustomRPCs     map[string][]string `json:"custom_rpcs"     mapstructure:"custom_rpcs"`
	// TSender addresses keyed by decimal chain ID.
	Deployments map[string]Deployment `json:"deployments" mapstructure:"deployments"`

	// internal: config dir path used for Save()
	configDir string
	// file values and the values after env/flag overrides, as loaded
	stored  settings
	overlay settings
}

// settings are the scalar fields an environment variable or flag can override.
type settings struct {
	DefaultNetwork string
	DefaultWallet  string
	NetworkMode    string
	RPCAlgorithm   string
	UnsafeMode     bool
	ConfirmTimeout int
}

func (c *Config) settings() settings {
	return settings{
		DefaultNetwork: c.DefaultNetwork,
		DefaultWallet:  c.DefaultWallet,
		NetworkMode:    c.NetworkMode,
		RPCAlgorithm:   c.RPCAlgorithm,
		UnsafeMode:     c.UnsafeMode,
		ConfirmTimeout: c.ConfirmTimeout,
	}
}

func (c *Config) applySettings(s settings) {
	c.DefaultNetwork = s.DefaultNetwork
	c.DefaultWallet = s.DefaultWallet
	c.NetworkMode = s.NetworkMode
	c.RPCAlgorithm = s.RPCAlgorithm
	c.UnsafeMode = s.UnsafeMode
	c.ConfirmTimeout = s.ConfirmTimeout
}

// keepUnchanged returns cur, except that fields still equal to overlay take
// the stored value.
func (stored settings) keepUnchanged(overlay, cur settings) settings {
	pick := func(s, o, c string) string {
		if c == o {
			return s
		}
		return c
	}
	out := settings{
		DefaultNetwork: pick(stored.DefaultNetwork, overlay.DefaultNetwork, cur.DefaultNetwork),
		DefaultWallet:  pick(stored.DefaultWallet, overlay.DefaultWallet, cur.DefaultWallet),
		NetworkMode:    pick(stored.NetworkMode, overlay.NetworkMode, cur.NetworkMode),
		RPCAlgorithm:   pick(stored.RPCAlgorithm, overlay.RPCAlgorithm, cur.RPCAlgorithm),
		UnsafeMode:     cur.UnsafeMode,
		ConfirmTimeout: cur.ConfirmTimeout,
	}
	if cur.UnsafeMode == overlay.UnsafeMode {
		out.UnsafeMode = stored.UnsafeMode
	}
	if cur.ConfirmTimeout == overlay.ConfirmTimeout {
		out.ConfirmTimeout = stored.ConfirmTimeout
	}
	return out
}

// Deployment holds user-registered TSender addresses for one chain.
type Deployment struct {
	Safe   string `json:"safe,omitempty"   mapstructure:"safe"`
	Unsafe string `json:"unsafe,omitempty" mapstructure:"unsafe"`
}

// ConfirmWait is ConfirmTimeout as a duration.
func (c *Config) ConfirmWait() time.Duration {
	return time.Duration(c.ConfirmTimeout) * time.Second
}
