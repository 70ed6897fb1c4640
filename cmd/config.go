package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/tsend/internal/rpc"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Show and change ~/.tsend/config.json.

Every field can also be overridden per run with a TSEND_ environment
variable, e.g. TSEND_NETWORK_MODE=testnet or TSEND_UNSAFE_MODE=true.`,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the current configuration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current configuration"))
		fmt.Println(string(data))
		for _, name := range sortedKeys(cfg.CustomRPCs) {
			fmt.Println(ui.Meta(fmt.Sprintf("%s: %d custom RPC(s) tried before the built-in ones", name, len(cfg.CustomRPCs[name]))))
		}
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetNetworkModeCmd = &cobra.Command{
	Use:       "set-network-mode <mainnet|testnet>",
	Short:     "Persist the network mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"mainnet", "testnet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := strings.ToLower(args[0])
		if mode != "mainnet" && mode != "testnet" {
			return fmt.Errorf("invalid network mode %q (want mainnet or testnet)", args[0])
		}
		cfg.NetworkMode = mode
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Network mode set to " + mode))
		return nil
	},
}

var configSetRPCAlgorithmCmd = &cobra.Command{
	Use:   "set-rpc-algorithm <fastest|round-robin|failover>",
	Short: "Choose how an RPC endpoint is picked",
	Long: `Choose how an RPC endpoint is picked among the healthy candidates:

  fastest      lowest ping latency
  round-robin  next endpoint on each run (position kept in rpc_cursor.json)
  failover     first healthy endpoint in configured order`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(rpc.AlgorithmFastest), string(rpc.AlgorithmRoundRobin), string(rpc.AlgorithmFailover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, err := rpc.ParseAlgorithm(args[0])
		if err != nil {
			return err
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("RPC algorithm set to " + string(algo)))
		return nil
	},
}

var configSetUnsafeCmd = &cobra.Command{
	Use:   "set-unsafe <true|false>",
	Short: "Default to the unchecked TSender deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("invalid value %q (want true or false)", args[0])
		}
		cfg.UnsafeMode = on
		if err := cfg.Save(); err != nil {
			return err
		}
		if on {
			fmt.Println(ui.Warn("Unsafe mode on: list lengths and totals are no longer checked on chain."))
		} else {
			fmt.Println(ui.Success("Unsafe mode off."))
		}
		return nil
	},
}

var configSetConfirmTimeoutCmd = &cobra.Command{
	Use:   "set-confirm-timeout <seconds>",
	Short: "How long to wait for each transaction to be mined",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs, err := strconv.Atoi(args[0])
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid timeout %q (want a positive number of seconds)", args[0])
		}
		cfg.ConfirmTimeout = secs
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Confirmation timeout set to %ds", secs)))
		return nil
	},
}

var configAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <chain> <url>",
	Short: "Add a custom RPC endpoint for a chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveChain(args[0])
		if err != nil {
			return err
		}
		if err := cfg.AddRPC(c.Name, args[1]); err != nil {
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added RPC for %s: %s", c.Name, args[1])))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <chain> <url>",
	Short: "Remove a custom RPC endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRPC(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed RPC for %s: %s", args[0], args[1])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configShowCmd,
		configSetNetworkModeCmd,
		configSetRPCAlgorithmCmd,
		configSetUnsafeCmd,
		configSetConfirmTimeoutCmd,
		configAddRPCCmd,
		configRemoveRPCCmd,
	)
}
