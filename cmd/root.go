package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/tsend/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir  string
	cfg     *config.Config
	logger  = zap.NewNop()
	verbose bool
	logJSON bool
	testnet bool
	mainnet bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tsend",
	Short: "Batch ERC-20 transfers through the TSender contract",
	Long: `tsend sends one ERC-20 token to many recipients in a single transaction.

  Fill in the token, recipients and amounts (flags, files or the interactive
  form), review the totals, and tsend approves the TSender contract and calls
  airdropERC20 for you.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. Persist with: tsend config set-network-mode <mode>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(logging.Options{Verbose: verbose, JSON: logJSON})
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.OverrideNetworkMode("testnet")
		}
		if mainnet {
			cfg.OverrideNetworkMode("mainnet")
		}
		logger.Debug("config loaded",
			zap.String("dir", cfg.Dir()),
			zap.String("network", cfg.DefaultNetwork),
			zap.String("mode", cfg.NetworkMode))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync() //nolint:errcheck
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errLine(err))
		os.Exit(1)
	}
}

func init() {
	// TSEND_CONFIG_DIR is the default for --config.
	if envDir := os.Getenv("TSEND_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.tsend)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON lines")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		sendCmd,
		formCmd,
		tokenCmd,
		amountsCmd,
		walletCmd,
		networkCmd,
		contractCmd,
		configCmd,
	)
}
