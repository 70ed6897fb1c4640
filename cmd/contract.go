package cmd

import (
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/tsend/internal/airdrop"
	"github.com/Mohsinsiddi/tsend/internal/chain"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	contractSafe   string
	contractUnsafe string
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage TSender deployment addresses",
	Long: `TSender addresses are looked up by chain ID. A built-in table covers the
local anvil chain; register other deployments here.

Each chain can have a safe deployment (checks the lists on chain) and an
unsafe one (skips the checks, cheaper). tsend send uses the safe one unless
--unsafe is given or unsafe_mode is set.`,
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known TSender deployments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newDeployments()
		if err != nil {
			return err
		}
		reg := chain.NewRegistry()

		t := ui.NewTable([]ui.Column{
			{Title: "Chain ID", Width: 9, AlignRight: true},
			{Title: "Network", Width: 20},
			{Title: "Safe", Width: 42},
			{Title: "Unsafe", Width: 42},
			{Title: "Source", Width: 8},
		})
		for _, id := range deps.ChainIDs() {
			dep, _ := deps.Lookup(id)
			network := "—"
			if c, err := reg.GetByChainID(id); err == nil {
				network = c.NetworkName(modeForID(c, id))
			}
			source := "config"
			if chain.IsBuiltin(id) {
				source = "builtin"
				if _, ok := cfg.Deployments[strconv.FormatInt(id, 10)]; ok {
					source = "both"
				}
			}
			t.AddRow(ui.Row{fmt.Sprint(id), network, addrOrDash(dep.Safe), addrOrDash(dep.Unsafe), source})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var contractSetCmd = &cobra.Command{
	Use:   "set <chain|chain-id>",
	Short: "Register TSender addresses for a chain",
	Long: `Register the safe and/or unsafe TSender address for a chain. A chain name
is resolved to its chain ID in the current network mode.

Examples:
  tsend contract set base --safe 0x…
  tsend contract set 84532 --safe 0x… --unsafe 0x…`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if contractSafe == "" && contractUnsafe == "" {
			return fmt.Errorf("pass --safe and/or --unsafe")
		}
		id, err := chainIDArg(args[0])
		if err != nil {
			return err
		}
		var d config.Deployment
		for _, f := range []struct {
			in  string
			out *string
		}{{contractSafe, &d.Safe}, {contractUnsafe, &d.Unsafe}} {
			if f.in == "" {
				continue
			}
			addr, err := airdrop.ParseAddress(f.in)
			if err != nil {
				return err
			}
			*f.out = addr.Hex()
		}

		key := strconv.FormatInt(id, 10)
		cfg.SetDeployment(key, d)
		if err := cfg.Save(); err != nil {
			return err
		}
		stored := cfg.Deployments[key]
		fmt.Println(ui.Success(fmt.Sprintf("TSender for chain %d: safe %s, unsafe %s",
			id, orDash(stored.Safe), orDash(stored.Unsafe))))
		return nil
	},
}

var contractUnsetCmd = &cobra.Command{
	Use:   "unset <chain|chain-id>",
	Short: "Forget registered TSender addresses for a chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := chainIDArg(args[0])
		if err != nil {
			return err
		}
		if err := cfg.RemoveDeployment(strconv.FormatInt(id, 10)); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed TSender addresses for chain %d.", id)))
		if chain.IsBuiltin(id) {
			fmt.Println(ui.Meta("The built-in deployment still applies."))
		}
		return nil
	},
}

func init() {
	contractSetCmd.Flags().StringVar(&contractSafe, "safe", "", "checked TSender address")
	contractSetCmd.Flags().StringVar(&contractUnsafe, "unsafe", "", "unchecked TSender address")
	contractCmd.AddCommand(contractListCmd, contractSetCmd, contractUnsetCmd)
}

// modeForID tells which side of a chain id belongs to.
func modeForID(c *chain.Chain, id int64) string {
	if id == c.TestnetChainID && id != c.ChainID {
		return "testnet"
	}
	return "mainnet"
}

func addrOrDash(a common.Address) string {
	if a == (common.Address{}) {
		return "—"
	}
	return a.Hex()
}

// variantsLabel names the deployments present in dep.
func variantsLabel(dep chain.Deployment) string {
	var zero common.Address
	switch {
	case dep.Safe != zero && dep.Unsafe != zero:
		return "safe+unsafe"
	case dep.Safe != zero:
		return "safe"
	case dep.Unsafe != zero:
		return "unsafe"
	}
	return ""
}
