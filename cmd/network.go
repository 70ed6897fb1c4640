package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/tsend/internal/chain"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported chains and where TSender is known",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := newDeployments()
		if err != nil {
			return err
		}
		mode := cfg.NetworkMode

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 10},
			{Title: "Network", Width: 22},
			{Title: "Chain ID", Width: 9, AlignRight: true},
			{Title: "Currency", Width: 8},
			{Title: "TSender", Width: 13},
		})
		reg := chain.NewRegistry()
		for _, c := range reg.All() {
			id := c.ID(mode)
			tsender := ""
			if dep, ok := deps.Lookup(id); ok {
				tsender = variantsLabel(dep)
			}
			name := c.Name
			if c.Name == cfg.DefaultNetwork {
				name += " *"
			}
			t.AddRow(ui.Row{name, c.NetworkName(mode), fmt.Sprint(id), c.NativeCurrency, tsender})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d chains, %s mode, * = default", len(reg.All()), mode)))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use [chain]",
	Short: "Set the default network (interactive without a name)",
	Long: `Set the default chain and persist it to config.

Combined with --testnet or --mainnet the network mode is persisted too.

Examples:
  tsend network use base
  tsend network use base --testnet
  tsend network use anvil`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			var items []ui.PickerItem
			for _, c := range reg.All() {
				items = append(items, ui.PickerItem{
					Label:    c.Name,
					SubLabel: fmt.Sprintf("%s  %d", c.NetworkName(cfg.NetworkMode), c.ID(cfg.NetworkMode)),
					Value:    c.Name,
					Current:  c.Name == cfg.DefaultNetwork,
				})
			}
			var err error
			if name, err = ui.PickItem("Default network", items); err != nil {
				return err
			}
			if name == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		c, err := reg.GetByName(name)
		if err != nil {
			return fmt.Errorf("unknown chain %q (run `tsend network list`): %w", name, err)
		}
		cfg.DefaultNetwork = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s (%s)", ui.ChainName(c.Name), cfg.NetworkMode)))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
