package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/spf13/cobra"
)

// keyEnv lets scripts pass a private key without putting it in argv.
const keyEnv = "TSEND_PRIVATE_KEY"

var (
	walletKeyFlag string
	walletYes     bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a signing wallet (--key) or a watch-only address",
	Long: `Add a wallet.

With --key (or ` + keyEnv + `) the private key goes to the OS keychain and
the wallet can send. With only an address the wallet is watch-only and can
be used for tsend send --dry-run and tsend token.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		key := walletKeyFlag
		if key == "" {
			key = os.Getenv(keyEnv)
		}

		if key != "" {
			mgr, err := newWalletManager(true)
			if err != nil {
				return err
			}
			if err := mgr.AddWithKey(name, key); err != nil {
				return err
			}
			w, err := mgr.Get(name)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
		} else {
			if len(args) < 2 {
				return fmt.Errorf("address required for a watch-only wallet\n  Usage: tsend wallet add <name> <address>\n  Or for signing: tsend wallet add <name> --key <private-key>")
			}
			mgr, err := newWalletManager(false)
			if err != nil {
				return err
			}
			if err := mgr.AddWatchOnly(name, args[1]); err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(args[1]))))
		}
		if cfg.DefaultWallet == "" {
			cfg.DefaultWallet = name
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println(ui.Meta("Set as the default wallet."))
		} else {
			fmt.Println(ui.Hint("Set as default with: tsend wallet use " + name))
		}
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager(false)
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: tsend wallet add deployer --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 7},
		})
		for _, w := range wallets {
			def := ""
			if w.Name == cfg.DefaultWallet {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, w.Type, def})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet (interactive without a name)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager(false)
		if err != nil {
			return err
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			wallets, err := mgr.List()
			if err != nil {
				return err
			}
			items := make([]ui.PickerItem, len(wallets))
			for i, w := range wallets {
				items[i] = ui.PickerItem{
					Label:    w.Name,
					SubLabel: ui.TruncateAddr(w.Address) + "  " + w.Type,
					Value:    w.Name,
					Current:  w.Name == cfg.DefaultWallet,
				}
			}
			if name, err = ui.PickItem("Default wallet", items); err != nil {
				return err
			}
			if name == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		if _, err := mgr.Get(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr, err := newWalletManager(false)
		if err != nil {
			return err
		}
		w, err := mgr.Get(name)
		if err != nil {
			return err
		}
		if !walletYes && !ui.StdPrompter().ConfirmDanger(fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if w.CanSign() {
			if mgr, err = newWalletManager(true); err != nil {
				return err
			}
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet (stored in the OS keychain)")
	walletRemoveCmd.Flags().BoolVarP(&walletYes, "yes", "y", false, "skip the confirmation prompt")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletUseCmd, walletRemoveCmd)
}
