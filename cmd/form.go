package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/spf13/cobra"
)

var formDecimals uint8

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Edit the saved airdrop form",
	Long: `Open an editor for the token address, recipients and amounts.

Every change is saved as you type, so closing the editor never loses input.
The summary line totals the amounts at --decimals (token decimals are read
on chain by tsend send).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, submitted, err := ui.RunForm(cfg.FormStore(), formDecimals)
		if err != nil {
			return err
		}
		if !submitted {
			fmt.Println(ui.Meta("Form saved."))
			return nil
		}
		n := len(amount.SplitList(form.Recipients))
		fmt.Println(ui.Success(fmt.Sprintf("Form saved with %d recipient(s).", n)))
		fmt.Println(ui.Hint("Review and send with: tsend send --dry-run"))
		return nil
	},
}

var formShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := config.LoadForm(cfg.FormStore())
		if err != nil {
			return err
		}
		show := func(s string) string {
			if s == "" {
				return ui.Meta("(empty)")
			}
			return s
		}
		fmt.Println(ui.KeyValueBlock("Saved form", [][2]string{
			{"Token", show(form.TokenAddress)},
			{"Recipients", fmt.Sprint(len(amount.SplitList(form.Recipients)))},
			{"Amounts", fmt.Sprint(len(amount.SplitList(form.Amounts)))},
		}))
		if form.Recipients != "" {
			fmt.Println(ui.Meta("recipients:") + "\n" + form.Recipients)
		}
		if form.Amounts != "" {
			fmt.Println(ui.Meta("amounts:") + "\n" + form.Amounts)
		}
		return nil
	},
}

var formClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the saved form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearForm(cfg.FormStore()); err != nil {
			return err
		}
		fmt.Println(ui.Success("Form cleared."))
		return nil
	},
}

func init() {
	formCmd.Flags().Uint8Var(&formDecimals, "decimals", amount.EtherDecimals, "decimals used for the summary total")
	formCmd.AddCommand(formShowCmd, formClearCmd)
}
