package cmd

import (
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/spf13/cobra"
)

var (
	amountsDecimals uint8
	amountsPlain    bool
)

var amountsCmd = &cobra.Command{
	Use:   "amounts",
	Short: "Convert and total amount lists offline",
	Long: `Work with comma or newline separated amount lists without a network.

  tsend amounts parse "1.5, 2" --decimals 6    # base units per entry
  tsend amounts total @amounts.txt             # exact total
  tsend amounts format 1500000 --decimals 6    # base units to 1.5`,
}

var amountsParseCmd = &cobra.Command{
	Use:   "parse <list|@file>",
	Short: "Scale each amount to base units",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readListArg(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		return printParsed(cmd.OutOrStdout(), text, amountsDecimals)
	},
}

var amountsTotalCmd = &cobra.Command{
	Use:   "total <list|@file>",
	Short: "Sum an amount list",
	Long: `Sum an amount list exactly at --decimals.

With --plain the list is read as floating-point numbers, unparseable entries
count as zero, and the sum is approximate. Use it only for a quick look.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readListArg(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if amountsPlain {
			return printPlainTotal(cmd.OutOrStdout(), text)
		}
		return printTotal(cmd.OutOrStdout(), text, amountsDecimals)
	},
}

var amountsFormatCmd = &cobra.Command{
	Use:   "format <base-units>",
	Short: "Render an integer amount in token units",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printFormatted(cmd.OutOrStdout(), args[0], amountsDecimals)
	},
}

func init() {
	for _, c := range []*cobra.Command{amountsParseCmd, amountsTotalCmd, amountsFormatCmd} {
		c.Flags().Uint8VarP(&amountsDecimals, "decimals", "d", amount.EtherDecimals, "token decimals")
	}
	amountsTotalCmd.Flags().BoolVar(&amountsPlain, "plain", false, "approximate float sum, invalid entries count as 0")
	amountsCmd.AddCommand(amountsParseCmd, amountsTotalCmd, amountsFormatCmd)
}

func printParsed(out io.Writer, text string, decimals uint8) error {
	values, rejected := amount.Scan(text, decimals)
	for _, v := range values {
		fmt.Fprintln(out, v.String())
	}
	for _, r := range rejected {
		fmt.Fprintln(out, ui.Warn("skipped "+r.Error()))
	}
	if len(rejected) > 0 {
		return fmt.Errorf("%d of %d entries rejected", len(rejected), len(values)+len(rejected))
	}
	return nil
}

func printTotal(out io.Writer, text string, decimals uint8) error {
	values, rejected := amount.Scan(text, decimals)
	for _, r := range rejected {
		fmt.Fprintln(out, ui.Warn("skipped "+r.Error()))
	}
	total := amount.Sum(values)
	fmt.Fprintf(out, "%s\n%s\n", amount.FormatUnits(total, decimals), ui.Meta(total.String()+" base units, "+strconv.Itoa(len(values))+" entries"))
	if len(rejected) > 0 {
		return fmt.Errorf("%d entries rejected", len(rejected))
	}
	return nil
}

func printPlainTotal(out io.Writer, text string) error {
	values := amount.ParseFloats(text)
	fmt.Fprintln(out, strconv.FormatFloat(amount.SumFloats(values), 'f', -1, 64))
	return nil
}

func printFormatted(out io.Writer, raw string, decimals uint8) error {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return fmt.Errorf("%q is not an integer", raw)
	}
	fmt.Fprintln(out, amount.FormatUnits(v, decimals))
	return nil
}
