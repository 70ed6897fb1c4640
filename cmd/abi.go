package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/tsend/internal/contract"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"
)

var contractABICmd = &cobra.Command{
	Use:   "abi [erc20|tsender]",
	Short: "Show the embedded contract interfaces and their selectors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := contract.AllBuiltins()
		if len(args) == 1 {
			b, ok := contract.GetBuiltin(strings.ToLower(args[0]))
			if !ok {
				return fmt.Errorf("unknown interface %q", args[0])
			}
			kinds = []contract.BuiltinKind{b}
		}
		for _, b := range kinds {
			fmt.Println(ui.StyleTitle.Render(b.Name) + "  " + ui.Meta(b.Description))
			t := ui.NewTable([]ui.Column{
				{Title: "Selector", Width: 10},
				{Title: "Function", Width: 52},
				{Title: "Kind", Width: 6},
				{Title: "Returns", Width: 16},
			})
			for _, e := range b.ABI {
				if e.Type != "function" {
					continue
				}
				kind := "write"
				if e.IsReadFunction() {
					kind = "read"
				}
				t.AddRow(ui.Row{selector(e.Signature()), e.Signature(), kind, formatOutputs(e.Outputs)})
			}
			fmt.Println(t.Render())
		}
		return nil
	},
}

func init() {
	contractCmd.AddCommand(contractABICmd)
}

// selector is the first four bytes of keccak256(signature).
func selector(sig string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

func formatOutputs(params []contract.ABIParam) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return strings.Join(types, ",")
}
