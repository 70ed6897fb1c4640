package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/tsend/internal/airdrop"
	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	tokenNetwork string
	tokenOwner   string
)

var tokenCmd = &cobra.Command{
	Use:   "token <address>",
	Short: "Show an ERC-20 token's metadata, balance and TSender allowance",
	Long: `Read name, symbol and decimals of a token, plus the balance and the
allowance granted to TSender by the owner.

The owner is --owner (a wallet name or an address), else the default wallet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := airdrop.ParseAddress(args[0])
		if err != nil {
			return err
		}
		c, err := resolveChain(tokenNetwork)
		if err != nil {
			return err
		}
		owner, label, err := resolveOwner(tokenOwner)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		spin := ui.NewSpinner("Reading token...")
		spin.Start()
		client, err := newClient(ctx, c)
		if err != nil {
			spin.Stop()
			return err
		}

		// The allowance column is skipped where no TSender is known.
		var spender common.Address
		if id, err := client.ChainID(ctx); err == nil {
			if deps, err := newDeployments(); err == nil {
				spender, _ = deps.Resolve(id.Int64(), cfg.UnsafeMode)
			}
		}

		readCtx, cancel := context.WithTimeout(ctx, config.TokenReadTimeout)
		defer cancel()
		info, err := client.ReadToken(readCtx, token, owner, spender)
		spin.Stop()
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Address", info.Address.Hex()},
			{"Name", orDash(info.Name)},
			{"Symbol", orDash(info.Symbol)},
			{"Decimals", fmt.Sprint(info.Decimals)},
			{"Network", c.NetworkName(cfg.NetworkMode)},
		}
		if owner != (common.Address{}) {
			pairs = append(pairs, [2]string{"Balance of " + label, amount.FormatUnits(info.Balance, info.Decimals)})
		}
		if owner != (common.Address{}) && spender != (common.Address{}) {
			pairs = append(pairs,
				[2]string{"TSender", spender.Hex()},
				[2]string{"Allowance", amount.FormatUnits(info.Allowance, info.Decimals)})
		}
		fmt.Println(ui.KeyValueBlock(tokenLabel(info), pairs))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenNetwork, "network", "", "chain (default: config)")
	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "wallet name or address (default: default wallet)")
}

// resolveOwner accepts an address or a wallet name. With nothing given and
// no wallets configured it returns the zero address.
func resolveOwner(v string) (common.Address, string, error) {
	if common.IsHexAddress(v) {
		addr, err := airdrop.ParseAddress(v)
		return addr, shortHex(addr), err
	}
	mgr, err := newWalletManager(false)
	if err != nil {
		return common.Address{}, "", err
	}
	w, err := resolveWallet(mgr, v)
	if err != nil {
		if v == "" && cfg.DefaultWallet == "" {
			return common.Address{}, "", nil
		}
		return common.Address{}, "", err
	}
	return common.HexToAddress(w.Address), w.Name, nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
