package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/Mohsinsiddi/tsend/internal/airdrop"
	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/Mohsinsiddi/tsend/internal/chain"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/Mohsinsiddi/tsend/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendToken      string
	sendRecipients string
	sendAmounts    string
	sendNetwork    string
	sendWallet     string
	sendContract   string
	sendUnsafe     bool
	sendDryRun     bool
	sendYes        bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a token to many recipients in one transaction",
	Long: `Validate the airdrop form, show the totals and fees, then approve the
TSender contract (when the allowance is short) and call airdropERC20.

Fields not given as flags come from the saved form (see: tsend form).
Flag values are saved back, so a later run picks up where this one left off.
List flags accept @file, or @- for stdin.

Examples:
  tsend send --token 0x… --recipients @addrs.txt --amounts @amounts.txt
  tsend send --network anvil --dry-run
  tsend send --unsafe --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := formFromFlags(cmd, cfg.FormStore(), cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runSend(cmd.Context(), cmd.OutOrStdout(), form)
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendToken, "token", "", "ERC-20 token address")
	sendCmd.Flags().StringVar(&sendRecipients, "recipients", "", "recipient addresses, comma or newline separated (or @file)")
	sendCmd.Flags().StringVar(&sendAmounts, "amounts", "", "amounts in token units, same order (or @file)")
	sendCmd.Flags().StringVar(&sendNetwork, "network", "", "chain (default: config)")
	sendCmd.Flags().StringVar(&sendWallet, "wallet", "", "wallet name (default: config)")
	sendCmd.Flags().StringVar(&sendContract, "contract", "", "TSender address, overrides the deployment table")
	sendCmd.Flags().BoolVar(&sendUnsafe, "unsafe", false, "use the unchecked TSender deployment (default: config unsafe_mode)")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "validate and quote without sending")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "skip the confirmation prompt")
}

// formFromFlags overlays the changed flags on the saved form and saves the
// result.
func formFromFlags(cmd *cobra.Command, kv config.KV, stdin io.Reader) (config.Form, error) {
	saved, err := config.LoadForm(kv)
	if err != nil {
		return config.Form{}, err
	}
	next := saved
	for flag, dst := range map[string]*string{
		"token":      &next.TokenAddress,
		"recipients": &next.Recipients,
		"amounts":    &next.Amounts,
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(flag)
		if *dst, err = readListArg(v, stdin); err != nil {
			return config.Form{}, err
		}
	}
	if err := config.SaveFormChanges(kv, saved, next); err != nil {
		return config.Form{}, fmt.Errorf("saving form: %w", err)
	}
	return next, nil
}

// watchSigner lets a watch-only wallet quote a dry run.
type watchSigner struct{ addr common.Address }

func (s watchSigner) Address() common.Address { return s.addr }

func (s watchSigner) SignTx(*types.Transaction, *big.Int) (*types.Transaction, error) {
	return nil, errors.New("watch-only wallet cannot sign")
}

func runSend(ctx context.Context, out io.Writer, form config.Form) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if form.TokenAddress == "" {
		return fmt.Errorf("no token address: pass --token or fill in `tsend form`")
	}
	token, err := airdrop.ParseAddress(form.TokenAddress)
	if err != nil {
		return fmt.Errorf("%w: %w", airdrop.ErrInvalidToken, err)
	}

	c, err := resolveChain(sendNetwork)
	if err != nil {
		return err
	}
	mgr, err := newWalletManager(!sendDryRun)
	if err != nil {
		return err
	}
	w, err := resolveWallet(mgr, sendWallet)
	if err != nil {
		return err
	}
	var signer airdrop.Signer = watchSigner{addr: common.HexToAddress(w.Address)}
	if !sendDryRun {
		s, err := mgr.Signer(w)
		if err != nil {
			return err
		}
		signer = s
	}

	spin := ui.NewSpinner("Connecting to " + c.NetworkName(cfg.NetworkMode) + "...")
	spin.Start()
	client, err := newClient(ctx, c)
	if err != nil {
		spin.Stop()
		return err
	}

	spin.Update("Resolving TSender...")
	tsender, err := resolveTSender(ctx, client)
	if err != nil {
		spin.Stop()
		return err
	}

	spin.Update("Reading token...")
	readCtx, cancel := context.WithTimeout(ctx, config.TokenReadTimeout)
	info, err := client.ReadToken(readCtx, token, signer.Address(), tsender)
	cancel()
	if err != nil {
		spin.Stop()
		return err
	}

	plan, err := airdrop.BuildPlan(airdrop.Input{
		Token:      form.TokenAddress,
		Recipients: form.Recipients,
		Amounts:    form.Amounts,
		Decimals:   info.Decimals,
	})
	if err != nil {
		spin.Stop()
		return err
	}

	exec := airdrop.NewExecutor(client, signer,
		airdrop.WithLogger(logger),
		airdrop.WithConfirmTimeout(cfg.ConfirmWait()),
		airdrop.WithProgress(func(p airdrop.Progress) {
			if p.Receipt == nil {
				spin.Update(fmt.Sprintf("Waiting for %s %s...", p.Stage, ui.TruncateAddr(p.Hash.Hex())))
				return
			}
			spin.Update(fmt.Sprintf("%s mined in block %d", p.Stage, p.Receipt.BlockNumber))
		}))

	spin.Update("Quoting fees...")
	quote, err := exec.Quote(ctx, plan, tsender)
	spin.Stop()
	if err != nil {
		return err
	}

	printPlan(out, c, w, info, plan, quote)
	if err := plan.CheckBalance(info.Balance); err != nil {
		return err
	}
	switch valid, err := exec.CheckLists(ctx, plan, tsender); {
	case err != nil:
		logger.Debug("on-chain list check unavailable", zap.Error(err))
	case !valid:
		return errors.New("TSender rejects these lists (areListsValid returned false)")
	default:
		fmt.Fprintln(out, ui.Meta("On-chain list check passed."))
	}
	if !quote.CanAffordGas() {
		fmt.Fprintln(out, ui.Warn(fmt.Sprintf("native balance %s %s may not cover the max fee",
			amount.FormatUnits(quote.NativeBalance, amount.EtherDecimals), c.NativeCurrency)))
	}

	if sendDryRun {
		fmt.Fprintln(out, ui.Info("Dry run: nothing was sent."))
		return nil
	}
	if !sendYes && !ui.StdPrompter().ConfirmDanger(fmt.Sprintf("Send %s %s to %d recipients?",
		amount.FormatUnits(plan.Total, plan.Decimals), info.Symbol, plan.Len())) {
		fmt.Fprintln(out, ui.Meta("Cancelled."))
		return nil
	}

	spin = ui.NewSpinner("Broadcasting...")
	spin.Start()
	res, err := exec.Execute(ctx, plan, quote)
	spin.Stop()
	printResult(out, c, res)
	if err != nil {
		if reason := chain.RevertReason(err); reason != "" {
			return fmt.Errorf("%w (reason: %s)", err, reason)
		}
		return err
	}
	fmt.Fprintln(out, ui.Success(fmt.Sprintf("Airdropped %s %s to %d recipients.",
		amount.FormatUnits(plan.Total, plan.Decimals), info.Symbol, plan.Len())))
	return nil
}

// resolveTSender applies --contract, then the deployment table for the
// connected chain ID.
func resolveTSender(ctx context.Context, client *chain.EVMClient) (common.Address, error) {
	if sendContract != "" {
		return airdrop.ParseAddress(sendContract)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		return common.Address{}, err
	}
	deps, err := newDeployments()
	if err != nil {
		return common.Address{}, err
	}
	unsafe := cfg.UnsafeMode || sendUnsafe
	addr, err := deps.Resolve(id.Int64(), unsafe)
	if err != nil {
		return common.Address{}, err
	}
	logger.Debug("tsender resolved",
		zap.Int64("chain_id", id.Int64()),
		zap.Bool("unsafe", unsafe),
		zap.String("address", addr.Hex()))
	return addr, nil
}

func printPlan(out io.Writer, c *chain.Chain, w *wallet.Wallet, info *chain.TokenInfo, plan *airdrop.Plan, q *airdrop.Quote) {
	tbl := ui.NewTable([]ui.Column{
		{Title: "#", Width: 4, AlignRight: true},
		{Title: "Recipient", Width: 42},
		{Title: "Amount", Width: 24, AlignRight: true},
	})
	dups := map[common.Address]bool{}
	for _, d := range plan.Duplicates() {
		dups[d] = true
	}
	for i, r := range plan.Recipients {
		tbl.AddRow(ui.Row{fmt.Sprint(i + 1), r.Hex(), amount.FormatUnits(plan.Amounts[i], plan.Decimals)})
		if dups[r] {
			tbl.Mark(i)
		}
	}
	fmt.Fprintln(out, tbl.Render())
	if len(dups) > 0 {
		fmt.Fprintln(out, ui.Warn(fmt.Sprintf("%d address(es) appear more than once", len(dups))))
	}

	approval := "not needed"
	if q.NeedsApproval {
		approval = fmt.Sprintf("%s (allowance %s)",
			amount.FormatUnits(plan.Total, plan.Decimals),
			amount.FormatUnits(q.Allowance, plan.Decimals))
	}
	fmt.Fprintln(out, ui.KeyValueBlock("Airdrop", [][2]string{
		{"Network", c.NetworkName(cfg.NetworkMode)},
		{"Wallet", w.Name + "  " + shortHex(q.Owner)},
		{"Token", fmt.Sprintf("%s (%s)", tokenLabel(info), shortHex(info.Address))},
		{"TSender", q.Contract.Hex()},
		{"Recipients", fmt.Sprint(plan.Len())},
		{"Total", amount.FormatUnits(plan.Total, plan.Decimals) + " " + info.Symbol},
		{"Balance", amount.FormatUnits(info.Balance, info.Decimals) + " " + info.Symbol},
		{"Approve", approval},
		{"Gas limit", fmt.Sprintf("%d + %d", q.ApproveGas, q.AirdropGas)},
		{"Gas price", fmt.Sprintf("%.4f Gwei", chain.WeiToGwei(q.Fees.GasPrice))},
		{"Max fee", amount.FormatUnits(q.MaxFee(), amount.EtherDecimals) + " " + c.NativeCurrency},
	}))
}

func printResult(out io.Writer, c *chain.Chain, res *airdrop.Result) {
	if res == nil {
		return
	}
	for _, step := range []struct {
		label   string
		receipt *chain.TxReceipt
	}{{"Approve", res.Approval}, {"Airdrop", res.Airdrop}} {
		if step.receipt == nil {
			continue
		}
		status := ui.Success(step.label + " confirmed")
		if step.receipt.Status == 0 {
			status = ui.Err(step.label + " reverted")
		}
		fmt.Fprintln(out, status+"  "+ui.Addr(step.receipt.Hash.Hex()))
		if url := c.TxURL(cfg.NetworkMode, step.receipt.Hash.Hex()); url != "" {
			fmt.Fprintln(out, "  "+ui.Meta(url))
		}
	}
}

func tokenLabel(info *chain.TokenInfo) string {
	switch {
	case info.Name != "" && info.Symbol != "":
		return info.Name + " " + info.Symbol
	case info.Symbol != "":
		return info.Symbol
	case info.Name != "":
		return info.Name
	}
	return "unnamed token"
}
