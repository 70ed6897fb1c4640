package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/tsend/internal/airdrop"
	"github.com/Mohsinsiddi/tsend/internal/chain"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/rpc"
	"github.com/Mohsinsiddi/tsend/internal/ui"
	"github.com/Mohsinsiddi/tsend/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// errLine renders a command error for stderr, with a hint for the common
// setup mistakes.
func errLine(err error) string {
	line := ui.Err(err.Error())
	switch {
	case errors.Is(err, chain.ErrUnsupportedChain):
		line += "\n" + ui.Hint("register one with: tsend contract set <chain> --safe <address>, or pass --contract")
	case errors.Is(err, chain.ErrNoUnsafeVariant):
		line += "\n" + ui.Hint("drop --unsafe, or register one with: tsend contract set <chain> --unsafe <address>")
	case errors.Is(err, wallet.ErrWalletNotFound):
		line += "\n" + ui.Hint("add one with: tsend wallet add <name> --key <private-key>")
	case errors.Is(err, rpc.ErrNoHealthyRPC):
		line += "\n" + ui.Hint("add a working endpoint with: tsend config add-rpc <chain> <url>")
	}
	return line
}

// resolveChain looks up the --network flag, falling back to the default.
func resolveChain(name string) (*chain.Chain, error) {
	if name == "" {
		name = cfg.DefaultNetwork
	}
	c, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("unknown chain %q (run `tsend network list`): %w", name, err)
	}
	return c, nil
}

// candidateRPCs lists custom endpoints first, then the built-in ones.
func candidateRPCs(c *chain.Chain, mode string) []string {
	var urls []string
	seen := map[string]bool{}
	for _, u := range append(cfg.GetRPCs(c.Name), c.RPCs(mode)...) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

// pickBestRPC benchmarks the candidates with the configured algorithm.
func pickBestRPC(ctx context.Context, c *chain.Chain, mode string) (string, error) {
	urls := candidateRPCs(c, mode)
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: none configured for %s (%s)", rpc.ErrNoHealthyRPC, c.Name, mode)
	}
	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.Best(ctx, urls, algo, logger,
		rpc.WithCursor(cfg.RPCCursorStore(), c.Name+"/"+mode))
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.NetworkName(mode), err)
	}
	logger.Debug("rpc selected", zap.String("chain", c.Name), zap.String("url", url))
	return url, nil
}

// newClient connects to the best endpoint for c in the current mode.
func newClient(ctx context.Context, c *chain.Chain) (*chain.EVMClient, error) {
	url, err := pickBestRPC(ctx, c, cfg.NetworkMode)
	if err != nil {
		return nil, err
	}
	return chain.NewEVMClient(url), nil
}

// deploymentOverrides converts the config table (decimal chain ID keys,
// hex addresses) into the form chain.NewDeployments takes.
func deploymentOverrides(entries map[string]config.Deployment) (map[int64]chain.Deployment, error) {
	out := make(map[int64]chain.Deployment, len(entries))
	for key, d := range entries {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("deployments: chain id %q is not a number", key)
		}
		var dep chain.Deployment
		if d.Safe != "" {
			if dep.Safe, err = airdrop.ParseAddress(d.Safe); err != nil {
				return nil, fmt.Errorf("deployments[%s].safe: %w", key, err)
			}
		}
		if d.Unsafe != "" {
			if dep.Unsafe, err = airdrop.ParseAddress(d.Unsafe); err != nil {
				return nil, fmt.Errorf("deployments[%s].unsafe: %w", key, err)
			}
		}
		out[id] = dep
	}
	return out, nil
}

func newDeployments() (*chain.Deployments, error) {
	overrides, err := deploymentOverrides(cfg.Deployments)
	if err != nil {
		return nil, err
	}
	return chain.NewDeployments(overrides), nil
}

// chainIDArg accepts a registry name (resolved in the current mode) or a
// decimal chain ID.
func chainIDArg(arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	c, err := chain.NewRegistry().GetByName(arg)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a chain name nor a chain id", arg)
	}
	return c.ID(cfg.NetworkMode), nil
}

// newWalletManager opens the wallet list. Key access is only wired when
// withKeys is set, since opening the OS keychain can prompt.
func newWalletManager(withKeys bool) (*wallet.Manager, error) {
	opts := []wallet.Option{wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath()))}
	if withKeys {
		ks, err := wallet.OpenKeystore(cfg.Dir())
		if err != nil {
			return nil, err
		}
		opts = append(opts, wallet.WithKeyStore(ks))
	}
	return wallet.NewManager(opts...), nil
}

// resolveWallet picks the --wallet flag, then the configured default, then
// the only wallet.
func resolveWallet(mgr *wallet.Manager, name string) (*wallet.Wallet, error) {
	if name == "" {
		name = cfg.DefaultWallet
	}
	return mgr.Resolve(name)
}

// readListArg expands "@path" to the file's content and "@-" to stdin.
func readListArg(v string, stdin io.Reader) (string, error) {
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	var (
		data []byte
		err  error
	)
	if v == "@-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(v[1:])
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", v[1:], err)
	}
	return string(data), nil
}

// sortedKeys returns m's keys in order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shortHex(a common.Address) string { return ui.TruncateAddr(a.Hex()) }
