package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/tsend/internal/contract"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// TokenInfo is a snapshot of an ERC-20 token as seen by one owner.
type TokenInfo struct {
	Address   common.Address
	Name      string // "" when the token does not expose it
	Symbol    string
	Decimals  uint8
	Balance   *big.Int // owner's balance
	Allowance *big.Int // owner → spender
}

// ReadToken reads metadata, balance and allowance in parallel. Decimals,
// balance and allowance are required; name and symbol are best effort.
// A zero spender skips the allowance read.
func (c *EVMClient) ReadToken(ctx context.Context, token, owner, spender common.Address) (*TokenInfo, error) {
	info := &TokenInfo{Address: token, Allowance: new(big.Int)}

	code, err := c.Code(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("reading code at %s: %w", token.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no contract deployed at %s", token.Hex())
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := c.callToken(ctx, token, contract.PackDecimals)
		if err != nil {
			return fmt.Errorf("decimals: %w", err)
		}
		info.Decimals, err = contract.UnpackUint8(data)
		if err != nil {
			return fmt.Errorf("decimals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := c.callToken(ctx, token, func() ([]byte, error) { return contract.PackBalanceOf(owner) })
		if err != nil {
			return fmt.Errorf("balanceOf: %w", err)
		}
		info.Balance, err = contract.UnpackBig(data)
		if err != nil {
			return fmt.Errorf("balanceOf: %w", err)
		}
		return nil
	})
	if spender != (common.Address{}) {
		g.Go(func() error {
			data, err := c.callToken(ctx, token, func() ([]byte, error) { return contract.PackAllowance(owner, spender) })
			if err != nil {
				return fmt.Errorf("allowance: %w", err)
			}
			info.Allowance, err = contract.UnpackBig(data)
			if err != nil {
				return fmt.Errorf("allowance: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		if data, err := c.callToken(ctx, token, contract.PackName); err == nil {
			info.Name, _ = contract.UnpackString(data)
		}
		return nil
	})
	g.Go(func() error {
		if data, err := c.callToken(ctx, token, contract.PackSymbol); err == nil {
			info.Symbol, _ = contract.UnpackString(data)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}

// Allowance reads token.allowance(owner, spender).
func (c *EVMClient) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := c.callToken(ctx, token, func() ([]byte, error) { return contract.PackAllowance(owner, spender) })
	if err != nil {
		return nil, err
	}
	return contract.UnpackBig(data)
}

func (c *EVMClient) callToken(ctx context.Context, token common.Address, pack func() ([]byte, error)) ([]byte, error) {
	data, err := pack()
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, ethereum.CallMsg{To: &token, Data: data})
}
