// Package airdrop turns the raw form text into a validated batch transfer
// and executes it against a TSender contract.
package airdrop

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/tsend/internal/amount"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNoRecipients        = errors.New("no recipients")
	ErrLengthMismatch      = errors.New("recipient and amount counts differ")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrInvalidToken        = errors.New("invalid token address")
	ErrInvalidAmounts      = errors.New("invalid amounts")
	ErrNegativeAmount      = errors.New("negative amount")
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

// Input is the raw airdrop form.
type Input struct {
	Token      string
	Recipients string // comma/newline separated addresses
	Amounts    string // comma/newline separated decimal amounts
	Decimals   uint8
}

// Plan is a validated batch transfer. Recipients[i] receives Amounts[i]
// base units.
type Plan struct {
	Token      common.Address
	Decimals   uint8
	Recipients []common.Address
	Amounts    []*big.Int
	Total      *big.Int
}

// BuildPlan validates the form. Every recipient must be an address, every
// amount a non-negative decimal with no more fractional digits than the
// token allows, and the two lists must line up one to one.
func BuildPlan(in Input) (*Plan, error) {
	token, err := ParseAddress(in.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	entries := amount.SplitList(in.Recipients)
	if len(entries) == 0 {
		return nil, ErrNoRecipients
	}
	recipients := make([]common.Address, len(entries))
	var errs []error
	for i, e := range entries {
		addr, err := ParseAddress(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("recipient %d: %w", i+1, err))
			continue
		}
		if addr == (common.Address{}) {
			errs = append(errs, fmt.Errorf("recipient %d: zero address", i+1))
			continue
		}
		recipients[i] = addr
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipient, errors.Join(errs...))
	}

	amounts, rejected := amount.Scan(in.Amounts, in.Decimals)
	if len(rejected) > 0 {
		errs := make([]error, len(rejected))
		for i, r := range rejected {
			errs[i] = r
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmounts, errors.Join(errs...))
	}
	for i, a := range amounts {
		if a.Sign() < 0 {
			return nil, fmt.Errorf("%w: entry %d is %s", ErrNegativeAmount, i+1, amount.FormatUnits(a, in.Decimals))
		}
	}

	if len(amounts) != len(recipients) {
		return nil, fmt.Errorf("%w: %d recipients, %d amounts", ErrLengthMismatch, len(recipients), len(amounts))
	}

	return &Plan{
		Token:      token,
		Decimals:   in.Decimals,
		Recipients: recipients,
		Amounts:    amounts,
		Total:      amount.Sum(amounts),
	}, nil
}

// Len is the number of transfers.
func (p *Plan) Len() int { return len(p.Recipients) }

// GasLimit sizes the batch call from the recipient count.
func (p *Plan) GasLimit() uint64 {
	return config.AirdropGasLimit(p.Len())
}

// NeedsApproval reports whether allowance is too small for the total.
func (p *Plan) NeedsApproval(allowance *big.Int) bool {
	if allowance == nil {
		return true
	}
	return allowance.Cmp(p.Total) < 0
}

// CheckBalance fails when balance cannot cover the total.
func (p *Plan) CheckBalance(balance *big.Int) error {
	if balance == nil || balance.Cmp(p.Total) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance,
			amount.Format(balance, amount.KnownDecimals(p.Decimals)),
			amount.FormatUnits(p.Total, p.Decimals))
	}
	return nil
}

// Duplicates lists recipients that appear more than once, in first-seen
// order. Repeats are legal; callers show them as a warning.
func (p *Plan) Duplicates() []common.Address {
	seen := make(map[common.Address]int, len(p.Recipients))
	var dups []common.Address
	for _, r := range p.Recipients {
		seen[r]++
		if seen[r] == 2 {
			dups = append(dups, r)
		}
	}
	return dups
}
