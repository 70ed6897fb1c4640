package contract

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyResult is returned when a call returned no data, which usually
// means the target has no code.
var ErrEmptyResult = errors.New("empty call result")

var (
	erc20    = sync.OnceValue(func() abi.ABI { return mustParse("erc20") })
	tsender  = sync.OnceValue(func() abi.ABI { return mustParse("tsender") })
	uint256T = mustType("uint256")
	uint8T   = mustType("uint8")
	stringT  = mustType("string")
	boolT    = mustType("bool")
)

// ERC20 returns the parsed ERC-20 ABI.
func ERC20() abi.ABI { return erc20() }

// TSender returns the parsed TSender ABI.
func TSender() abi.ABI { return tsender() }

// PackApprove encodes approve(spender, value).
func PackApprove(spender common.Address, value *big.Int) ([]byte, error) {
	return erc20().Pack("approve", spender, value)
}

// PackAllowance encodes allowance(owner, spender).
func PackAllowance(owner, spender common.Address) ([]byte, error) {
	return erc20().Pack("allowance", owner, spender)
}

// PackBalanceOf encodes balanceOf(account).
func PackBalanceOf(account common.Address) ([]byte, error) {
	return erc20().Pack("balanceOf", account)
}

// PackDecimals encodes decimals().
func PackDecimals() ([]byte, error) { return erc20().Pack("decimals") }

// PackName encodes name().
func PackName() ([]byte, error) { return erc20().Pack("name") }

// PackSymbol encodes symbol().
func PackSymbol() ([]byte, error) { return erc20().Pack("symbol") }

// PackAirdrop encodes airdropERC20(token, recipients, amounts, total).
func PackAirdrop(token common.Address, recipients []common.Address, amounts []*big.Int, total *big.Int) ([]byte, error) {
	if len(recipients) != len(amounts) {
		return nil, fmt.Errorf("recipients (%d) and amounts (%d) differ in length", len(recipients), len(amounts))
	}
	return tsender().Pack("airdropERC20", token, recipients, amounts, total)
}

// PackListsValid encodes areListsValid(recipients, amounts).
func PackListsValid(recipients []common.Address, amounts []*big.Int) ([]byte, error) {
	return tsender().Pack("areListsValid", recipients, amounts)
}

// UnpackBig decodes a single uint256 return value.
func UnpackBig(data []byte) (*big.Int, error) {
	v, err := unpackOne(uint256T, data)
	if err != nil {
		return nil, err
	}
	return v.(*big.Int), nil
}

// UnpackUint8 decodes a single uint8 return value.
func UnpackUint8(data []byte) (uint8, error) {
	v, err := unpackOne(uint8T, data)
	if err != nil {
		return 0, err
	}
	return v.(uint8), nil
}

// UnpackBool decodes a single bool return value.
func UnpackBool(data []byte) (bool, error) {
	v, err := unpackOne(boolT, data)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// UnpackString decodes a string return value. Some older tokens return
// bytes32 for name and symbol; a single 32-byte word is read that way.
func UnpackString(data []byte) (string, error) {
	if len(data) == 32 {
		return string(bytes.TrimRight(data, "\x00")), nil
	}
	v, err := unpackOne(stringT, data)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func unpackOne(t abi.Type, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, ErrEmptyResult
	}
	vals, err := abi.Arguments{{Type: t}}.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", t.String(), err)
	}
	return vals[0], nil
}

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}
