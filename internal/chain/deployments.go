package chain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnsupportedChain means no TSender deployment is known for a chain ID.
	ErrUnsupportedChain = errors.New("no TSender deployment for chain")
	// ErrNoUnsafeVariant means unsafe mode was requested on a chain that only
	// has the checked deployment.
	ErrNoUnsafeVariant = errors.New("no unsafe TSender deployment for chain")
)

// Deployment holds the TSender addresses on one chain. The zero address
// marks a missing variant.
type Deployment struct {
	Safe   common.Address // validates inputs on-chain
	Unsafe common.Address // skips the checks, cheaper
}

// builtinDeployments are addresses that are known without configuration.
// 31337 is the first contract deployed by anvil's default account.
var builtinDeployments = map[int64]Deployment{
	31337: {Safe: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")},
}

// Deployments resolves the TSender contract for a chain.
type Deployments struct {
	byID map[int64]Deployment
}

// NewDeployments layers overrides on top of the built-in table. Non-zero
// fields in an override replace the built-in address.
func NewDeployments(overrides map[int64]Deployment) *Deployments {
	d := &Deployments{byID: make(map[int64]Deployment, len(builtinDeployments)+len(overrides))}
	for id, dep := range builtinDeployments {
		d.byID[id] = dep
	}
	for id, o := range overrides {
		cur := d.byID[id]
		if o.Safe != (common.Address{}) {
			cur.Safe = o.Safe
		}
		if o.Unsafe != (common.Address{}) {
			cur.Unsafe = o.Unsafe
		}
		d.byID[id] = cur
	}
	return d
}

// Lookup returns the stored deployment for chainID.
func (d *Deployments) Lookup(chainID int64) (Deployment, bool) {
	dep, ok := d.byID[chainID]
	if !ok || (dep.Safe == (common.Address{}) && dep.Unsafe == (common.Address{})) {
		return Deployment{}, false
	}
	return dep, true
}

// Resolve picks the contract to call on chainID. unsafe selects the
// unchecked deployment.
func (d *Deployments) Resolve(chainID int64, unsafe bool) (common.Address, error) {
	dep, ok := d.Lookup(chainID)
	if !ok {
		return common.Address{}, fmt.Errorf("%w %d", ErrUnsupportedChain, chainID)
	}
	if unsafe {
		if dep.Unsafe == (common.Address{}) {
			return common.Address{}, fmt.Errorf("%w %d", ErrNoUnsafeVariant, chainID)
		}
		return dep.Unsafe, nil
	}
	if dep.Safe == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w %d (only an unsafe deployment is registered)", ErrUnsupportedChain, chainID)
	}
	return dep.Safe, nil
}

// ChainIDs lists every chain with a deployment, ascending.
func (d *Deployments) ChainIDs() []int64 {
	ids := make([]int64, 0, len(d.byID))
	for id := range d.byID {
		if _, ok := d.Lookup(id); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// IsBuiltin reports whether chainID has a deployment compiled in.
func IsBuiltin(chainID int64) bool {
	_, ok := builtinDeployments[chainID]
	return ok
}
