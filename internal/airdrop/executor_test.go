package airdrop

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/Mohsinsiddi/tsend/internal/chain"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/contract"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var tsenderAddr = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")

type keySigner struct{ key *ecdsa.PrivateKey }

func (s keySigner) Address() common.Address { return crypto.PubkeyToAddress(s.key.PublicKey) }

func (s keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
}

// fakeBackend records broadcast transactions and mines each one immediately.
type fakeBackend struct {
	mu          sync.Mutex
	allowance   *big.Int
	nonce       uint64
	estimateErr error
	revert      map[int]bool // by send index
	sendErr     error
	listsValid  *bool
	sent        []*types.Transaction
}

var boolType, _ = abi.NewType("bool", "", nil)

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(31337), nil }

func (f *fakeBackend) PendingNonce(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	return ether(1), nil
}

func (f *fakeBackend) SuggestFees(context.Context) (*chain.Fees, error) {
	gp := big.NewInt(1_000_000_000)
	return &chain.Fees{GasPrice: gp, TipCap: gp, FeeCap: big.NewInt(2_000_000_000)}, nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return 46_000, nil
}

func (f *fakeBackend) Call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if f.listsValid == nil {
		return nil, errors.New("execution reverted")
	}
	return abi.Arguments{{Type: boolType}}.Pack(*f.listsValid)
}

func (f *fakeBackend) Allowance(context.Context, common.Address, common.Address, common.Address) (*big.Int, error) {
	return f.allowance, nil
}

func (f *fakeBackend) SendRawTransaction(_ context.Context, raw []byte) (common.Hash, error) {
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, err
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	return tx.Hash(), nil
}

func (f *fakeBackend) WaitForReceipt(_ context.Context, hash common.Hash, _ time.Duration) (*chain.TxReceipt, error) {
	f.mu.Lock()
	idx := len(f.sent) - 1
	f.mu.Unlock()
	r := &chain.TxReceipt{Hash: hash, Status: 1, BlockNumber: uint64(idx + 1), GasUsed: 21_000}
	if f.revert[idx] {
		r.Status = 0
		return r, chain.ErrReverted
	}
	return r, nil
}

func testPlan(t *testing.T) *Plan {
	t.Helper()
	plan, err := BuildPlan(Input{Token: tokenAddr, Recipients: alice + "," + bob, Amounts: "1,2", Decimals: 18})
	require.NoError(t, err)
	return plan
}

func testSigner(t *testing.T) keySigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return keySigner{key: key}
}

func TestExecutorApprovesThenAirdrops(t *testing.T) {
	plan := testPlan(t)
	backend := &fakeBackend{allowance: big.NewInt(0), nonce: 7}
	signer := testSigner(t)

	var progress []Progress
	exec := NewExecutor(backend, signer,
		WithLogger(zaptest.NewLogger(t)),
		WithProgress(func(p Progress) { progress = append(progress, p) }))

	res, err := exec.Run(context.Background(), plan, tsenderAddr)
	require.NoError(t, err)
	require.NotNil(t, res.Approval)
	require.NotNil(t, res.Airdrop)
	require.Len(t, backend.sent, 2)

	approve, drop := backend.sent[0], backend.sent[1]

	assert.Equal(t, uint64(7), approve.Nonce())
	assert.Equal(t, common.HexToAddress(tokenAddr), *approve.To())
	assert.Equal(t, uint64(46_000), approve.Gas())
	wantApprove, err := contract.PackApprove(tsenderAddr, plan.Total)
	require.NoError(t, err)
	assert.Equal(t, wantApprove, approve.Data())

	assert.Equal(t, uint64(8), drop.Nonce())
	assert.Equal(t, tsenderAddr, *drop.To())
	assert.Equal(t, config.AirdropGasLimit(2), drop.Gas())
	wantDrop, err := contract.PackAirdrop(plan.Token, plan.Recipients, plan.Amounts, plan.Total)
	require.NoError(t, err)
	assert.Equal(t, wantDrop, drop.Data())

	for _, tx := range backend.sent {
		assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
		assert.Equal(t, "1000000000", tx.GasTipCap().String())
		assert.Equal(t, "2000000000", tx.GasFeeCap().String())
		assert.Equal(t, int64(31337), tx.ChainId().Int64())
		from, err := types.Sender(types.NewLondonSigner(tx.ChainId()), tx)
		require.NoError(t, err)
		assert.Equal(t, signer.Address(), from)
	}

	require.Len(t, progress, 4)
	assert.Equal(t, StageApprove, progress[0].Stage)
	assert.Nil(t, progress[0].Receipt)
	assert.Equal(t, StageAirdrop, progress[3].Stage)
	assert.NotNil(t, progress[3].Receipt)
}

func TestExecutorSkipsApprovalWhenAllowanceCovers(t *testing.T) {
	plan := testPlan(t)
	backend := &fakeBackend{allowance: ether(3), nonce: 2}

	res, err := NewExecutor(backend, testSigner(t)).Run(context.Background(), plan, tsenderAddr)
	require.NoError(t, err)
	assert.Nil(t, res.Approval)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, uint64(2), backend.sent[0].Nonce())
	assert.Equal(t, tsenderAddr, *backend.sent[0].To())
}

func TestExecutorApproveGasFallback(t *testing.T) {
	plan := testPlan(t)
	backend := &fakeBackend{allowance: big.NewInt(0), estimateErr: errors.New("execution reverted")}

	q, err := NewExecutor(backend, testSigner(t)).Quote(context.Background(), plan, tsenderAddr)
	require.NoError(t, err)
	assert.True(t, q.NeedsApproval)
	assert.Equal(t, config.GasLimitApprove, q.ApproveGas)
}

func TestExecutorStopsOnRevertedApproval(t *testing.T) {
	plan := testPlan(t)
	backend := &fakeBackend{allowance: big.NewInt(0), revert: map[int]bool{0: true}}

	res, err := NewExecutor(backend, testSigner(t)).Run(context.Background(), plan, tsenderAddr)
	require.ErrorIs(t, err, chain.ErrReverted)
	assert.Contains(t, err.Error(), "approve")
	require.NotNil(t, res)
	assert.Equal(t, uint64(0), res.Approval.Status)
	assert.Nil(t, res.Airdrop)
	assert.Len(t, backend.sent, 1)
}

func TestExecutorBroadcastError(t *testing.T) {
	plan := testPlan(t)
	backend := &fakeBackend{allowance: ether(3), sendErr: errors.New("nonce too low")}

	_, err := NewExecutor(backend, testSigner(t)).Run(context.Background(), plan, tsenderAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce too low")
}

func TestQuoteMaxFee(t *testing.T) {
	plan := testPlan(t)
	backend := &fakeBackend{allowance: big.NewInt(0)}

	q, err := NewExecutor(backend, testSigner(t)).Quote(context.Background(), plan, tsenderAddr)
	require.NoError(t, err)
	want := new(big.Int).Mul(big.NewInt(int64(46_000+plan.GasLimit())), big.NewInt(2_000_000_000))
	assert.Equal(t, want.String(), q.MaxFee().String())
	assert.True(t, q.CanAffordGas())
}

func TestExecutorCheckLists(t *testing.T) {
	plan := testPlan(t)
	valid := true
	backend := &fakeBackend{listsValid: &valid}
	exec := NewExecutor(backend, testSigner(t))

	ok, err := exec.CheckLists(context.Background(), plan, tsenderAddr)
	require.NoError(t, err)
	assert.True(t, ok)

	backend.listsValid = nil
	_, err = exec.CheckLists(context.Background(), plan, tsenderAddr)
	assert.ErrorContains(t, err, "areListsValid")
}
