package airdrop

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/tsend/internal/chain"
	"github.com/Mohsinsiddi/tsend/internal/config"
	"github.com/Mohsinsiddi/tsend/internal/contract"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Backend is the node access an airdrop needs. *chain.EVMClient implements it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error)
	SuggestFees(ctx context.Context) (*chain.Fees, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*chain.TxReceipt, error)
}

// Signer signs transactions for one account. *wallet.Signer implements it.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Stage names one of the two transactions.
type Stage string

const (
	StageApprove Stage = "approve"
	StageAirdrop Stage = "airdrop"
)

// Progress reports a transaction being sent (Receipt nil) or mined.
type Progress struct {
	Stage   Stage
	Hash    common.Hash
	Receipt *chain.TxReceipt
}

// Quote is everything known before anything is signed.
type Quote struct {
	ChainID       *big.Int
	Owner         common.Address
	Contract      common.Address
	Allowance     *big.Int
	NeedsApproval bool
	Fees          *chain.Fees
	ApproveGas    uint64 // 0 when no approval is needed
	AirdropGas    uint64
	NativeBalance *big.Int
}

// MaxFee is the worst-case native cost of both transactions.
func (q *Quote) MaxFee() *big.Int {
	return q.Fees.MaxCost(q.ApproveGas + q.AirdropGas)
}

// CanAffordGas reports whether the owner holds enough native currency for MaxFee.
func (q *Quote) CanAffordGas() bool {
	return q.NativeBalance != nil && q.NativeBalance.Cmp(q.MaxFee()) >= 0
}

// Result holds the mined receipts. Approval is nil when it was not needed.
type Result struct {
	Approval *chain.TxReceipt
	Airdrop  *chain.TxReceipt
}

// Executor sends the approve and airdrop transactions.
type Executor struct {
	backend        Backend
	signer         Signer
	log            *zap.Logger
	confirmTimeout time.Duration
	onProgress     func(Progress)
}

// ExecOption configures an Executor.
type ExecOption func(*Executor)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ExecOption {
	return func(e *Executor) { e.log = l }
}

// WithConfirmTimeout bounds the wait for each receipt.
func WithConfirmTimeout(d time.Duration) ExecOption {
	return func(e *Executor) { e.confirmTimeout = d }
}

// WithProgress registers a callback for each sent and mined transaction.
func WithProgress(fn func(Progress)) ExecOption {
	return func(e *Executor) { e.onProgress = fn }
}

// NewExecutor creates an Executor.
func NewExecutor(b Backend, s Signer, opts ...ExecOption) *Executor {
	e := &Executor{
		backend:        b,
		signer:         s,
		log:            zap.NewNop(),
		confirmTimeout: 3 * time.Minute,
		onProgress:     func(Progress) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Quote reads allowance, fees and balances and sizes both transactions.
func (e *Executor) Quote(ctx context.Context, plan *Plan, tsender common.Address) (*Quote, error) {
	owner := e.signer.Address()

	chainID, err := e.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading chain id: %w", err)
	}
	allowance, err := e.backend.Allowance(ctx, plan.Token, owner, tsender)
	if err != nil {
		return nil, fmt.Errorf("reading allowance: %w", err)
	}
	fees, err := e.backend.SuggestFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading gas price: %w", err)
	}
	native, err := e.backend.NativeBalance(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("reading native balance: %w", err)
	}

	q := &Quote{
		ChainID:       chainID,
		Owner:         owner,
		Contract:      tsender,
		Allowance:     allowance,
		NeedsApproval: plan.NeedsApproval(allowance),
		Fees:          fees,
		AirdropGas:    plan.GasLimit(),
		NativeBalance: native,
	}
	if q.NeedsApproval {
		q.ApproveGas = e.approveGas(ctx, plan, q)
	}
	return q, nil
}

func (e *Executor) approveGas(ctx context.Context, plan *Plan, q *Quote) uint64 {
	data, err := contract.PackApprove(q.Contract, plan.Total)
	if err != nil {
		return config.GasLimitApprove
	}
	gas, err := e.backend.EstimateGas(ctx, ethereum.CallMsg{From: q.Owner, To: &plan.Token, Data: data})
	if err != nil {
		e.log.Warn("approve gas estimate failed, using fallback",
			zap.Uint64("gas", config.GasLimitApprove), zap.Error(err))
		return config.GasLimitApprove
	}
	return gas
}

// CheckLists asks the contract's areListsValid whether the plan would pass
// its on-chain checks. Deployments without the view return an error.
func (e *Executor) CheckLists(ctx context.Context, plan *Plan, tsender common.Address) (bool, error) {
	data, err := contract.PackListsValid(plan.Recipients, plan.Amounts)
	if err != nil {
		return false, err
	}
	out, err := e.backend.Call(ctx, ethereum.CallMsg{From: e.signer.Address(), To: &tsender, Data: data})
	if err != nil {
		return false, fmt.Errorf("areListsValid: %w", err)
	}
	return contract.UnpackBool(out)
}

// Run quotes and executes in one step.
func (e *Executor) Run(ctx context.Context, plan *Plan, tsender common.Address) (*Result, error) {
	q, err := e.Quote(ctx, plan, tsender)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, plan, q)
}

// Execute approves the contract for the plan total when needed, waits for
// that to be mined, then sends the batch call with the next nonce and waits
// again. A failed approval stops before the airdrop is sent.
func (e *Executor) Execute(ctx context.Context, plan *Plan, q *Quote) (*Result, error) {
	nonce, err := e.backend.PendingNonce(ctx, q.Owner)
	if err != nil {
		return nil, fmt.Errorf("reading nonce: %w", err)
	}

	res := &Result{}
	if q.NeedsApproval {
		data, err := contract.PackApprove(q.Contract, plan.Total)
		if err != nil {
			return nil, err
		}
		receipt, err := e.sendAndWait(ctx, StageApprove, q, nonce, plan.Token, q.ApproveGas, data)
		res.Approval = receipt
		if err != nil {
			return res, fmt.Errorf("approve: %w", err)
		}
		nonce++
	}

	data, err := contract.PackAirdrop(plan.Token, plan.Recipients, plan.Amounts, plan.Total)
	if err != nil {
		return res, err
	}
	receipt, err := e.sendAndWait(ctx, StageAirdrop, q, nonce, q.Contract, q.AirdropGas, data)
	res.Airdrop = receipt
	if err != nil {
		return res, fmt.Errorf("airdrop: %w", err)
	}
	return res, nil
}

func (e *Executor) sendAndWait(ctx context.Context, stage Stage, q *Quote, nonce uint64, to common.Address, gas uint64, data []byte) (*chain.TxReceipt, error) {
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   q.ChainID,
		Nonce:     nonce,
		GasTipCap: q.Fees.TipCap,
		GasFeeCap: q.Fees.FeeCap,
		Gas:       gas,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      data,
	})
	signed, err := e.signer.SignTx(tx, q.ChainID)
	if err != nil {
		return nil, err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}

	hash, err := e.backend.SendRawTransaction(ctx, raw)
	if err != nil {
		if reason := chain.RevertReason(err); reason != "" {
			return nil, fmt.Errorf("broadcasting: %s: %w", reason, err)
		}
		return nil, fmt.Errorf("broadcasting: %w", err)
	}
	log := e.log.With(zap.String("stage", string(stage)), zap.String("hash", hash.Hex()))
	log.Info("transaction sent", zap.Uint64("nonce", nonce), zap.Uint64("gas", gas))
	e.onProgress(Progress{Stage: stage, Hash: hash})

	receipt, err := e.backend.WaitForReceipt(ctx, hash, e.confirmTimeout)
	if err != nil {
		log.Error("transaction failed", zap.Error(err))
		return receipt, err
	}
	log.Info("transaction mined", zap.Uint64("block", receipt.BlockNumber), zap.Uint64("gas_used", receipt.GasUsed))
	e.onProgress(Progress{Stage: stage, Hash: hash, Receipt: receipt})
	return receipt, nil
}
