package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrReverted is returned when a mined transaction has status 0.
var ErrReverted = errors.New("transaction reverted")

// errPending marks a receipt poll that found nothing yet.
var errPending = errors.New("receipt pending")

const (
	defaultPollInterval = 2 * time.Second
	maxReadAttempts     = 3
)

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url          string
	client       *http.Client
	pollInterval time.Duration
	readBackoff  time.Duration
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		pollInterval: defaultPollInterval,
		readBackoff:  200 * time.Millisecond,
	}
}

// WithPollInterval sets the initial receipt polling interval.
func (c *EVMClient) WithPollInterval(d time.Duration) *EVMClient {
	c.pollInterval = d
	c.readBackoff = d
	return c
}

// URL returns the endpoint the client talks to.
func (c *EVMClient) URL() string { return c.url }

// ChainID returns eth_chainId.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.read(ctx, &out, "eth_chainId"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	if err := c.read(ctx, &out, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// GasPrice returns the node's suggested gas price in wei.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.read(ctx, &out, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// PendingNonce returns the transaction count including queued transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	var out hexutil.Uint64
	if err := c.read(ctx, &out, "eth_getTransactionCount", addr, "pending"); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// NativeBalance returns the account's balance in wei.
func (c *EVMClient) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	var out hexutil.Big
	if err := c.read(ctx, &out, "eth_getBalance", addr, "latest"); err != nil {
		return nil, err
	}
	return out.ToInt(), nil
}

// Code returns the bytecode at addr. Empty means an EOA or nothing deployed.
func (c *EVMClient) Code(ctx context.Context, addr common.Address) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.read(ctx, &out, "eth_getCode", addr, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// Call executes eth_call against the latest block.
func (c *EVMClient) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.read(ctx, &out, "eth_call", toCallArg(msg), "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas runs eth_estimateGas for msg.
func (c *EVMClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var out hexutil.Uint64
	if err := c.read(ctx, &out, "eth_estimateGas", toCallArg(msg)); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SendRawTransaction broadcasts a signed, RLP-encoded transaction. It is never
// retried.
func (c *EVMClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var out common.Hash
	if err := c.call(ctx, &out, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}
	return out, nil
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash              common.Hash
	Status            uint64 // 1 = success, 0 = reverted
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// Fee is gas used × effective gas price, or nil when the node omits the price.
func (r *TxReceipt) Fee() *big.Int {
	if r.EffectiveGasPrice == nil {
		return nil
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*TxReceipt, error) {
	var r *struct {
		Status            hexutil.Uint64 `json:"status"`
		BlockNumber       hexutil.Uint64 `json:"blockNumber"`
		GasUsed           hexutil.Uint64 `json:"gasUsed"`
		EffectiveGasPrice *hexutil.Big   `json:"effectiveGasPrice"`
	}
	if err := c.read(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil // still pending
	}
	receipt := &TxReceipt{
		Hash:        hash,
		Status:      uint64(r.Status),
		BlockNumber: uint64(r.BlockNumber),
		GasUsed:     uint64(r.GasUsed),
	}
	if r.EffectiveGasPrice != nil {
		receipt.EffectiveGasPrice = r.EffectiveGasPrice.ToInt()
	}
	return receipt, nil
}

// WaitForReceipt polls with exponential backoff until the transaction is
// mined, ctx is cancelled or timeout expires. A mined receipt with status 0
// is returned together with ErrReverted.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*TxReceipt, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.pollInterval
	b.MaxInterval = 4 * c.pollInterval
	b.RandomizationFactor = 0

	receipt, err := backoff.Retry(ctx, func() (*TxReceipt, error) {
		r, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if r == nil {
			return nil, errPending
		}
		return r, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(timeout))

	if errors.Is(err, errPending) {
		return nil, fmt.Errorf("transaction %s not mined within %s", hash.Hex(), timeout)
	}
	if err != nil {
		return nil, err
	}
	if receipt.Status == 0 {
		return receipt, fmt.Errorf("%w (hash: %s)", ErrReverted, hash.Hex())
	}
	return receipt, nil
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	var out hexutil.Uint64
	err = c.call(ctx, &out, "eth_blockNumber")
	latency = time.Since(start)
	if err != nil {
		return latency, 0, err
	}
	return latency, uint64(out), nil
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// rateLimited reports whether the node asked us to slow down.
func (e *RPCError) rateLimited() bool {
	return e.Code == -32005 || strings.Contains(e.Message, "Too Many Requests")
}

// read is call with a few retries on transport failures and rate limits.
// Node-side errors (reverts, bad params) are returned immediately.
func (c *EVMClient) read(ctx context.Context, out any, method string, params ...any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.readBackoff

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.call(ctx, out, method, params...)
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && !rpcErr.rateLimited() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxReadAttempts))
	return err
}

func (c *EVMClient) call(ctx context.Context, out any, method string, params ...any) error {
	if params == nil {
		params = []any{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RPCError{Code: -32005, Message: "Too Many Requests"}
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}

type callArg struct {
	From  *common.Address `json:"from,omitempty"`
	To    *common.Address `json:"to,omitempty"`
	Gas   hexutil.Uint64  `json:"gas,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

func toCallArg(msg ethereum.CallMsg) callArg {
	arg := callArg{To: msg.To, Gas: hexutil.Uint64(msg.Gas), Data: msg.Data}
	if msg.From != (common.Address{}) {
		from := msg.From
		arg.From = &from
	}
	if msg.Value != nil && msg.Value.Sign() > 0 {
		arg.Value = (*hexutil.Big)(msg.Value)
	}
	return arg
}
