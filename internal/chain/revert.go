package chain

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RevertReason extracts a human-readable revert reason from a node error.
// It decodes Error(string) payloads in the error data and falls back to the
// "execution reverted: ..." message text. Returns "" when nothing is found.
func RevertReason(err error) string {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return ""
	}
	var data string
	if json.Unmarshal(rpcErr.Data, &data) == nil {
		if raw, err := hexutil.Decode(data); err == nil {
			if reason, err := abi.UnpackRevert(raw); err == nil {
				return reason
			}
		}
	}
	if idx := strings.Index(rpcErr.Message, "execution reverted"); idx >= 0 {
		return strings.TrimSpace(rpcErr.Message[idx:])
	}
	return ""
}
