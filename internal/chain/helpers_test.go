package chain

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// rpcCall is one decoded JSON-RPC request.
type rpcCall struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     int               `json:"id"`
}

// rpcHandler builds a JSON-RPC server from a function. Returning a non-nil
// *RPCError answers with an error object.
func rpcHandler(t *testing.T, fn func(call rpcCall) (any, *RPCError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		result, rpcErr := fn(call)
		resp := map[string]any{"jsonrpc": "2.0", "id": call.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

// rpcMock serves a fixed result per method; unknown methods get -32601.
func rpcMock(t *testing.T, responses map[string]any) *httptest.Server {
	t.Helper()
	return rpcHandler(t, func(call rpcCall) (any, *RPCError) {
		if result, ok := responses[call.Method]; ok {
			return result, nil
		}
		return nil, &RPCError{Code: -32601, Message: "method not found"}
	})
}

// rpcBadJSON returns malformed JSON and counts requests.
func rpcBadJSON(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testClient polls and retries quickly.
func testClient(url string) *EVMClient {
	return NewEVMClient(url).WithPollInterval(time.Millisecond)
}

func paramString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("param %s is not a string: %v", raw, err)
	}
	return s
}
