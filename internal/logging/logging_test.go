package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/tsend/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Out: &buf})

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Verbose: true, Out: &buf})

	log.Debug("picked rpc", zap.String("url", "http://localhost:8545"))
	require.NoError(t, log.Sync())

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "http://localhost:8545")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{JSON: true, Verbose: true, Out: &buf})

	log.Info("tx sent", zap.String("hash", "0xabc"), zap.Uint64("nonce", 7))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "tx sent", entry["msg"])
	assert.Equal(t, "0xabc", entry["hash"])
	assert.EqualValues(t, 7, entry["nonce"])
}
