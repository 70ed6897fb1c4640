// Package logging builds the zap logger shared by every command.
package logging

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Verbose bool      // debug level instead of warn
	JSON    bool      // machine-readable output
	Out     io.Writer // defaults to os.Stderr
}

// New returns a logger writing to opts.Out. Command output goes to stdout,
// so logs default to stderr and stay quiet unless Verbose is set.
func New(opts Options) *zap.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := zap.WarnLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     shortTime,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(zapcore.Lock(zapcore.AddSync(out))), level)
	return zap.New(core)
}

func shortTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}
