package rpc

import (
	"context"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/tsend/internal/chain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pingTimeout bounds a single endpoint probe.
const pingTimeout = 5 * time.Second

// Benchmark pings every URL in parallel and returns one Endpoint per URL,
// in input order. Failures are recorded on the endpoint, not returned.
func Benchmark(ctx context.Context, urls []string) []Endpoint {
	endpoints := make([]Endpoint, len(urls))
	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()
			latency, block, err := chain.NewEVMClient(u).Ping(pctx)
			endpoints[i] = Endpoint{URL: u, Latency: latency, BlockNumber: block, Err: err}
			return nil
		})
	}
	g.Wait() //nolint:errcheck
	return endpoints
}

// Cursor stores the round-robin position so it survives between runs.
// config.FileKV satisfies it.
type Cursor interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// BestOption configures Best.
type BestOption func(*bestOptions)

type bestOptions struct {
	cursor Cursor
	key    string
}

// WithCursor makes round-robin resume from the position stored under key.
func WithCursor(c Cursor, key string) BestOption {
	return func(o *bestOptions) {
		o.cursor = c
		o.key = key
	}
}

// Best benchmarks urls and returns the one chosen by algo. A single URL is
// returned without probing.
func Best(ctx context.Context, urls []string, algo Algorithm, log *zap.Logger, opts ...BestOption) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var o bestOptions
	for _, opt := range opts {
		opt(&o)
	}
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	endpoints := Benchmark(ctx, urls)
	for _, e := range endpoints {
		if e.Err != nil {
			log.Debug("rpc probe failed", zap.String("url", e.URL), zap.Error(e.Err))
			continue
		}
		log.Debug("rpc probe",
			zap.String("url", e.URL),
			zap.Duration("latency", e.Latency),
			zap.Uint64("block", e.BlockNumber))
	}

	picker := NewPicker(algo)
	rotate := algo == AlgorithmRoundRobin && o.cursor != nil
	if rotate {
		picker.Seed(loadCursor(o.cursor, o.key, log))
	}
	winner, err := picker.Pick(endpoints)
	if err != nil {
		return "", err
	}
	if rotate {
		if err := o.cursor.Set(o.key, strconv.Itoa(picker.Next())); err != nil {
			log.Warn("saving rpc cursor", zap.String("key", o.key), zap.Error(err))
		}
	}
	log.Debug("rpc selected", zap.String("url", winner.URL), zap.String("algorithm", string(algo)))
	return winner.URL, nil
}

func loadCursor(c Cursor, key string, log *zap.Logger) int {
	raw, ok, err := c.Get(key)
	if err != nil {
		log.Warn("reading rpc cursor", zap.String("key", key), zap.Error(err))
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Debug("ignoring malformed rpc cursor", zap.String("key", key), zap.String("value", raw))
		return 0
	}
	return n
}
