package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// ParseAlgorithm validates an algorithm name; "" means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return a, nil
	default:
		return "", fmt.Errorf("unknown rpc algorithm %q", s)
	}
}

// Endpoint is one RPC URL with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error // ping failure, nil when healthy
}

// Healthy reports whether the last ping succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Picker selects an RPC endpoint according to the configured algorithm.
type Picker struct {
	algo    Algorithm
	mu      sync.Mutex
	rrIndex int
}

// NewPicker creates a new Picker with the given algorithm.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Seed sets the round-robin position, e.g. one restored from a previous run.
func (p *Picker) Seed(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 {
		index = 0
	}
	p.rrIndex = index
}

// Next returns the round-robin position the following Pick starts from.
func (p *Picker) Next() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rrIndex
}

// Pick selects an endpoint from the benchmarked list. Unhealthy endpoints
// and endpoints lagging the best block are never picked.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	candidates := fresh(endpoints)
	if len(candidates) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmRoundRobin:
		p.mu.Lock()
		defer p.mu.Unlock()
		idx := p.rrIndex % len(candidates)
		p.rrIndex = idx + 1
		return candidates[idx], nil
	case AlgorithmFailover:
		// Candidates keep the configured order.
		return candidates[0], nil
	default:
		return fastest(candidates), nil
	}
}

func fastest(candidates []*Endpoint) *Endpoint {
	winner := candidates[0]
	for _, e := range candidates[1:] {
		if e.Latency < winner.Latency {
			winner = e
		}
	}
	return winner
}

// fresh returns healthy endpoints within staleBlockThreshold of the best
// block, in input order.
func fresh(endpoints []Endpoint) []*Endpoint {
	var best uint64
	for _, e := range endpoints {
		if e.Healthy() && e.BlockNumber > best {
			best = e.BlockNumber
		}
	}

	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy() {
			continue
		}
		if best-e.BlockNumber > staleBlockThreshold {
			continue
		}
		out = append(out, e)
	}
	return out
}
