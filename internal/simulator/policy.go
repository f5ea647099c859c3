package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lthibault/jitterbug/v2"
)

// Decision is the fate of one simulated call.
type Decision struct {
	Latency time.Duration
	Fail    bool
}

// FaultPolicy decides how long a call waits and whether it fails. Implementations
// must be safe for concurrent use.
type FaultPolicy interface {
	Decide(write bool) Decision
}

// FixedPolicy always returns the same decision. Fail applies to every call,
// FailReads and FailWrites to one kind only.
type FixedPolicy struct {
	Latency    time.Duration
	Fail       bool
	FailReads  bool
	FailWrites bool
}

func (p FixedPolicy) Decide(write bool) Decision {
	fail := p.Fail
	if write {
		fail = fail || p.FailWrites
	} else {
		fail = fail || p.FailReads
	}
	return Decision{Latency: p.Latency, Fail: fail}
}

// RandomPolicy draws latency uniformly from [min, max) and fails calls with an
// independent probability per kind.
type RandomPolicy struct {
	mu               sync.Mutex
	rand             *rand.Rand
	latency          *jitterbug.Uniform
	min              time.Duration
	max              time.Duration
	readFailureRate  float64
	writeFailureRate float64
}

type RandomPolicyConfig struct {
	LatencyMin       time.Duration
	LatencyMax       time.Duration
	ReadFailureRate  float64
	WriteFailureRate float64
	// Seed 0 seeds from the clock.
	Seed int64
}

func NewRandomPolicy(cfg RandomPolicyConfig) *RandomPolicy {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	return &RandomPolicy{
		rand:             r,
		latency:          &jitterbug.Uniform{Source: r},
		min:              cfg.LatencyMin,
		max:              cfg.LatencyMax,
		readFailureRate:  cfg.ReadFailureRate,
		writeFailureRate: cfg.WriteFailureRate,
	}
}

func (p *RandomPolicy) Decide(write bool) Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	latency := p.min
	if p.max > p.min {
		latency += p.latency.Jitter(p.max - p.min)
	}

	rate := p.readFailureRate
	if write {
		rate = p.writeFailureRate
	}

	return Decision{Latency: latency, Fail: p.rand.Float64() < rate}
}
