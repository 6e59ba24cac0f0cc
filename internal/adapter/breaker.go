package adapter

import (
	"sync"
	"time"
)

// HealthBreakerConfig holds tunable parameters for the HealthBreaker.
type HealthBreakerConfig struct {
	// FailureThreshold is the number of consecutive transport failures that
	// opens the breaker. Default: 3.
	FailureThreshold int

	// CoolOff is the duration of continuous healthy calls required after the
	// breaker opened before trading is re-enabled. Default: 30s.
	CoolOff time.Duration
}

// DefaultHealthBreakerConfig returns production-tuned defaults.
func DefaultHealthBreakerConfig() HealthBreakerConfig {
	return HealthBreakerConfig{
		FailureThreshold: 3,
		CoolOff:          30 * time.Second,
	}
}

// HealthBreaker gates trading on transport health. The adapter records the
// outcome of every call; once FailureThreshold consecutive network failures
// accumulate the breaker opens, and after the first successful call it stays
// open for CoolOff before trading is re-enabled. A manual halt overrides
// everything.
type HealthBreaker struct {
	cfg HealthBreakerConfig

	mu          sync.RWMutex
	failures    int
	open        bool
	recoveredAt time.Time

	haltMu sync.RWMutex
	halted bool

	nowFunc func() time.Time // injectable clock for testing
}

// NewHealthBreaker creates a HealthBreaker with the given configuration.
func NewHealthBreaker(cfg HealthBreakerConfig) *HealthBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultHealthBreakerConfig().FailureThreshold
	}
	if cfg.CoolOff <= 0 {
		cfg.CoolOff = DefaultHealthBreakerConfig().CoolOff
	}
	return &HealthBreaker{
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// RecordFailure notes one transport-level failure.
func (hb *HealthBreaker) RecordFailure() {
	hb.mu.Lock()
	hb.failures++
	if hb.failures >= hb.cfg.FailureThreshold {
		hb.open = true
		hb.recoveredAt = time.Time{}
	}
	hb.mu.Unlock()
}

// RecordSuccess notes one successful call. If the breaker was open, the
// cool-off window starts now.
func (hb *HealthBreaker) RecordSuccess() {
	now := hb.nowFunc()
	hb.mu.Lock()
	hb.failures = 0
	if hb.open {
		hb.open = false
		hb.recoveredAt = now
	}
	hb.mu.Unlock()
}

// ManualHalt blocks trading until Resume is called.
func (hb *HealthBreaker) ManualHalt() {
	hb.haltMu.Lock()
	hb.halted = true
	hb.haltMu.Unlock()
}

// Resume clears a manual halt. The breaker still needs to pass the failure
// and cool-off checks before CanTrade returns true.
func (hb *HealthBreaker) Resume() {
	hb.haltMu.Lock()
	hb.halted = false
	hb.haltMu.Unlock()
}

// CanTrade returns true only if no manual halt is active, the breaker is not
// open, and the cool-off period since recovery has elapsed.
func (hb *HealthBreaker) CanTrade() bool {
	hb.haltMu.RLock()
	if hb.halted {
		hb.haltMu.RUnlock()
		return false
	}
	hb.haltMu.RUnlock()

	now := hb.nowFunc()

	hb.mu.RLock()
	defer hb.mu.RUnlock()

	if hb.open {
		return false
	}
	if !hb.recoveredAt.IsZero() && now.Sub(hb.recoveredAt) < hb.cfg.CoolOff {
		return false
	}
	return true
}
