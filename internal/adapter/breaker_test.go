package adapter

import (
	"sync"
	"testing"
	"time"
)

// fakeClock provides a controllable time source for tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (fc *fakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	fc.now = fc.now.Add(d)
	fc.mu.Unlock()
}

func newTestHealthBreaker(clock *fakeClock) *HealthBreaker {
	hb := NewHealthBreaker(HealthBreakerConfig{
		FailureThreshold: 3,
		CoolOff:          2 * time.Second,
	})
	hb.nowFunc = clock.Now
	return hb
}

func TestHealthBreaker_OpensAtThreshold(t *testing.T) {
	clock := newFakeClock(time.Now())
	hb := newTestHealthBreaker(clock)

	if !hb.CanTrade() {
		t.Fatal("new breaker should allow trading")
	}

	hb.RecordFailure()
	hb.RecordFailure()
	if !hb.CanTrade() {
		t.Fatal("breaker opened below the failure threshold")
	}

	hb.RecordFailure()
	if hb.CanTrade() {
		t.Fatal("breaker should open at the failure threshold")
	}
}

func TestHealthBreaker_SuccessResetsFailureCount(t *testing.T) {
	clock := newFakeClock(time.Now())
	hb := newTestHealthBreaker(clock)

	hb.RecordFailure()
	hb.RecordFailure()
	hb.RecordSuccess()

	// The counter restarted, so two more failures stay below threshold.
	hb.RecordFailure()
	hb.RecordFailure()
	if !hb.CanTrade() {
		t.Fatal("failure count should reset after a success")
	}
}

func TestHealthBreaker_CoolOffAfterRecovery(t *testing.T) {
	clock := newFakeClock(time.Now())
	hb := newTestHealthBreaker(clock)

	hb.RecordFailure()
	hb.RecordFailure()
	hb.RecordFailure()
	if hb.CanTrade() {
		t.Fatal("breaker should be open")
	}

	// First success closes the breaker but starts the cool-off window.
	hb.RecordSuccess()
	if hb.CanTrade() {
		t.Fatal("expected CanTrade=false during cool-off")
	}

	clock.Advance(3 * time.Second)
	if !hb.CanTrade() {
		t.Fatal("expected CanTrade=true after cool-off elapsed")
	}
}

func TestHealthBreaker_ManualHalt(t *testing.T) {
	clock := newFakeClock(time.Now())
	hb := newTestHealthBreaker(clock)

	hb.ManualHalt()
	if hb.CanTrade() {
		t.Fatal("manual halt should block trading")
	}

	hb.Resume()
	if !hb.CanTrade() {
		t.Fatal("resume should re-enable trading on a healthy breaker")
	}
}

func TestHealthBreaker_ManualHaltOverridesHealth(t *testing.T) {
	clock := newFakeClock(time.Now())
	hb := newTestHealthBreaker(clock)

	hb.ManualHalt()
	hb.RecordSuccess()
	if hb.CanTrade() {
		t.Fatal("healthy calls must not clear a manual halt")
	}
}

func TestHealthBreaker_Defaults(t *testing.T) {
	hb := NewHealthBreaker(HealthBreakerConfig{})
	if hb.cfg.FailureThreshold != 3 || hb.cfg.CoolOff != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", hb.cfg)
	}
}
