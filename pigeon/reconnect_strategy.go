package pigeon

import (
	"math/rand/v2"
	"sync"
	"time"
)

// ReconnectDelayStrategy decides how long the reconnect supervisor waits
// before its next dial attempt. NextDelay is called once per attempt;
// Reset is called after a successful connection. A client owns exactly one
// realtime endpoint, so strategies carry no per-endpoint state.
type ReconnectDelayStrategy interface {
	NextDelay() (time.Duration, error)
	Reset()
}

// FixedDelayStrategy waits the same duration before every attempt. It is
// the default, driven by Config.ReconnectInterval.
type FixedDelayStrategy struct {
	delay time.Duration
}

// NewFixedDelayStrategy returns a new FixedDelayStrategy.
func NewFixedDelayStrategy(delay time.Duration) *FixedDelayStrategy {
	if delay < 0 {
		delay = 0
	}
	return &FixedDelayStrategy{delay: delay}
}

// NextDelay returns the fixed delay.
func (strategy *FixedDelayStrategy) NextDelay() (time.Duration, error) {
	return strategy.delay, nil
}

// Reset is a no-op for the fixed strategy.
func (strategy *FixedDelayStrategy) Reset() {}

// ExponentialDelayStrategy starts at a base delay and multiplies it by a
// growth factor after every attempt, capped at a maximum. An optional
// jitter fraction spreads each wait so a fleet of bots does not redial in
// lockstep after a shared outage.
type ExponentialDelayStrategy struct {
	lock    sync.Mutex
	base    time.Duration
	max     time.Duration
	factor  float64
	jitter  float64
	current time.Duration
}

// NewExponentialDelayStrategy returns a new ExponentialDelayStrategy.
// Non-positive base and max fall back to 1s and 30s; factors below 1 fall
// back to 2.
func NewExponentialDelayStrategy(base time.Duration, max time.Duration, factor float64) *ExponentialDelayStrategy {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = 30 * time.Second
	}
	if max < base {
		max = base
	}
	if factor < 1 {
		factor = 2
	}
	return &ExponentialDelayStrategy{base: base, max: max, factor: factor}
}

// SetJitter sets the jitter fraction on the receiver. Each delay is spread
// uniformly within ±fraction of its nominal value. Fractions outside [0, 1]
// are clamped.
func (strategy *ExponentialDelayStrategy) SetJitter(fraction float64) *ExponentialDelayStrategy {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	strategy.lock.Lock()
	strategy.jitter = fraction
	strategy.lock.Unlock()
	return strategy
}

// NextDelay returns the delay for the next attempt and advances the
// schedule.
func (strategy *ExponentialDelayStrategy) NextDelay() (time.Duration, error) {
	strategy.lock.Lock()
	defer strategy.lock.Unlock()

	if strategy.current == 0 {
		strategy.current = strategy.base
	} else {
		grown := time.Duration(float64(strategy.current) * strategy.factor)
		if grown > strategy.max || grown < strategy.current {
			grown = strategy.max
		}
		strategy.current = grown
	}

	delay := strategy.current
	if strategy.jitter > 0 {
		spread := strategy.jitter * float64(delay)
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
		if delay < 0 {
			delay = 0
		}
	}
	return delay, nil
}

// Reset restarts the schedule from the base delay.
func (strategy *ExponentialDelayStrategy) Reset() {
	strategy.lock.Lock()
	strategy.current = 0
	strategy.lock.Unlock()
}
