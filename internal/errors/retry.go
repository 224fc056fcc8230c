// Package errors provides retry utilities for remote calls.
package errors

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ============================================================
// Retry Configuration
// ============================================================

// Policy defines retry behavior.
type Policy struct {
	// MaxAttempts is the maximum number of attempts, including the first
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (default: 2)
	Multiplier float64

	// Jitter enables randomized jitter
	Jitter bool

	// RetryIf determines if an error is retryable
	RetryIf func(error) bool
}

// DefaultPolicy returns a reasonable default retry policy.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		RetryIf:      IsRetryable,
	}
}

// FastPolicy returns a policy for quick retries of short HTTP lookups.
func FastPolicy() *Policy {
	return &Policy{
		MaxAttempts:  2,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Multiplier:   1.5,
		Jitter:       true,
		RetryIf:      IsRetryable,
	}
}

// NoRetry returns a policy that never retries.
func NoRetry() *Policy {
	return &Policy{
		MaxAttempts: 1,
		Multiplier:  1.0,
		RetryIf:     func(error) bool { return false },
	}
}

// ============================================================
// Retry Function
// ============================================================

// Do executes a function with retry logic.
func Do(ctx context.Context, policy *Policy, fn func() error) error {
	_, err := DoWithResult(ctx, policy, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes a function that returns a result with retry logic.
func DoWithResult[T any](ctx context.Context, policy *Policy, fn func() (T, error)) (T, error) {
	var zero T
	if policy == nil {
		policy = DefaultPolicy()
	}

	var lastErr error
	delay := policy.InitialDelay

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, fmt.Errorf("retry canceled: %w", ctx.Err())
			case <-timer.C:
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if policy.RetryIf != nil && !policy.RetryIf(lastErr) {
			return zero, lastErr
		}
		if ctx.Err() != nil {
			return zero, lastErr
		}

		delay = time.Duration(float64(delay) * policy.Multiplier)
		if after := GetRetryAfter(lastErr); after > delay {
			delay = after
		}
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}

		if policy.Jitter {
			delay += time.Duration(rand.Float64() * float64(delay) * 0.1)
		}
	}

	if policy.MaxAttempts <= 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// ============================================================
// Circuit Breaker
// ============================================================

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Failing, reject requests
	StateHalfOpen              // Testing if service recovered
)

// ErrCircuitOpen is returned while a breaker rejects calls.
var ErrCircuitOpen = Temporary(CodeNetworkUnavailable, "service temporarily disabled after repeated failures")

// CircuitBreaker stops calling a remote API that keeps failing, so a dead
// endpoint does not cost every turn a full timeout.
type CircuitBreaker struct {
	mu sync.Mutex

	maxFailures      int
	resetTimeout     time.Duration
	halfOpenAttempts int

	state           State
	failures        int
	lastFailureTime time.Time
	halfOpenCount   int

	name string
	now  func() time.Time
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening
	MaxFailures int

	// ResetTimeout is how long to wait before trying again
	ResetTimeout time.Duration

	// HalfOpenAttempts is how many requests to allow in half-open state
	HalfOpenAttempts int
}

// DefaultCircuitBreakerConfig returns default circuit breaker config.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:      5,
		ResetTimeout:     60 * time.Second,
		HalfOpenAttempts: 1,
	}
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(name string, config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	return &CircuitBreaker{
		name:             name,
		maxFailures:      config.MaxFailures,
		resetTimeout:     config.ResetTimeout,
		halfOpenAttempts: config.HalfOpenAttempts,
		state:            StateClosed,
		now:              time.Now,
	}
}

// ExecuteWithResult runs fn through the breaker.
func ExecuteWithResult[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	if cb == nil {
		return fn()
	}
	if !cb.allowRequest() {
		return zero, Wrap(ErrCircuitOpen, CodeNetworkUnavailable, fmt.Sprintf("%s is unavailable", cb.name), CategoryTemporary)
	}

	result, err := fn()
	cb.recordResult(err)
	return result, err
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.halfOpenCount = 1
			return true
		}
		return false
	case StateHalfOpen:
		if cb.halfOpenCount < cb.halfOpenAttempts {
			cb.halfOpenCount++
			return true
		}
		return false
	}
	return false
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.state = StateClosed
		return
	}

	// User-facing misses (word not found) say nothing about service health.
	if GetCategory(err) == CategoryUser {
		return
	}

	cb.failures++
	cb.lastFailureTime = cb.now()

	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
	}
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset resets the circuit breaker to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.halfOpenCount = 0
}
