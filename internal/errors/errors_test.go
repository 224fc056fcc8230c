package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := Wrap(errors.New("disk full"), CodeMemoryStoreFailed, "cannot save note", CategorySystem)
	assert.Equal(t, "[MEMORY_STORE_FAILED] cannot save note: disk full", err.Error())
	assert.Equal(t, "system", err.Category.String())
	assert.Nil(t, Wrap(nil, CodeMemoryStoreFailed, "x", CategorySystem))
}

func TestAppError_Is(t *testing.T) {
	inner := errors.New("boom")
	err := fmt.Errorf("turn: %w", Wrap(inner, CodeNetworkTimeout, "timed out", CategoryTemporary))

	assert.ErrorIs(t, err, inner)
	assert.ErrorIs(t, err, &AppError{Code: CodeNetworkTimeout})
	assert.NotErrorIs(t, err, &AppError{Code: CodeNetworkUnavailable})
	assert.Equal(t, CodeNetworkTimeout, GetCode(err))
	assert.Equal(t, CategoryTemporary, GetCategory(err))
	assert.Equal(t, "", GetCode(inner))
}

func TestConstructors(t *testing.T) {
	assert.True(t, Temporary(CodeNetworkTimeout, "t").Retryable)
	assert.False(t, Permanent(CodeRemoteBadBody, "p").Retryable)
	assert.False(t, User(CodeValidationFailed, "u").Retryable)

	rl := RateLimit(CodeRemoteRateLimit, "slow down", 2*time.Second)
	assert.True(t, IsRetryable(rl))
	assert.Equal(t, 2*time.Second, GetRetryAfter(rl))

	assert.True(t, IsRetryable(errors.New("unknown")))
	assert.False(t, IsRetryable(nil))
}

func TestWrap_KeepsRetryHints(t *testing.T) {
	rl := RateLimit(CodeRemoteRateLimit, "slow down", time.Second)
	err := Wrap(rl, CodeNetworkUnavailable, "dictionary unavailable", CategorySystem)

	assert.True(t, err.Retryable)
	assert.Equal(t, time.Second, GetRetryAfter(err))
	assert.Equal(t, rl.Suggestions, err.Suggestions)
	assert.Equal(t, "unknown", Category(42).String())
}

func TestBuilder_DefaultsToSystem(t *testing.T) {
	err := NewBuilder(CodeHandlerNotFound, "handlers not registered").Build()
	assert.Equal(t, CategorySystem, err.Category)
	assert.False(t, IsRetryable(err))
}

func TestBuilder(t *testing.T) {
	err := NewBuilder(CodeCatalogInvalid, "unknown func").
		User().
		WithSuggestion("Known funcs: make_joke").
		WithContext("intent", "joke").
		Build()

	assert.Equal(t, CategoryUser, err.Category)
	assert.Equal(t, "joke", err.Context["intent"])
	assert.Equal(t, "unknown func\n\nSuggestions:\n  - Known funcs: make_joke", FormatUserMessage(err))
	assert.Equal(t, "plain", FormatUserMessage(errors.New("plain")))
}

func TestDo_RetriesTemporary(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), FastPolicy(), func() (string, error) {
		calls++
		if calls == 1 {
			return "", Temporary(CodeRemoteBadStatus, "503")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		return User(CodeWordNotFound, "no such word")
	})
	assert.Equal(t, CodeWordNotFound, GetCode(err))
	assert.Equal(t, 1, calls)
}

func TestDo_Exhausted(t *testing.T) {
	calls := 0
	policy := &Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1, RetryIf: IsRetryable}
	err := Do(context.Background(), policy, func() error {
		calls++
		return Temporary(CodeNetworkUnavailable, "down")
	})
	assert.ErrorContains(t, err, "max retries exceeded")
	assert.Equal(t, CodeNetworkUnavailable, GetCode(err))
	assert.Equal(t, 3, calls)
}

func TestDo_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := &Policy{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1, RetryIf: IsRetryable}

	calls := 0
	start := time.Now()
	err := Do(ctx, policy, func() error {
		calls++
		cancel()
		return Temporary(CodeNetworkUnavailable, "down")
	})
	assert.Equal(t, CodeNetworkUnavailable, GetCode(err))
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCircuitBreaker(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewCircuitBreaker("test", &CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute, HalfOpenAttempts: 1})
	cb.now = func() time.Time { return now }

	fail := func() (int, error) { return 0, Temporary(CodeRemoteBadStatus, "502") }
	succeed := func() (int, error) { return 1, nil }
	miss := func() (int, error) { return 0, User(CodeWordNotFound, "no such word") }

	_, _ = ExecuteWithResult(cb, fail)
	_, _ = ExecuteWithResult(cb, miss)
	assert.Equal(t, StateClosed, cb.State(), "user errors do not count")

	_, _ = ExecuteWithResult(cb, fail)
	assert.Equal(t, StateOpen, cb.State())

	_, err := ExecuteWithResult(cb, succeed)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	v, err := ExecuteWithResult(cb, succeed)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, StateClosed, cb.State())

	cb.Reset()
	v, err = ExecuteWithResult[int](nil, succeed)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestDo_HonoursRetryAfter(t *testing.T) {
	policy := &Policy{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Second, Multiplier: 1, RetryIf: IsRetryable}
	var first time.Time
	var gap time.Duration
	err := Do(context.Background(), policy, func() error {
		if first.IsZero() {
			first = time.Now()
			return RateLimit(CodeRemoteRateLimit, "429", 30*time.Millisecond)
		}
		gap = time.Since(first)
		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, gap, 30*time.Millisecond)
}
