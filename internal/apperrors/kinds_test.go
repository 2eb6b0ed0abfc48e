package apperrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryInvariants asserts the universal properties every error kind
// must satisfy: http_status in [400,504], category in the closed set, and
// retryable kinds carrying enough retry metadata to act on.
func TestRegistryInvariants(t *testing.T) {
	validCategories := map[Category]bool{}
	for _, c := range Categories() {
		validCategories[c] = true
	}

	for _, kind := range AllKinds() {
		t.Run(string(kind), func(t *testing.T) {
			meta := ForKind(kind)
			assert.GreaterOrEqual(t, meta.HTTPStatus, 400, "http_status must be >= 400")
			assert.LessOrEqual(t, meta.HTTPStatus, 504, "http_status must be <= 504")
			assert.True(t, validCategories[meta.Category], "category %q must be in the closed set", meta.Category)

			retry := RetryFor(kind, RetryContext{})
			if retry.Retryable {
				hasStrategy := retry.BackoffStrategy != nil
				hasAction := retry.RetryAfterAction != ""
				assert.True(t, hasStrategy || retry.RetryAfterSeconds != nil || hasAction,
					"retryable kind must include a strategy, retry_after_seconds, or retry_after_action")
			}
		})
	}
}

func TestForKindPanicsOnUnregistered(t *testing.T) {
	assert.Panics(t, func() {
		ForKind(Kind("NOT_A_REAL_KIND"))
	})
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err1 := New(KindInsufficientBalance, "short by 10", nil)
	err2 := New(KindInsufficientBalance, "different message", nil)
	err3 := New(KindAccountNotFound, "no account", nil)

	assert.ErrorIs(t, err1, err2)
	assert.False(t, err1.Is(err3))
}

func TestKindOfDefaultsToInternalError(t *testing.T) {
	require.Equal(t, KindInternalError, KindOf(assertErr{}))
	require.Equal(t, KindAccountNotFound, KindOf(New(KindAccountNotFound, "x", nil)))
}

type assertErr struct{}

func (assertErr) Error() string { return "plain error" }

func TestRetryForRateLimitedDefaultsTo60Seconds(t *testing.T) {
	retry := RetryFor(KindRateLimited, RetryContext{})
	require.NotNil(t, retry.RetryAfterSeconds)
	assert.Equal(t, 60, *retry.RetryAfterSeconds)
	assert.Equal(t, BackoffFixed, *retry.BackoffStrategy)
}

func TestRetryForIdempotencyConflictIsNotRetryable(t *testing.T) {
	retry := RetryFor(KindIdempotencyKeyConflict, RetryContext{})
	assert.False(t, retry.Retryable)
}

func TestSuggestedActionsForInsufficientBalanceIncludesTopUp(t *testing.T) {
	actions := SuggestedActionsFor(KindInsufficientBalance, map[string]any{"shortfall": "994999.00"})
	require.NotEmpty(t, actions)
	assert.Equal(t, "top_up_account", actions[0].Action)
	assert.Equal(t, "994999.00", actions[0].Fields["shortfall"])
}
