package retry

import (
	"context"
	"io"
	"log/slog"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetrier(maxRetries int) (*Retrier, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	r := New(slog.New(slog.NewTextHandler(io.Discard, nil)), maxRetries, 2*time.Second)
	r.sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return r, sleeps
}

func transientErr() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	r, sleeps := testRetrier(3)
	calls := 0

	result, err := Do(context.Background(), r, "op", func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	r, sleeps := testRetrier(3)
	calls := 0

	result, err := Do(context.Background(), r, "op", func(context.Context) (int, error) {
		calls++
		if calls <= 2 {
			return 0, transientErr()
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
	require.Len(t, *sleeps, 2)
	for _, d := range *sleeps {
		assert.Equal(t, 2*time.Second, d)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	r, sleeps := testRetrier(3)
	calls := 0
	want := transientErr()

	_, err := Do(context.Background(), r, "op", func(context.Context) (int, error) {
		calls++
		return 0, want
	})

	require.Error(t, err)
	assert.Equal(t, want, err)
	assert.Equal(t, 4, calls, "initial attempt plus MaxRetries")
	assert.Len(t, *sleeps, 3)
}

func TestDoDoesNotRetryAPIError(t *testing.T) {
	r, sleeps := testRetrier(3)
	calls := 0

	_, err := Do(context.Background(), r, "op", func(context.Context) (int, error) {
		calls++
		return 0, &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	r, sleeps := testRetrier(3)
	calls := 0

	_, err := Do(context.Background(), r, "op", func(context.Context) (int, error) {
		calls++
		return 0, context.Canceled
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestDoZeroRetries(t *testing.T) {
	r, sleeps := testRetrier(0)
	calls := 0

	_, err := Do(context.Background(), r, "op", func(context.Context) (int, error) {
		calls++
		return 0, transientErr()
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestDoStopsWhenSleepCancelled(t *testing.T) {
	r, _ := testRetrier(3)
	r.sleep = func(context.Context, time.Duration) error {
		return context.Canceled
	}
	calls := 0

	_, err := Do(context.Background(), r, "op", func(context.Context) (int, error) {
		calls++
		return 0, transientErr()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
