package conversion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flaky(failures int, err error) (Converter, *atomic.Int32) {
	var calls atomic.Int32
	return ConverterFunc(func(ctx context.Context, src string) (string, error) {
		if int(calls.Add(1)) <= failures {
			return "", err
		}
		return src + ".pdf", nil
	}), &calls
}

func waitTask(t *testing.T, task *Task) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return task.Wait(ctx)
}

func TestTask_Succeeds(t *testing.T) {
	converter, calls := flaky(0, nil)

	task := Start(context.Background(), converter, "caja.cdr", RetryPolicy{MaxAttempts: 3})
	out, err := waitTask(t, task)

	require.NoError(t, err)
	assert.Equal(t, "caja.cdr.pdf", out)
	assert.Equal(t, StateSucceeded, task.State())
	assert.Equal(t, 1, task.Attempts())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "caja.cdr", task.Source())
}

func TestTask_RetriesTransientFailures(t *testing.T) {
	converter, calls := flaky(2, errors.New("503 from converter"))

	task := Start(context.Background(), converter, "caja.cdr", RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
	out, err := waitTask(t, task)

	require.NoError(t, err)
	assert.Equal(t, "caja.cdr.pdf", out)
	assert.Equal(t, 3, task.Attempts())
	assert.Equal(t, int32(3), calls.Load())
}

func TestTask_GivesUpAfterMaxAttempts(t *testing.T) {
	transient := errors.New("timeout")
	converter, calls := flaky(10, transient)

	task := Start(context.Background(), converter, "caja.cdr", RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond})
	_, err := waitTask(t, task)

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, StateFailed, task.State())
	assert.Equal(t, int32(2), calls.Load())
}

func TestTask_PermanentStopsRetrying(t *testing.T) {
	bad := errors.New("corrupt upload")
	converter, calls := flaky(10, Permanent(bad))

	task := Start(context.Background(), converter, "caja.cdr", RetryPolicy{MaxAttempts: 5, Backoff: time.Millisecond})
	_, err := waitTask(t, task)

	assert.ErrorIs(t, err, bad)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateFailed, task.State())
}

func TestTask_CancelDuringBackoff(t *testing.T) {
	converter, calls := flaky(10, errors.New("busy"))
	ctx, cancel := context.WithCancel(context.Background())

	task := Start(ctx, converter, "caja.cdr", RetryPolicy{MaxAttempts: 5, Backoff: time.Hour})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	_, err := waitTask(t, task)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, task.Attempts())
}

func TestTask_ZeroPolicyRunsOnce(t *testing.T) {
	converter, calls := flaky(10, errors.New("down"))

	task := Start(context.Background(), converter, "caja.cdr", RetryPolicy{})
	<-task.Done()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateFailed, task.State())
}

func TestTask_WaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	converter := ConverterFunc(func(ctx context.Context, src string) (string, error) {
		<-block
		return src, nil
	})

	task := Start(context.Background(), converter, "caja.cdr", DefaultRetryPolicy())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotEqual(t, StateSucceeded, task.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
