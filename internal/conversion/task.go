package conversion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the lifecycle stage of a Task
type State int

const (
	StatePending State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RetryPolicy bounds how often a conversion is attempted. Attempt n waits
// n*Backoff before running again.
type RetryPolicy struct {
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy tries three times with a two second linear backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}
}

// Task is one running conversion
type Task struct {
	src string
	log zerolog.Logger

	mu       sync.Mutex
	state    State
	attempts int
	result   string
	err      error

	done chan struct{}
}

// TaskOption configures a Task
type TaskOption func(*Task)

// WithLogger sets the task logger
func WithLogger(log zerolog.Logger) TaskOption {
	return func(t *Task) {
		t.log = log
	}
}

// Start runs converter on src in a new goroutine. Cancelling ctx stops
// retries and fails the task with the context error.
func Start(ctx context.Context, converter Converter, src string, policy RetryPolicy, opts ...TaskOption) *Task {
	t := &Task{
		src:  src,
		log:  zerolog.Nop(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	go t.run(ctx, converter, policy)
	return t
}

func (t *Task) run(ctx context.Context, converter Converter, policy RetryPolicy) {
	defer close(t.done)

	t.setState(StateRunning)

	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
retry:
	for i := 0; i < attempts; i++ {
		t.mu.Lock()
		t.attempts++
		t.mu.Unlock()

		out, err := converter.Convert(ctx, t.src)
		if err == nil {
			t.finish(out, nil)
			t.log.Info().Str("source", t.src).Str("pdf", out).Int("attempts", i+1).Msg("conversion succeeded")
			return
		}
		lastErr = err

		if IsPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || i == attempts-1 {
			break retry
		}

		t.log.Warn().Err(err).Str("source", t.src).Int("attempt", i+1).Msg("conversion failed, retrying")

		timer := time.NewTimer(time.Duration(i+1) * policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			lastErr = ctx.Err()
			break retry
		case <-timer.C:
		}
	}

	t.finish("", lastErr)
	t.log.Error().Err(lastErr).Str("source", t.src).Msg("conversion failed")
}

func (t *Task) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Task) finish(result string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = result
	t.err = err
	if err != nil {
		t.state = StateFailed
	} else {
		t.state = StateSucceeded
	}
}

// Source returns the path being converted
func (t *Task) Source() string {
	return t.src
}

// State returns the current lifecycle stage
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Attempts returns how many conversion attempts have started
func (t *Task) Attempts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

// Done is closed when the task has succeeded or failed
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done and returns the PDF
// path or the final error
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}
