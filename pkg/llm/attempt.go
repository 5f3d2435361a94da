package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outcome classifies a single attempt.
type Outcome int

const (
	Success Outcome = iota
	Retryable
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Retryable:
		return "retryable"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Attempt runs once. attempt is 1-based.
type Attempt[T any] func(ctx context.Context, attempt int) (T, Outcome, error)

// Policy bounds Retry. The wait before attempt n+1 is BaseDelay * 2^(n-1).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits d or until ctx is done. Nil means a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

func (p Policy) delay(attempt int) time.Duration {
	return p.BaseDelay << (attempt - 1)
}

// Retry runs fn until it succeeds, fails fatally or MaxAttempts is used
// up. It returns the number of attempts made.
func Retry[T any](ctx context.Context, p Policy, fn Attempt[T]) (T, int, error) {
	var zero T
	maxAttempts := max(p.MaxAttempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt - 1, errors.Join(err, lastErr)
		}
		val, outcome, err := fn(ctx, attempt)
		switch outcome {
		case Success:
			return val, attempt, nil
		case Fatal:
			return zero, attempt, err
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}
		d := p.delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, d, err)
		}
		if err := sleep(ctx, d); err != nil {
			return zero, attempt, errors.Join(err, lastErr)
		}
	}
	return zero, maxAttempts, lastErr
}

// FirstAvailable tries each candidate in order and returns the first that
// works. The error joins every candidate's failure.
func FirstAvailable[T any](ctx context.Context, candidates []string, try func(ctx context.Context, candidate string) (T, error)) (string, T, error) {
	var zero T
	var errs []error
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		val, err := try(ctx, c)
		if err == nil {
			return c, val, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", c, err))
	}
	if len(errs) == 0 {
		return "", zero, errors.New("no candidates")
	}
	return "", zero, errors.Join(errs...)
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
