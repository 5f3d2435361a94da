package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetryBackoffDoubles(t *testing.T) {
	var delays []time.Duration
	policy := Policy{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}

	_, attempts, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, Outcome, error) {
		return 0, Retryable, errors.New("busy")
	})
	if err == nil || attempts != 4 {
		t.Fatalf("attempts=%d err=%v", attempts, err)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryOutcomes(t *testing.T) {
	fatal := errors.New("bad request")
	cases := []struct {
		name         string
		outcomes     []Outcome
		wantAttempts int
		wantErr      bool
	}{
		{"success first", []Outcome{Success}, 1, false},
		{"success after retry", []Outcome{Retryable, Success}, 2, false},
		{"fatal stops", []Outcome{Fatal, Success}, 1, true},
		{"retry then fatal", []Outcome{Retryable, Fatal}, 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := Policy{MaxAttempts: 3, Sleep: func(context.Context, time.Duration) error { return nil }}
			val, attempts, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (string, Outcome, error) {
				switch o := tc.outcomes[attempt-1]; o {
				case Success:
					return "done", o, nil
				case Fatal:
					return "", o, fatal
				default:
					return "", o, errors.New("transient")
				}
			})
			if attempts != tc.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tc.wantAttempts)
			}
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !tc.wantErr && val != "done" {
				t.Errorf("val = %q", val)
			}
		})
	}
}

func TestRetryStopsWhenContextEndsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Hour,
		OnRetry:     func(int, time.Duration, error) { cancel() },
	}
	start := time.Now()
	_, attempts, err := Retry(ctx, policy, func(ctx context.Context, attempt int) (int, Outcome, error) {
		return 0, Retryable, errors.New("busy")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if time.Since(start) > time.Second {
		t.Errorf("backoff was not interrupted")
	}
}

func TestFirstAvailable(t *testing.T) {
	name, val, err := FirstAvailable(context.Background(), []string{"a", "b", "c"}, func(ctx context.Context, c string) (int, error) {
		if c == "a" {
			return 0, errors.New("down")
		}
		return len(c) * 10, nil
	})
	if err != nil || name != "b" || val != 10 {
		t.Fatalf("got %q %d %v", name, val, err)
	}

	_, _, err = FirstAvailable(context.Background(), []string{"a", "b"}, func(ctx context.Context, c string) (int, error) {
		return 0, errors.New(c + " down")
	})
	if err == nil || !strings.Contains(err.Error(), "a: a down") || !strings.Contains(err.Error(), "b: b down") {
		t.Errorf("joined error = %v", err)
	}
}
