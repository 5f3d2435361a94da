// Package llm is a provider-agnostic text generation client. It selects a
// working model lazily, once, and retries transient call failures with
// exponential backoff.
package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxAttempts    = 2
	DefaultBackoffBase    = time.Second
	DefaultCallTimeout    = 60 * time.Second
	DefaultInitRetryAfter = 5 * time.Minute
	DefaultSmokePrompt    = "Hello"
)

type Options struct {
	// Candidates are tried in order during model selection.
	Candidates  []string
	MaxAttempts int
	BackoffBase time.Duration
	CallTimeout time.Duration
	// InitRetryAfter is how long a failed selection is remembered before
	// the next call tries again.
	InitRetryAfter time.Duration
	SmokePrompt    string
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = DefaultBackoffBase
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.InitRetryAfter <= 0 {
		o.InitRetryAfter = DefaultInitRetryAfter
	}
	if o.SmokePrompt == "" {
		o.SmokePrompt = DefaultSmokePrompt
	}
	o.Candidates = dedupe(o.Candidates)
	return o
}

// Client owns the selected model for one provider. It is safe for
// concurrent use.
type Client struct {
	gen      Generator
	provider string
	opts     Options
	log      *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	model    string
	initErr  error
	failedAt time.Time
	disabled error

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewClient(gen Generator, opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		gen:   gen,
		opts:  opts.withDefaults(),
		log:   log.Named("llm"),
		now:   time.Now,
		sleep: SleepContext,
	}
	if gen != nil {
		c.provider = gen.Provider()
	}
	return c
}

// NewDisabledClient returns a client whose every call fails with a
// ConfigurationError carrying reason.
func NewDisabledClient(provider string, reason error, log *zap.Logger) *Client {
	c := NewClient(nil, Options{}, log)
	c.provider = provider
	c.disabled = &ConfigurationError{Provider: provider, Err: reason}
	return c
}

func (c *Client) Provider() string {
	return c.provider
}

// SelectedModel returns the model in use, or "" before selection.
func (c *Client) SelectedModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Model returns the selected model, running selection if needed.
// Concurrent first callers share a single selection run.
func (c *Client) Model(ctx context.Context) (string, error) {
	if model, ok, err := c.cached(); ok {
		return model, err
	}
	ch := c.group.DoChan("select", func() (any, error) {
		return c.selectModel()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// cached reports the outcome of an earlier selection, if one still holds.
func (c *Client) cached() (string, bool, error) {
	if c.disabled != nil {
		return "", true, c.disabled
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.model != "" {
		return c.model, true, nil
	}
	if c.initErr != nil && c.now().Sub(c.failedAt) < c.opts.InitRetryAfter {
		return "", true, c.initErr
	}
	return "", false, nil
}

// selectModel smoke-tests each candidate and keeps the first that answers.
// It runs detached from any caller's context so a cancelled caller cannot
// spoil the result for the others.
func (c *Client) selectModel() (string, error) {
	if model, ok, err := c.cached(); ok {
		return model, err
	}
	if len(c.opts.Candidates) == 0 {
		return "", c.recordFailure(errors.New("no candidate models configured"))
	}

	model, _, err := FirstAvailable(context.Background(), c.opts.Candidates,
		func(ctx context.Context, name string) (struct{}, error) {
			callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
			defer cancel()

			resp, err := c.gen.Generate(callCtx, name, c.opts.SmokePrompt)
			if err == nil {
				_, err = ExtractText(resp)
			}
			if err != nil {
				c.log.Warn("model candidate unavailable", zap.String("model", name), zap.Error(err))
				return struct{}{}, err
			}
			return struct{}{}, nil
		})
	if err != nil {
		return "", c.recordFailure(err)
	}

	c.mu.Lock()
	c.model = model
	c.initErr = nil
	c.mu.Unlock()

	c.log.Info("model selected", zap.String("provider", c.provider), zap.String("model", model))
	return model, nil
}

func (c *Client) recordFailure(err error) error {
	cfgErr := &ConfigurationError{Provider: c.provider, Tried: c.opts.Candidates, Err: err}
	c.mu.Lock()
	c.initErr = cfgErr
	c.failedAt = c.now()
	c.mu.Unlock()
	c.log.Error("model selection failed", zap.String("provider", c.provider), zap.Error(cfgErr))
	return cfgErr
}

// CallModel sends prompt to the selected model and returns its text.
// Transport failures are retried with backoff; an empty answer is not.
func (c *Client) CallModel(ctx context.Context, prompt string) (string, error) {
	model, err := c.Model(ctx)
	if err != nil {
		return "", err
	}

	policy := Policy{
		MaxAttempts: c.opts.MaxAttempts,
		BaseDelay:   c.opts.BackoffBase,
		Sleep:       c.sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.log.Warn("model call failed, retrying",
				zap.String("model", model),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(err))
		},
	}

	text, attempts, err := Retry(ctx, policy, func(ctx context.Context, attempt int) (string, Outcome, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
		defer cancel()

		resp, err := c.gen.Generate(callCtx, model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", Fatal, ctx.Err()
			}
			return "", Retryable, err
		}
		text, err := ExtractText(resp)
		if err != nil {
			return "", Fatal, err
		}
		return text, Success, nil
	})
	if err != nil {
		return "", &ModelError{Model: model, Attempts: attempts, Err: err}
	}
	return text, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
