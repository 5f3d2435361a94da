package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeCall struct {
	Model  string
	Prompt string
	N      int
}

type fakeGenerator struct {
	mu      sync.Mutex
	counts  map[string]int
	respond func(call fakeCall) (*Response, error)
	gate    chan struct{}
}

func newFakeGenerator(respond func(call fakeCall) (*Response, error)) *fakeGenerator {
	return &fakeGenerator{counts: make(map[string]int), respond: respond}
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, model, prompt string) (*Response, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	key := model + "|" + prompt
	f.counts[key]++
	n := f.counts[key]
	f.mu.Unlock()
	return f.respond(fakeCall{Model: model, Prompt: prompt, N: n})
}

func (f *fakeGenerator) count(model, prompt string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[model+"|"+prompt]
}

func textResponse(s string) *Response {
	return &Response{Candidates: []Candidate{{Parts: []string{s}}}}
}

func newTestClient(gen Generator, candidates ...string) (*Client, *[]time.Duration) {
	c := NewClient(gen, Options{
		Candidates:  candidates,
		BackoffBase: 10 * time.Millisecond,
		CallTimeout: time.Second,
	}, nil)
	var slept []time.Duration
	var mu sync.Mutex
	c.sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
		return ctx.Err()
	}
	return c, &slept
}

func TestClientSelectsFirstWorkingCandidate(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		switch call.Model {
		case "model-a":
			return nil, errors.New("model not found")
		case "model-b":
			return &Response{}, nil
		}
		return textResponse("ok from " + call.Model), nil
	})
	c, _ := newTestClient(gen, "model-a", "model-b", "model-c", "model-a")

	text, err := c.CallModel(context.Background(), "plan a trip")
	if err != nil {
		t.Fatalf("CallModel: %v", err)
	}
	if text != "ok from model-c" {
		t.Errorf("text = %q", text)
	}
	if got := c.SelectedModel(); got != "model-c" {
		t.Errorf("selected = %q, want model-c", got)
	}
	if n := gen.count("model-a", DefaultSmokePrompt); n != 1 {
		t.Errorf("duplicate candidate probed %d times", n)
	}
}

func TestClientCachesSelection(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		return textResponse("fine"), nil
	})
	c, _ := newTestClient(gen, "model-a")

	for i := 0; i < 3; i++ {
		if _, err := c.CallModel(context.Background(), fmt.Sprintf("prompt %d", i)); err != nil {
			t.Fatalf("CallModel: %v", err)
		}
	}
	if n := gen.count("model-a", DefaultSmokePrompt); n != 1 {
		t.Errorf("smoke test ran %d times, want 1", n)
	}
}

func TestClientConcurrentFirstCallsShareSelection(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		return textResponse("fine"), nil
	})
	gen.gate = make(chan struct{})
	c, _ := newTestClient(gen, "model-a")

	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			model, err := c.Model(context.Background())
			if err == nil && model != "model-a" {
				err = fmt.Errorf("model = %q", model)
			}
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gen.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Model: %v", err)
		}
	}
	if n := gen.count("model-a", DefaultSmokePrompt); n != 1 {
		t.Errorf("selection ran %d times, want 1", n)
	}
}

func TestClientRemembersSelectionFailure(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		return nil, errors.New("permission denied")
	})
	c, _ := newTestClient(gen, "model-a", "model-b")
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.CallModel(context.Background(), "plan")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Tried) != 2 {
		t.Errorf("tried = %v", cfgErr.Tried)
	}

	now = now.Add(time.Minute)
	if _, err := c.CallModel(context.Background(), "plan"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected cached ConfigurationError, got %v", err)
	}
	if n := gen.count("model-a", DefaultSmokePrompt); n != 1 {
		t.Errorf("selection retried inside the window: %d probes", n)
	}

	now = now.Add(DefaultInitRetryAfter)
	_, _ = c.CallModel(context.Background(), "plan")
	if n := gen.count("model-a", DefaultSmokePrompt); n != 2 {
		t.Errorf("selection not retried after the window: %d probes", n)
	}
}

func TestCallModelRetriesTransientFailure(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		if call.Prompt == "plan" && call.N == 1 {
			return nil, errors.New("503 unavailable")
		}
		return textResponse("itinerary"), nil
	})
	c, slept := newTestClient(gen, "model-a")

	text, err := c.CallModel(context.Background(), "plan")
	if err != nil {
		t.Fatalf("CallModel: %v", err)
	}
	if text != "itinerary" {
		t.Errorf("text = %q", text)
	}
	if len(*slept) != 1 || (*slept)[0] != 10*time.Millisecond {
		t.Errorf("backoff = %v, want [10ms]", *slept)
	}
}

func TestCallModelGivesUpAfterMaxAttempts(t *testing.T) {
	transport := errors.New("connection reset")
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		if call.Prompt == DefaultSmokePrompt {
			return textResponse("hi"), nil
		}
		return nil, transport
	})
	c, slept := newTestClient(gen, "model-a")

	_, err := c.CallModel(context.Background(), "plan")
	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError, got %v", err)
	}
	if modelErr.Attempts != DefaultMaxAttempts || !errors.Is(err, transport) {
		t.Errorf("ModelError = %+v", modelErr)
	}
	if n := gen.count("model-a", "plan"); n != DefaultMaxAttempts {
		t.Errorf("calls = %d, want %d", n, DefaultMaxAttempts)
	}
	if len(*slept) != DefaultMaxAttempts-1 {
		t.Errorf("slept %d times", len(*slept))
	}
}

func TestCallModelEmptyResponseIsNotRetried(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		if call.Prompt == DefaultSmokePrompt {
			return textResponse("hi"), nil
		}
		return &Response{Candidates: []Candidate{{Parts: []string{"  "}}}}, nil
	})
	c, slept := newTestClient(gen, "model-a")

	_, err := c.CallModel(context.Background(), "plan")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if n := gen.count("model-a", "plan"); n != 1 {
		t.Errorf("empty response retried: %d calls", n)
	}
	if len(*slept) != 0 {
		t.Errorf("unexpected backoff %v", *slept)
	}
}

func TestCallModelHonoursCancellation(t *testing.T) {
	gen := newFakeGenerator(func(call fakeCall) (*Response, error) {
		return textResponse("hi"), nil
	})
	c, _ := newTestClient(gen, "model-a")
	if _, err := c.Model(context.Background()); err != nil {
		t.Fatalf("Model: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.CallModel(ctx, "plan"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewDisabledClient(ProviderGemini, errors.New("GEMINI_API_KEY is not set"), nil)
	_, err := c.CallModel(context.Background(), "plan")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Provider != ProviderGemini {
		t.Fatalf("expected gemini ConfigurationError, got %v", err)
	}
}

func TestCandidateModels(t *testing.T) {
	got := CandidateModels(ProviderGemini, "gemini-1.5-pro")
	want := []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-pro", "text-bison"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("CandidateModels = %v, want %v", got, want)
	}
}
