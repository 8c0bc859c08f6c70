package llm

import (
	"context"
	"sync"
	"time"
)

// FakeOutcome scripts how the fake settles one request kind.
type FakeOutcome struct {
	Text  string
	Image *ImageData
	Err   error
	// Delay is applied before settling; a delay past the caller's
	// deadline simulates a timed-out generator.
	Delay time.Duration
}

// FakeClient returns scripted outcomes per request kind for offline and
// test use. Unscripted kinds succeed with a canned line. Safe for
// concurrent use.
type FakeClient struct {
	mu       sync.Mutex
	outcomes map[Kind]FakeOutcome
	calls    []Kind
}

func NewFakeClient() *FakeClient {
	return &FakeClient{outcomes: make(map[Kind]FakeOutcome)}
}

// Script sets the outcome for one request kind.
func (f *FakeClient) Script(kind Kind, o FakeOutcome) *FakeClient {
	f.mu.Lock()
	f.outcomes[kind] = o
	f.mu.Unlock()
	return f
}

// Calls returns the kinds seen so far, in order.
func (f *FakeClient) Calls() []Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Kind, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeClient) take(ctx context.Context) (FakeOutcome, error) {
	kind := KindFrom(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, kind)
	o, ok := f.outcomes[kind]
	f.mu.Unlock()
	if !ok {
		o = FakeOutcome{Text: "fake " + string(kind) + " output"}
	}
	if o.Delay > 0 {
		select {
		case <-time.After(o.Delay):
		case <-ctx.Done():
			return FakeOutcome{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return FakeOutcome{}, err
	}
	return o, o.Err
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	o, err := f.take(ctx)
	if err != nil {
		return "", err
	}
	return o.Text, nil
}

func (f *FakeClient) GenerateImage(ctx context.Context, prompt string, reference *ImageData) (*ImageData, error) {
	o, err := f.take(ctx)
	if err != nil {
		return nil, err
	}
	if o.Image == nil {
		return nil, ErrNoImage
	}
	return o.Image, nil
}

func (f *FakeClient) Describe(ctx context.Context, image ImageData, prompt string) (string, error) {
	o, err := f.take(ctx)
	if err != nil {
		return "", err
	}
	return o.Text, nil
}
