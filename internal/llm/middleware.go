package llm

import (
	"context"
	"errors"
	"time"
)

// Middleware decorates a TextGenerator to inject cross-cutting concerns.
type Middleware func(TextGenerator) TextGenerator

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner TextGenerator, mws ...Middleware) TextGenerator {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// Retry retries GenerateText up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors and context cancellation stop
// the loop immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next TextGenerator) TextGenerator {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next TextGenerator
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		text, err := r.next.GenerateText(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return "", err
		}
		last = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		// No backoff after the last attempt; the caller gets the error
		// as soon as it is final.
		if i == r.max-1 {
			break
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return "", last
}

// Timeout bounds every GenerateText call with a per-call deadline, so no
// orchestration step can block past its budget even when the caller's
// context is open-ended.
func Timeout(d time.Duration) Middleware {
	return func(next TextGenerator) TextGenerator {
		return &timeLimited{next: next, d: d}
	}
}

type timeLimited struct {
	next TextGenerator
	d    time.Duration
}

func (t *timeLimited) Name() string { return t.next.Name() }
func (t *timeLimited) Close() error { return t.next.Close() }

func (t *timeLimited) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	if t.d <= 0 {
		return t.next.GenerateText(ctx, prompt, opts)
	}
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GenerateText(ctx, prompt, opts)
}
