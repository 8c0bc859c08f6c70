package llm

import "context"

// Kind tags a generation request with the artifact it produces
// (greeting, reply, followup, goodnight, timeline, poem, illustration,
// caption). Used by hooks, logging and the fake client.
type Kind string

const (
	KindGreeting     Kind = "greeting"
	KindReply        Kind = "reply"
	KindFollowup     Kind = "followup"
	KindGoodnight    Kind = "goodnight"
	KindTimeline     Kind = "timeline"
	KindPoem         Kind = "poem"
	KindIllustration Kind = "illustration"
	KindCaption      Kind = "caption"
)

type ctxKeyKind struct{}
type ctxKeyHook struct{}

// WithKind tags the context with the request kind.
func WithKind(ctx context.Context, kind Kind) context.Context {
	return context.WithValue(ctx, ctxKeyKind{}, kind)
}

// KindFrom returns the kind stored in the context.
func KindFrom(ctx context.Context) Kind {
	if v := ctx.Value(ctxKeyKind{}); v != nil {
		if k, ok := v.(Kind); ok {
			return k
		}
	}
	return "unknown"
}

// PromptHook observes generation calls around the wire boundary.
type PromptHook interface {
	Before(ctx context.Context, kind Kind, prompt string)
	After(ctx context.Context, kind Kind, text string, err error)
}

// WithHook attaches a PromptHook to the context used by GenerateText.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context, or nil.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}
