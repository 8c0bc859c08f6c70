package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/tester"
	"catspark/internal/types"
)

func newTestOrchestrator(gen llm.TextGenerator, listener Listener) *Orchestrator {
	return New(Config{
		Generator: gen,
		CatName:   "Mochi",
		Category:  quiz.Moon,
		Profile:   persona.Profile{Energy: persona.EnergyTired},
		Listener:  listener,
	})
}

func runConversation(t *testing.T, o *Orchestrator) {
	t.Helper()
	ctx := context.Background()
	_, err := o.Greet(ctx)
	tester.NoErr(t, err)
	for i := 0; i < TotalRounds; i++ {
		_, err := o.Submit(ctx, "something about my day")
		tester.NoErr(t, err)
	}
}

func checkTranscriptShape(t *testing.T, entries []types.Entry) {
	t.Helper()
	tester.Eq(t, 2*TotalRounds+1, len(entries), "entry count")
	for i, e := range entries {
		tester.True(t, strings.TrimSpace(e.Text) != "", "entry %d non-empty", i)
		want := types.SpeakerPersona
		if i%2 == 1 {
			want = types.SpeakerUser
		}
		tester.Eq(t, want, e.Speaker, "entry %d speaker", i)
	}
}

func TestConversationHappyPath(t *testing.T) {
	o := newTestOrchestrator(llm.NewFakeClient(), nil)
	runConversation(t, o)

	tester.Eq(t, PhaseDone, o.Phase(), "terminal phase")
	checkTranscriptShape(t, o.Transcript())
}

func TestConversationAllGeneratorFailures(t *testing.T) {
	fake := llm.NewFakeClient()
	boom := errors.New("model unavailable")
	for _, k := range []llm.Kind{llm.KindGreeting, llm.KindReply, llm.KindFollowup, llm.KindGoodnight} {
		fake.Script(k, llm.FakeOutcome{Err: boom})
	}
	o := newTestOrchestrator(fake, nil)
	runConversation(t, o)

	entries := o.Transcript()
	checkTranscriptShape(t, entries)

	lib := persona.Default().Get(quiz.Moon)
	tester.Eq(t, lib.Greeting("Mochi", persona.Profile{Energy: persona.EnergyTired}), entries[0].Text, "greeting fallback")
	tester.True(t, strings.HasSuffix(entries[len(entries)-1].Text, lib.Goodnight("Mochi")), "goodnight fallback")
}

func TestGreetingFailureUsesTemplate(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindGreeting, llm.FakeOutcome{Err: errors.New("down")})
	o := newTestOrchestrator(fake, nil)

	text, err := o.Greet(context.Background())
	tester.NoErr(t, err)
	tester.True(t, strings.TrimSpace(text) != "", "fallback greeting non-empty")
	tester.Eq(t, PhaseAwaitingUser, o.Phase(), "phase after greet")
	tester.Eq(t, 1, o.Round(), "round after greet")
}

func TestEmptyGeneratorOutputFallsBack(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindGreeting, llm.FakeOutcome{Text: "   \n"})
	o := newTestOrchestrator(fake, nil)

	text, err := o.Greet(context.Background())
	tester.NoErr(t, err)
	tester.True(t, strings.TrimSpace(text) != "", "whitespace output replaced by template")
}

func TestFollowupSequencedAfterReply(t *testing.T) {
	fake := llm.NewFakeClient()
	o := newTestOrchestrator(fake, nil)
	ctx := context.Background()
	_, err := o.Greet(ctx)
	tester.NoErr(t, err)
	_, err = o.Submit(ctx, "hello")
	tester.NoErr(t, err)

	calls := fake.Calls()
	tester.Eq(t, 3, len(calls), "greeting, reply, followup")
	tester.Eq(t, llm.KindReply, calls[1], "reply issued second")
	tester.Eq(t, llm.KindFollowup, calls[2], "followup only after reply settled")
}

func TestPhaseGuards(t *testing.T) {
	o := newTestOrchestrator(llm.NewFakeClient(), nil)
	ctx := context.Background()

	_, err := o.Submit(ctx, "too early")
	tester.ErrIs(t, err, ErrBadPhase)

	_, err = o.Greet(ctx)
	tester.NoErr(t, err)
	_, err = o.Greet(ctx)
	tester.ErrIs(t, err, ErrBadPhase)

	_, err = o.Submit(ctx, "  ")
	tester.ErrIs(t, err, ErrEmptyInput)

	runRest := func() {
		for o.Phase() == PhaseAwaitingUser {
			if _, err := o.Submit(ctx, "ok"); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
	}
	runRest()
	_, err = o.Submit(ctx, "after the end")
	tester.ErrIs(t, err, ErrBadPhase)
}

func TestEventsMirrorTheFlow(t *testing.T) {
	var events []Event
	o := newTestOrchestrator(llm.NewFakeClient(), func(ev Event) { events = append(events, ev) })
	runConversation(t, o)

	tester.True(t, len(events) > 0, "events emitted")
	tester.Eq(t, PhaseAwaitingUser, events[0].Phase, "first event is the greeting settling")
	tester.Eq(t, llm.KindGreeting, events[0].Kind, "greeting kind")
	last := events[len(events)-1]
	tester.Eq(t, PhaseDone, last.Phase, "last event closes the conversation")
	tester.Eq(t, llm.KindGoodnight, last.Kind, "goodnight kind")
}

func TestQuickRepliesPerRound(t *testing.T) {
	o := newTestOrchestrator(llm.NewFakeClient(), nil)
	ctx := context.Background()
	_, err := o.Greet(ctx)
	tester.NoErr(t, err)

	r1 := o.QuickReplies()
	tester.True(t, len(r1) > 0, "round 1 menu non-empty")
	_, err = o.Submit(ctx, "hi")
	tester.NoErr(t, err)
	r2 := o.QuickReplies()
	tester.True(t, len(r2) > 0, "round 2 menu non-empty")
}
