package reveal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/tester"
	"catspark/internal/types"
)

func testTranscript() *types.Transcript {
	tr := &types.Transcript{}
	tr.Append(types.SpeakerPersona, "hi, I'm your cat now")
	tr.Append(types.SpeakerUser, "rough week, honestly")
	tr.Append(types.SpeakerPersona, "then stay on the couch with me")
	return tr
}

func newTestCoordinator(fake *llm.FakeClient, opts ...func(*Config)) *Coordinator {
	cfg := Config{
		TextGen:         fake,
		ImageGen:        fake,
		CatName:         "Mochi",
		Category:        quiz.Forest,
		Secondary:       quiz.Moon,
		Profile:         persona.Profile{MBTI: "INTJ"},
		Transcript:      testTranscript(),
		MinDwell:        20 * time.Millisecond,
		MaxDwell:        200 * time.Millisecond,
		TimelineTimeout: 100 * time.Millisecond,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return New(cfg)
}

func validTimelineJSON() string {
	entries := make([]persona.TimelineEntry, 7)
	for i := range entries {
		entries[i] = persona.TimelineEntry{Day: i + 1, Emoji: "😺", Text: fmt.Sprintf("day %d happened", i+1)}
	}
	b, _ := json.Marshal(entries)
	return string(b)
}

func TestTimelineUsesGeneratorOutput(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindTimeline, llm.FakeOutcome{Text: validTimelineJSON()})
	c := newTestCoordinator(fake)

	got := c.Timeline(context.Background())
	tester.Eq(t, 7, len(got), "length")
	tester.Eq(t, "day 3 happened", got[2].Text, "generated text kept")
}

func TestTimelineShortArrayFallsBackWholesale(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindTimeline, llm.FakeOutcome{Text: `[{"day":1,"emoji":"x","text":"only"},{"day":2,"emoji":"y","text":"three"},{"day":3,"emoji":"z","text":"entries"}]`})
	c := newTestCoordinator(fake)

	got := c.Timeline(context.Background())
	want := persona.Default().ComposeTimeline(quiz.Forest, quiz.Moon, "Mochi", persona.Profile{MBTI: "INTJ"})
	tester.Eq(t, want, got, "template used wholesale")
}

func TestTimelineTimeoutFallsBack(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindTimeline, llm.FakeOutcome{Text: validTimelineJSON(), Delay: time.Second})
	c := newTestCoordinator(fake)

	start := time.Now()
	got := c.Timeline(context.Background())
	tester.True(t, time.Since(start) < 500*time.Millisecond, "timeout enforced")
	tester.Eq(t, 7, len(got), "fallback length")
}

func TestTimelineBackfillsBlankEntries(t *testing.T) {
	entries := make([]persona.TimelineEntry, 7)
	for i := range entries {
		entries[i] = persona.TimelineEntry{Day: i + 1, Emoji: "😺", Text: "fine"}
	}
	entries[4].Text = "   "
	entries[4].Emoji = ""
	b, _ := json.Marshal(entries)

	fake := llm.NewFakeClient()
	fake.Script(llm.KindTimeline, llm.FakeOutcome{Text: string(b)})
	c := newTestCoordinator(fake)

	got := c.Timeline(context.Background())
	tmpl := persona.Default().ComposeTimeline(quiz.Forest, quiz.Moon, "Mochi", persona.Profile{MBTI: "INTJ"})
	tester.Eq(t, tmpl[4].Text, got[4].Text, "blank text backfilled")
	tester.Eq(t, tmpl[4].Emoji, got[4].Emoji, "blank emoji backfilled")
	tester.Eq(t, "fine", got[3].Text, "good entries untouched")
}

func TestRevealPoemGatesReadiness(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindPoem, llm.FakeOutcome{Text: "a small poem\nabout couches"})
	fake.Script(llm.KindIllustration, llm.FakeOutcome{Delay: 5 * time.Second})
	c := newTestCoordinator(fake)

	tester.NoErr(t, c.StartReveal(context.Background(), "ink"))
	tester.NoErr(t, c.AwaitReveal(context.Background()))

	tester.True(t, c.State() == StateReveal || c.State() == StateFull, "revealed without the image")
	b := c.Bundle()
	tester.Eq(t, "a small poem\nabout couches", b.Poem, "generated poem kept")
	tester.False(t, b.PoemFallback, "not a fallback")
	tester.True(t, b.Illustration == nil, "image still pending shows placeholder")
	tester.Eq(t, "ink", b.Style, "style carried")
}

func TestRevealPoemFailureUsesComposedFallback(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindPoem, llm.FakeOutcome{Err: errors.New("down")})
	fake.Script(llm.KindIllustration, llm.FakeOutcome{Err: errors.New("down")})
	c := newTestCoordinator(fake)

	tester.NoErr(t, c.StartReveal(context.Background(), "watercolor"))
	tester.NoErr(t, c.AwaitReveal(context.Background()))

	b := c.Bundle()
	want := persona.Default().ComposePoem(quiz.Forest, quiz.Moon, "Mochi", persona.Profile{MBTI: "INTJ"})
	tester.Eq(t, want, b.Poem, "composed fallback poem")
	tester.True(t, b.PoemFallback, "marked as fallback")
	tester.True(t, strings.TrimSpace(b.Poem) != "", "never empty")
}

func TestRevealWaitsOutMinimumDwell(t *testing.T) {
	fake := llm.NewFakeClient()
	c := newTestCoordinator(fake, func(cfg *Config) { cfg.MinDwell = 80 * time.Millisecond })

	tester.NoErr(t, c.StartReveal(context.Background(), "anime"))
	start := time.Now()
	tester.NoErr(t, c.AwaitReveal(context.Background()))
	tester.True(t, time.Since(start) >= 80*time.Millisecond, "minimum dwell enforced")
}

func TestRevealForcedAtMaximumDwell(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindPoem, llm.FakeOutcome{Delay: 5 * time.Second})
	fake.Script(llm.KindIllustration, llm.FakeOutcome{Delay: 5 * time.Second})
	c := newTestCoordinator(fake, func(cfg *Config) { cfg.MaxDwell = 100 * time.Millisecond })

	tester.NoErr(t, c.StartReveal(context.Background(), "storybook"))
	tester.NoErr(t, c.AwaitReveal(context.Background()))

	tester.True(t, c.State() == StateReveal || c.State() == StateFull, "forced reveal")
	b := c.Bundle()
	tester.True(t, strings.TrimSpace(b.Poem) != "", "fallback poem stands while task pends")
	tester.True(t, b.PoemFallback, "reported as fallback")
}

func TestRevealTransitionIdempotent(t *testing.T) {
	fake := llm.NewFakeClient()
	var mu sync.Mutex
	var states []State
	c := newTestCoordinator(fake, func(cfg *Config) {
		cfg.OnState = func(s State) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		}
	})

	tester.NoErr(t, c.StartReveal(context.Background(), "ink"))
	tester.NoErr(t, c.AwaitReveal(context.Background()))
	tester.NoErr(t, c.AwaitReveal(context.Background()))

	mu.Lock()
	reveals := 0
	for _, s := range states {
		if s == StateReveal {
			reveals++
		}
	}
	mu.Unlock()
	tester.Eq(t, 1, reveals, "reveal emitted once")
}

func TestRevealPromotesToFull(t *testing.T) {
	fake := llm.NewFakeClient()
	c := newTestCoordinator(fake)

	tester.NoErr(t, c.StartReveal(context.Background(), "ink"))
	tester.NoErr(t, c.AwaitReveal(context.Background()))

	deadline := time.Now().Add(3 * time.Second)
	for c.State() != StateFull && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	tester.Eq(t, StateFull, c.State(), "promoted after reveal")
}

func TestStartRevealOnlyOnce(t *testing.T) {
	c := newTestCoordinator(llm.NewFakeClient())
	tester.NoErr(t, c.StartReveal(context.Background(), "ink"))
	tester.ErrIs(t, c.StartReveal(context.Background(), "ink"), ErrAlreadyStarted)
}

func TestIllustrationTimeoutSettlesTask(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Script(llm.KindIllustration, llm.FakeOutcome{
		Image: &llm.ImageData{Bytes: []byte("img"), MIMEType: "image/png"},
		Delay: time.Second,
	})
	c := newTestCoordinator(fake, func(cfg *Config) { cfg.IllustrationTimeout = 30 * time.Millisecond })

	tester.NoErr(t, c.StartReveal(context.Background(), "ink"))

	// The image call hangs past its budget; the task must still settle
	// so waiters are released with the nil fallback.
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	img, err := c.AwaitIllustration(ctx)
	tester.NoErr(t, err)
	tester.True(t, img == nil, "timed-out illustration settles as nil")
}
