// Package reveal coordinates the artifact generations that close a
// session: the 7-day diary, then the keepsake poem and illustration. Its
// contract is that the user is never shown a half-rendered or
// indefinitely-spinning result; every artifact has a deterministic
// fallback and the reveal moment is bounded on both sides by dwell
// timers.
package reveal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/prompts"
	"catspark/internal/quiz"
	"catspark/internal/types"
)

// Presentation states of the reveal phase.
type State string

const (
	StateStyleSelect State = "style-select"
	StateGathering   State = "gathering"
	StateReveal      State = "reveal"
	StateFull        State = "full"
)

const (
	taskPoem         = "poem"
	taskIllustration = "illustration"

	// MinDwell keeps the gathering state on screen long enough that a
	// fast poem does not flash past the user.
	MinDwell = 3 * time.Second
	// MaxDwell forces the reveal with whatever content exists.
	MaxDwell = 30 * time.Second
	// fullDelay promotes reveal to full, driving staged sub-element
	// appearance only.
	fullDelay = time.Second

	// DefaultIllustrationTimeout bounds the image generation. The card
	// may land after the reveal, but a hung call must still settle the
	// task so nothing awaits it forever.
	DefaultIllustrationTimeout = 60 * time.Second
)

// ErrAlreadyStarted reports a second StartReveal on the same coordinator.
var ErrAlreadyStarted = errors.New("reveal: generation already started")

// Bundle is the artifact snapshot handed to the exit stage. Illustration
// stays nil while pending or after a failed image generation; the
// presentation layer shows a placeholder in that case.
type Bundle struct {
	Poem         string                  `json:"poem"`
	PoemFallback bool                    `json:"poemFallback"`
	Illustration *llm.ImageData          `json:"-"`
	Timeline     []persona.TimelineEntry `json:"timeline"`
	Style        string                  `json:"style"`
}

// Config assembles a Coordinator. Durations of zero take the package
// defaults; tests shrink them to keep runs fast.
type Config struct {
	TextGen  llm.TextGenerator
	ImageGen llm.ImageGenerator
	Library  persona.Library

	CatName   string
	Category  quiz.Category
	Secondary quiz.Category
	Profile   persona.Profile
	Caption   string

	Transcript *types.Transcript

	MinDwell            time.Duration
	MaxDwell            time.Duration
	TimelineTimeout     time.Duration
	IllustrationTimeout time.Duration

	// OnState observes presentation-state changes; called synchronously.
	OnState func(State)
}

// Coordinator runs the diary phase and then the reveal phase for one
// session. The poem and illustration requests are concurrent with no
// mutual ordering; only the poem settling gates readiness, so the image
// may fill in after the reveal.
type Coordinator struct {
	textGen  llm.TextGenerator
	imageGen llm.ImageGenerator
	lib      persona.Library

	catName   string
	category  quiz.Category
	secondary quiz.Category
	profile   persona.Profile
	caption   string

	transcript *types.Transcript

	minDwell            time.Duration
	maxDwell            time.Duration
	timelineTimeout     time.Duration
	illustrationTimeout time.Duration
	onState             func(State)

	mu       sync.Mutex
	state    State
	style    string
	timeline []persona.TimelineEntry

	tasks        *Set
	poem         *Task[string]
	illustration *Task[*llm.ImageData]
	started      bool
	revealOnce   sync.Once
}

func New(cfg Config) *Coordinator {
	lib := cfg.Library
	if lib == nil {
		lib = persona.Default()
	}
	c := &Coordinator{
		textGen:             cfg.TextGen,
		imageGen:            cfg.ImageGen,
		lib:                 lib,
		catName:             cfg.CatName,
		category:            cfg.Category,
		secondary:           cfg.Secondary,
		profile:             cfg.Profile,
		caption:             cfg.Caption,
		transcript:          cfg.Transcript,
		minDwell:            cfg.MinDwell,
		maxDwell:            cfg.MaxDwell,
		timelineTimeout:     cfg.TimelineTimeout,
		illustrationTimeout: cfg.IllustrationTimeout,
		onState:             cfg.OnState,
		state:               StateStyleSelect,
		tasks:               NewSet(),
	}
	if c.minDwell <= 0 {
		c.minDwell = MinDwell
	}
	if c.maxDwell <= 0 {
		c.maxDwell = MaxDwell
	}
	if c.timelineTimeout <= 0 {
		c.timelineTimeout = DefaultTimelineTimeout
	}
	if c.illustrationTimeout <= 0 {
		c.illustrationTimeout = DefaultIllustrationTimeout
	}
	return c
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) promptContext(style string) prompts.Context {
	return prompts.Context{
		CatName:    c.catName,
		Category:   c.category,
		Secondary:  c.secondary,
		StyleGuide: c.lib.Get(c.category).StyleGuide,
		Caption:    c.caption,
		Profile:    c.profile,
		Transcript: c.transcript,
		ArtStyle:   style,
	}
}

// StartReveal fires the poem and illustration requests for the confirmed
// style and enters gathering. Valid once per coordinator.
func (c *Coordinator) StartReveal(ctx context.Context, style string) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.style = style
	c.state = StateGathering
	fallback := c.lib.ComposePoem(c.category, c.secondary, c.catName, c.profile)
	c.poem = NewTask(taskPoem, fallback)
	c.illustration = NewTask[*llm.ImageData](taskIllustration, nil)
	Add(c.tasks, c.poem)
	Add(c.tasks, c.illustration)
	c.mu.Unlock()
	c.emit(StateGathering)

	pc := c.promptContext(style)
	if c.textGen != nil {
		c.poem.Start(ctx, func(ctx context.Context) (string, error) {
			text, err := c.textGen.GenerateText(llm.WithKind(ctx, llm.KindPoem), prompts.Poem(pc), llm.TextOptions{Temperature: 1.0})
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(text) == "" {
				return "", llm.ErrEmptyReply
			}
			return text, nil
		})
	} else {
		c.poem.Settle(fallback)
	}

	if c.imageGen != nil {
		c.illustration.Start(ctx, func(ctx context.Context) (*llm.ImageData, error) {
			ctx, cancel := context.WithTimeout(ctx, c.illustrationTimeout)
			defer cancel()
			return c.imageGen.GenerateImage(llm.WithKind(ctx, llm.KindIllustration), prompts.Illustration(pc), nil)
		})
	} else {
		c.illustration.Settle(nil)
	}
	return nil
}

// Ready reports whether the reveal content has settled. Only the poem
// gates readiness.
func (c *Coordinator) Ready() bool {
	return c.tasks.Ready(taskPoem)
}

// AwaitReveal blocks until the reveal transition fires: readiness plus
// the minimum dwell, or the maximum dwell bound, whichever combination
// resolves first. The transition is idempotent; concurrent and repeated
// calls all return once revealed.
func (c *Coordinator) AwaitReveal(ctx context.Context) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return errors.New("reveal: not started")
	}
	if c.state == StateReveal || c.state == StateFull {
		c.mu.Unlock()
		return nil
	}
	poemDone := c.poem.Done()
	c.mu.Unlock()

	minT := time.NewTimer(c.minDwell)
	defer minT.Stop()
	maxT := time.NewTimer(c.maxDwell)
	defer maxT.Stop()

	minElapsed := false
	for {
		select {
		case <-maxT.C:
			c.reveal()
			return nil
		case <-minT.C:
			minElapsed = true
			if c.Ready() {
				c.reveal()
				return nil
			}
		case <-poemDone:
			poemDone = nil
			if minElapsed {
				c.reveal()
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reveal flips to the reveal state exactly once and schedules the full
// promotion.
func (c *Coordinator) reveal() {
	c.revealOnce.Do(func() {
		c.mu.Lock()
		c.state = StateReveal
		c.mu.Unlock()
		c.emit(StateReveal)
		time.AfterFunc(fullDelay, func() {
			c.mu.Lock()
			if c.state != StateReveal {
				c.mu.Unlock()
				return
			}
			c.state = StateFull
			c.mu.Unlock()
			c.emit(StateFull)
		})
	})
}

// AwaitIllustration blocks until the illustration task settles and
// returns its image, nil when it failed or was never started. The image
// may settle long after the reveal; callers persist it from here.
func (c *Coordinator) AwaitIllustration(ctx context.Context) (*llm.ImageData, error) {
	c.mu.Lock()
	task := c.illustration
	c.mu.Unlock()
	if task == nil {
		return nil, errors.New("reveal: not started")
	}
	if err := c.tasks.Wait(ctx, taskIllustration); err != nil {
		return nil, err
	}
	return task.Value(), nil
}

// Bundle snapshots the artifacts. Safe to call at any point; pending
// tasks contribute their fallbacks.
func (c *Coordinator) Bundle() Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := Bundle{
		Timeline: c.timeline,
		Style:    c.style,
	}
	if c.poem != nil {
		b.Poem = c.poem.Value()
		b.PoemFallback = !c.poem.Settled() || c.poem.Fallback()
	} else {
		b.Poem = c.lib.ComposePoem(c.category, c.secondary, c.catName, c.profile)
		b.PoemFallback = true
	}
	if c.illustration != nil {
		b.Illustration = c.illustration.Value()
	}
	return b
}

func (c *Coordinator) emit(s State) {
	if c.onState != nil {
		c.onState(s)
	}
}
