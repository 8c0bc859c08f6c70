// Package conversation drives the bounded chat between the persona and
// the owner. Every persona line is ideally generated; each of the four
// request kinds degrades to its template line when the generator fails,
// times out, or returns empty text, so the flow never stalls on an
// external error.
package conversation

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/prompts"
	"catspark/internal/quiz"
	"catspark/internal/types"
)

// TotalRounds is the default number of user turns in a session.
const TotalRounds = 3

// Phase is the orchestrator's position inside a conversation.
type Phase string

const (
	PhaseTyping       Phase = "persona-typing"
	PhaseAwaitingUser Phase = "awaiting-user"
	PhaseResponding   Phase = "persona-responding"
	PhaseClosing      Phase = "closing"
	PhaseDone         Phase = "done"
)

var (
	// ErrBadPhase reports an operation invoked outside its phase. This is
	// a caller bug, not a runtime condition to recover from.
	ErrBadPhase = errors.New("conversation: operation not valid in current phase")
	// ErrEmptyInput reports a blank user submission.
	ErrEmptyInput = errors.New("conversation: empty user input")
)

// Event is emitted on every phase change and persona utterance, so a
// transport (websocket stream, SSE) can mirror the conversation live.
type Event struct {
	Phase    Phase    `json:"phase"`
	Kind     llm.Kind `json:"kind,omitempty"`
	Text     string   `json:"text,omitempty"`
	Round    int      `json:"round"`
	Fallback bool     `json:"fallback,omitempty"`
}

// Listener receives orchestrator events. Called synchronously; keep it
// cheap.
type Listener func(Event)

// Config assembles everything an Orchestrator needs. Library is injected
// rather than read from a package global so tests and variants can swap
// template sets.
type Config struct {
	Generator llm.TextGenerator
	Library   persona.Library
	CatName   string
	Category  quiz.Category
	Secondary quiz.Category
	Profile   persona.Profile
	Caption   string

	// Rounds overrides TotalRounds when positive.
	Rounds   int
	Listener Listener
}

// Orchestrator serializes one session's conversation. All appends into
// the transcript happen under its lock, in submission order; the
// followup request for a round is only issued after that round's reply
// has settled.
type Orchestrator struct {
	mu sync.Mutex

	gen       llm.TextGenerator
	tmpl      persona.Template
	catName   string
	category  quiz.Category
	secondary quiz.Category
	profile   persona.Profile
	caption   string
	rounds    int
	listener  Listener

	transcript *types.Transcript
	round      int
	phase      Phase
}

func New(cfg Config) *Orchestrator {
	lib := cfg.Library
	if lib == nil {
		lib = persona.Default()
	}
	rounds := cfg.Rounds
	if rounds <= 0 {
		rounds = TotalRounds
	}
	return &Orchestrator{
		gen:        cfg.Generator,
		tmpl:       lib.Get(cfg.Category),
		catName:    cfg.CatName,
		category:   cfg.Category,
		secondary:  cfg.Secondary,
		profile:    cfg.Profile,
		caption:    cfg.Caption,
		rounds:     rounds,
		listener:   cfg.Listener,
		transcript: &types.Transcript{},
		phase:      PhaseTyping,
	}
}

func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) Round() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.round
}

// Transcript returns the entries appended so far, in turn order.
func (o *Orchestrator) Transcript() []types.Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transcript.Entries()
}

// Raw exposes the live transcript for the stage that consumes it whole
// after the conversation has reached done.
func (o *Orchestrator) Raw() *types.Transcript {
	return o.transcript
}

// QuickReplies returns the bounded reply menu for the current round.
func (o *Orchestrator) QuickReplies() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tmpl.QuickRepliesFor(o.round)
}

// Greet opens the conversation: one greeting request, template fallback,
// round set to 1. Valid exactly once, from persona-typing.
func (o *Orchestrator) Greet(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != PhaseTyping {
		return "", ErrBadPhase
	}
	text, fb := o.generate(ctx, llm.KindGreeting, "", 1)
	if fb {
		text = o.tmpl.Greeting(o.catName, o.profile)
	}
	o.transcript.Append(types.SpeakerPersona, text)
	o.round = 1
	o.phase = PhaseAwaitingUser
	o.emit(Event{Phase: o.phase, Kind: llm.KindGreeting, Text: text, Round: o.round, Fallback: fb})
	return text, nil
}

// Submit accepts the user's line for the current round and produces the
// persona's turn. For rounds before the last, the turn is the reply plus
// the followup that opens the next round, sequenced so the followup is
// requested only after the reply has settled. The last round's
// submission goes straight to closing, where the goodnight line answers
// it and ends the conversation.
func (o *Orchestrator) Submit(ctx context.Context, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", ErrEmptyInput
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != PhaseAwaitingUser {
		return "", ErrBadPhase
	}
	o.transcript.Append(types.SpeakerUser, userText)

	if o.round >= o.rounds {
		o.phase = PhaseClosing
		o.emit(Event{Phase: o.phase, Round: o.round})
		text, fb := o.generate(ctx, llm.KindGoodnight, "", o.round)
		if fb {
			text = o.tmpl.Goodnight(o.catName)
		}
		o.transcript.Append(types.SpeakerPersona, text)
		o.phase = PhaseDone
		o.emit(Event{Phase: o.phase, Kind: llm.KindGoodnight, Text: text, Round: o.round, Fallback: fb})
		return text, nil
	}

	o.phase = PhaseResponding
	o.emit(Event{Phase: o.phase, Round: o.round})

	reply, replyFB := o.generate(ctx, llm.KindReply, userText, o.round)
	if replyFB {
		reply = o.tmpl.Reply(o.catName, userText)
	}

	// The reply has settled; only now may the followup be requested.
	followup, followFB := o.generate(ctx, llm.KindFollowup, "", o.round)
	if followFB {
		followup = o.tmpl.FollowUp(o.catName, o.round)
	}

	turn := reply + "\n" + followup
	o.transcript.Append(types.SpeakerPersona, turn)
	o.round++
	o.phase = PhaseAwaitingUser
	o.emit(Event{Phase: o.phase, Kind: llm.KindReply, Text: turn, Round: o.round, Fallback: replyFB && followFB})
	return turn, nil
}

// generate runs one text request and reports whether the caller must use
// the template fallback instead. Failures are logged, never propagated.
func (o *Orchestrator) generate(ctx context.Context, kind llm.Kind, userMsg string, round int) (string, bool) {
	if o.gen == nil {
		return "", true
	}
	pc := prompts.Context{
		CatName:     o.catName,
		Category:    o.category,
		Secondary:   o.secondary,
		StyleGuide:  o.tmpl.StyleGuide,
		Caption:     o.caption,
		Profile:     o.profile,
		Transcript:  o.transcript,
		UserMessage: userMsg,
		Round:       round,
	}
	text, err := o.gen.GenerateText(llm.WithKind(ctx, kind), prompts.Chat(pc, kind), llm.TextOptions{Temperature: 0.9})
	if err != nil {
		log.Printf("conversation: %s generation failed, using template: %v", kind, err)
		return "", true
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", true
	}
	return text, false
}

func (o *Orchestrator) emit(ev Event) {
	if o.listener != nil {
		o.listener(ev)
	}
}
