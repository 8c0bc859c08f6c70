// Package session owns one user's walk through the experience: the
// linear stage machine, the data each stage hands forward, and the
// persistence of finished sessions. Stages never cycle; the only way
// back is a full reset that discards everything.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"catspark/internal/conversation"
	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/reveal"
)

// Stage is a position in the linear session flow.
type Stage string

const (
	StageWelcome      Stage = "welcome"
	StageTest         Stage = "test"
	StageResult       Stage = "result"
	StageProfile      Stage = "profile"
	StageConversation Stage = "conversation"
	StageTimeline     Stage = "timeline"
	StageReveal       Stage = "reveal"
	StageExit         Stage = "exit"
)

var stageOrder = []Stage{
	StageWelcome, StageTest, StageResult, StageProfile,
	StageConversation, StageTimeline, StageReveal, StageExit,
}

var stageIndex = func() map[Stage]int {
	m := make(map[Stage]int, len(stageOrder))
	for i, s := range stageOrder {
		m[s] = i
	}
	return m
}()

var (
	// ErrTransition reports an advance that skips or revisits a stage.
	ErrTransition = errors.New("session: invalid stage transition")
	// ErrPrecondition reports a transition whose collected inputs are
	// missing, like entering the test without a display name.
	ErrPrecondition = errors.New("session: stage precondition not met")
	// ErrStale reports an async resolution that belongs to an epoch the
	// session has since left behind.
	ErrStale = errors.New("session: stale resolution discarded")
)

// Session is the stage machine plus the data it carries forward. All
// mutation goes through its methods; stage components receive the data
// they need and never reach back into a later stage's state.
type Session struct {
	mu sync.Mutex

	id    string
	epoch int
	stage Stage

	catName   string
	photo     []byte
	photoMIME string
	caption   string

	result  quiz.Classification
	scored  bool
	profile persona.Profile

	conv  *conversation.Orchestrator
	coord *reveal.Coordinator

	timeline []persona.TimelineEntry
	bundle   reveal.Bundle
	survey   Survey

	createdAt time.Time
	updatedAt time.Time
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		epoch:     1,
		stage:     StageWelcome,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Epoch identifies the current incarnation of the session. Async work
// captures it at launch and presents it again when resolving; a reset in
// between invalidates the resolution.
func (s *Session) Epoch() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// advance moves from exactly `from` to the next stage in order.
func (s *Session) advance(from Stage) error {
	if s.stage != from {
		return fmt.Errorf("%w: at %s, expected %s", ErrTransition, s.stage, from)
	}
	s.stage = stageOrder[stageIndex[from]+1]
	s.updatedAt = time.Now()
	return nil
}

// Begin collects the display name (and optional photo) and enters the
// test. A blank name fails the precondition.
func (s *Session) Begin(catName string, photo []byte, photoMIME string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	catName = strings.TrimSpace(catName)
	if catName == "" {
		return fmt.Errorf("%w: display name required", ErrPrecondition)
	}
	if err := s.advance(StageWelcome); err != nil {
		return err
	}
	s.catName = catName
	s.photo = photo
	s.photoMIME = photoMIME
	return nil
}

// Classify scores the finished quiz and enters the result stage.
func (s *Session) Classify(scorer *quiz.Scorer, answers []int) (quiz.Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageTest {
		return quiz.Classification{}, fmt.Errorf("%w: at %s, expected %s", ErrTransition, s.stage, StageTest)
	}
	result, err := scorer.Classify(answers)
	if err != nil {
		return quiz.Classification{}, err
	}
	if err := s.advance(StageTest); err != nil {
		return quiz.Classification{}, err
	}
	s.result = result
	s.scored = true
	return result, nil
}

// EnterProfile acknowledges the result presentation and opens the
// profile interview.
func (s *Session) EnterProfile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advance(StageResult)
}

// SetProfile stores the interview answers and enters the conversation
// stage. The caller wires the orchestrator separately via Attach.
func (s *Session) SetProfile(p persona.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.advance(StageProfile); err != nil {
		return err
	}
	p.MBTI = persona.NormalizeMBTI(p.MBTI)
	s.profile = p
	return nil
}

// Attach hands the session its stage components. Valid once the
// conversation stage has been entered.
func (s *Session) Attach(conv *conversation.Orchestrator, coord *reveal.Coordinator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stageIndex[s.stage] < stageIndex[StageConversation] {
		return fmt.Errorf("%w: components attach at %s", ErrTransition, StageConversation)
	}
	s.conv = conv
	s.coord = coord
	return nil
}

// CompleteConversation moves on to the timeline once the orchestrator
// has reached its terminal phase.
func (s *Session) CompleteConversation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv == nil || s.conv.Phase() != conversation.PhaseDone {
		return fmt.Errorf("%w: conversation not finished", ErrPrecondition)
	}
	return s.advance(StageConversation)
}

// CompleteTimeline records the settled diary and opens the reveal stage.
func (s *Session) CompleteTimeline(entries []persona.TimelineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(entries) == 0 {
		return fmt.Errorf("%w: timeline not settled", ErrPrecondition)
	}
	if err := s.advance(StageTimeline); err != nil {
		return err
	}
	s.timeline = entries
	return nil
}

// Finish stores the artifact bundle and exit survey and terminates the
// session.
func (s *Session) Finish(bundle reveal.Bundle, survey Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.advance(StageReveal); err != nil {
		return err
	}
	s.bundle = bundle
	s.survey = survey
	return nil
}

// Reset discards all state and re-enters welcome under a new epoch.
// In-flight work from the old epoch resolves against Apply and is
// dropped there.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.stage = StageWelcome
	s.catName = ""
	s.photo = nil
	s.photoMIME = ""
	s.caption = ""
	s.result = quiz.Classification{}
	s.scored = false
	s.profile = persona.Profile{}
	s.conv = nil
	s.coord = nil
	s.timeline = nil
	s.bundle = reveal.Bundle{}
	s.survey = Survey{}
	s.updatedAt = time.Now()
}

// Apply runs fn against the session only if epoch still matches,
// serialized with every other mutation. Async completions (caption,
// generation results) deliver through here so a reset in flight makes
// them vanish instead of resurrecting dead state.
func (s *Session) Apply(epoch int, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return ErrStale
	}
	fn(s)
	s.updatedAt = time.Now()
	return nil
}

// SetCaption records the vision service's description of the photo.
// Called from Apply.
func (s *Session) SetCaption(caption string) {
	s.caption = caption
}

func (s *Session) CatName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catName
}

func (s *Session) Photo() ([]byte, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photo, s.photoMIME
}

func (s *Session) Caption() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caption
}

func (s *Session) Result() (quiz.Classification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.scored
}

func (s *Session) Profile() persona.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) Conversation() *conversation.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv
}

func (s *Session) Coordinator() *reveal.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord
}

func (s *Session) Timeline() []persona.TimelineEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline
}
