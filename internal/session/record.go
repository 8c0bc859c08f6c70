package session

import (
	"strings"
	"time"

	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/types"
)

// Survey is the exit questionnaire. Every field is optional; the zero
// value is a user who skipped straight out.
type Survey struct {
	Feedback   string `json:"feedback,omitempty"`   // moved | okay | meh
	PeakMoment string `json:"peakMoment,omitempty"` // personality | chat | timeline | card
	PeakExtra  string `json:"peakExtra,omitempty"`
	NPS        *int   `json:"nps,omitempty"` // 0..10
	Nickname   string `json:"nickname,omitempty"`
	Contact    string `json:"contact,omitempty"`
	CardSaved  bool   `json:"cardSaved"`
	CardShared bool   `json:"cardShared"`
}

// Record is the serializable snapshot a Store keeps. Illustration bytes
// live in the artifact store; the record carries only the key.
type Record struct {
	ID    string `json:"id"`
	Stage Stage  `json:"stage"`
	Epoch int    `json:"epoch"`

	CatName string `json:"catName"`
	Caption string `json:"caption,omitempty"`

	Primary   quiz.Category `json:"primary,omitempty"`
	Secondary quiz.Category `json:"secondary,omitempty"`
	IsPure    bool          `json:"isPure"`

	Profile persona.Profile `json:"profile"`

	Transcript []types.Entry           `json:"transcript,omitempty"`
	Timeline   []persona.TimelineEntry `json:"timeline,omitempty"`
	Poem       string                  `json:"poem,omitempty"`
	Style      string                  `json:"style,omitempty"`
	CardKey    string                  `json:"cardKey,omitempty"`

	Survey Survey `json:"survey"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func normalizeRecord(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	if r.Stage == "" {
		r.Stage = StageWelcome
	}
	if r.Epoch <= 0 {
		r.Epoch = 1
	}
	return r
}

// Snapshot captures the session's persistable state.
func (s *Session) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := Record{
		ID:        s.id,
		Stage:     s.stage,
		Epoch:     s.epoch,
		CatName:   s.catName,
		Caption:   s.caption,
		Profile:   s.profile,
		Timeline:  s.timeline,
		Poem:      s.bundle.Poem,
		Style:     s.bundle.Style,
		Survey:    s.survey,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.scored {
		r.Primary = s.result.Primary
		r.Secondary = s.result.Secondary
		r.IsPure = s.result.IsPure
	}
	if s.conv != nil {
		r.Transcript = s.conv.Transcript()
	}
	return r
}
