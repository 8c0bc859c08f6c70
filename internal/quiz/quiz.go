package quiz

import (
	"errors"
	"fmt"
	"sort"
)

// Category is one of the four cat personality archetypes.
type Category string

const (
	Storm  Category = "storm"
	Moon   Category = "moon"
	Sun    Category = "sun"
	Forest Category = "forest"
)

// Categories lists every category in canonical declaration order.
// This order is the tie-break when two categories score equal.
var Categories = []Category{Storm, Moon, Sun, Forest}

// PurityThreshold is the minimum gap between the top two scores for a
// classification to be considered "pure" (no secondary category).
const PurityThreshold = 3

// Option is one selectable answer of a scenario with its per-category
// score weights.
type Option struct {
	Text   string
	Scores map[Category]int
}

// Scenario is one forced-choice question of the quiz.
type Scenario struct {
	Emoji   string
	Scene   string
	Options []Option
}

// ScoreVector accumulates per-category scores while folding answers.
type ScoreVector map[Category]int

// Classification is the immutable result of scoring a full answer set.
type Classification struct {
	Primary   Category `json:"primary"`
	Secondary Category `json:"secondary,omitempty"`
	IsPure    bool     `json:"is_pure"`
}

// HasSecondary reports whether a secondary category was assigned.
func (c Classification) HasSecondary() bool { return c.Secondary != "" }

var ErrInvalidAnswers = errors.New("quiz: invalid answer sequence")

// Scorer folds answer indices into a Classification over a fixed scenario
// set. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	scenarios []Scenario
}

// NewScorer builds a scorer over the given scenarios. Pass Scenarios()
// for the built-in quiz.
func NewScorer(scenarios []Scenario) *Scorer {
	return &Scorer{scenarios: scenarios}
}

// ScenarioCount returns the number of answers Classify expects.
func (s *Scorer) ScenarioCount() int { return len(s.scenarios) }

// Classify converts one answer index per scenario into a classification.
// A wrong answer count or an out-of-range index is a programmer error on
// the caller's side and returns ErrInvalidAnswers.
func (s *Scorer) Classify(answers []int) (Classification, error) {
	if len(answers) != len(s.scenarios) {
		return Classification{}, fmt.Errorf("%w: got %d answers, want %d", ErrInvalidAnswers, len(answers), len(s.scenarios))
	}

	scores := make(ScoreVector, len(Categories))
	for _, cat := range Categories {
		scores[cat] = 0
	}
	for i, idx := range answers {
		opts := s.scenarios[i].Options
		if idx < 0 || idx >= len(opts) {
			return Classification{}, fmt.Errorf("%w: answer %d out of range for scenario %d", ErrInvalidAnswers, idx, i)
		}
		for cat, w := range opts[idx].Scores {
			scores[cat] += w
		}
	}
	return classify(scores), nil
}

func classify(scores ScoreVector) Classification {
	ranked := make([]Category, len(Categories))
	copy(ranked, Categories)
	// Stable sort keeps canonical order between equal scores.
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})

	gap := scores[ranked[0]] - scores[ranked[1]]
	if gap >= PurityThreshold {
		return Classification{Primary: ranked[0], IsPure: true}
	}
	return Classification{Primary: ranked[0], Secondary: ranked[1], IsPure: false}
}
