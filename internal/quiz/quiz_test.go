package quiz

import (
	"errors"
	"testing"

	"catspark/internal/tester"
)

func TestClassifyAllFirstOptions(t *testing.T) {
	s := NewScorer(Scenarios())
	// Option 0 of every scenario is storm-dominant (weight 3), so five of
	// them give storm a gap well above the purity threshold.
	got, err := s.Classify([]int{0, 0, 0, 0, 0})
	tester.NoErr(t, err)
	tester.Eq(t, got.Primary, Storm)
	tester.True(t, got.IsPure, "expected pure classification")
	tester.False(t, got.HasSecondary(), "pure result must not carry a secondary")
}

func TestClassifyDeterministic(t *testing.T) {
	s := NewScorer(Scenarios())
	answers := []int{1, 3, 2, 0, 1}
	first, err := s.Classify(answers)
	tester.NoErr(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Classify(answers)
		tester.NoErr(t, err)
		tester.Eq(t, again, first)
	}
}

func TestClassifyMixedResult(t *testing.T) {
	s := NewScorer([]Scenario{
		{Options: []Option{{Scores: map[Category]int{Storm: 3}}}},
		{Options: []Option{{Scores: map[Category]int{Moon: 2}}}},
	})
	got, err := s.Classify([]int{0, 0})
	tester.NoErr(t, err)
	tester.Eq(t, got.Primary, Storm)
	tester.Eq(t, got.Secondary, Moon)
	tester.False(t, got.IsPure, "gap of 1 is below the purity threshold")
}

func TestClassifyGapExactlyAtThreshold(t *testing.T) {
	s := NewScorer([]Scenario{
		{Options: []Option{{Scores: map[Category]int{Sun: 3}}}},
	})
	got, err := s.Classify([]int{0})
	tester.NoErr(t, err)
	tester.Eq(t, got.Primary, Sun)
	tester.True(t, got.IsPure, "gap == threshold counts as pure")
}

func TestClassifyTieBreakCanonicalOrder(t *testing.T) {
	// All zero scores: every category ties. Canonical order wins.
	s := NewScorer([]Scenario{
		{Options: []Option{{Scores: map[Category]int{}}}},
	})
	got, err := s.Classify([]int{0})
	tester.NoErr(t, err)
	tester.Eq(t, got.Primary, Storm)
	tester.Eq(t, got.Secondary, Moon)
}

func TestClassifyInvalidInput(t *testing.T) {
	s := NewScorer(Scenarios())

	_, err := s.Classify([]int{0, 0})
	if !errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("wrong length: expected ErrInvalidAnswers, got %v", err)
	}

	_, err = s.Classify([]int{0, 0, 0, 0, 9})
	if !errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("out of range: expected ErrInvalidAnswers, got %v", err)
	}

	_, err = s.Classify([]int{0, 0, 0, 0, -1})
	if !errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("negative index: expected ErrInvalidAnswers, got %v", err)
	}
}
