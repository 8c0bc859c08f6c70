// Package persona holds the per-category template tables the experience
// degrades to when a generation call fails. Everything here is immutable
// configuration data handed to the orchestration components at
// construction time; nothing reads it as ambient global state.
package persona

import (
	"strings"

	"catspark/internal/quiz"
)

// Schedule is the owner's daily-rhythm answer from the profile interview.
type Schedule string

const (
	ScheduleEarly     Schedule = "early"
	ScheduleLate      Schedule = "late"
	ScheduleHome      Schedule = "home"
	ScheduleIrregular Schedule = "irregular"
)

// Energy is the owner's recent energy-level answer.
type Energy string

const (
	EnergyFull     Energy = "full"
	EnergyTired    Energy = "tired"
	EnergyMeh      Energy = "meh"
	EnergyStressed Energy = "stressed"
)

// Need is what the owner says they currently need most.
type Need string

const (
	NeedUnderstand Need = "understand"
	NeedRemind     Need = "remind"
	NeedCheer      Need = "cheer"
	NeedQuiet      Need = "quiet"
)

// Profile is collected progressively during the profile stage. Fields are
// set at most once and never retracted; the zero value means "not
// answered".
type Profile struct {
	MBTI     string   `json:"mbti,omitempty"`
	Schedule Schedule `json:"schedule,omitempty"`
	Energy   Energy   `json:"energy,omitempty"`
	Need     Need     `json:"need,omitempty"`
}

// TimelineEntry is one day of the 7-day diary.
type TimelineEntry struct {
	Day   int    `json:"day"`
	Emoji string `json:"emoji"`
	Text  string `json:"text"`
}

// NormalizeMBTI uppercases and validates a 4-letter MBTI code. Returns ""
// when the input is not a known code.
func NormalizeMBTI(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return ""
	}
	if _, ok := mbtiQuips[code]; !ok {
		return ""
	}
	return code
}

// MBTIQuip returns the one-line reaction to the owner's MBTI code, or ""
// for an unknown code.
func MBTIQuip(code string) string {
	return mbtiQuips[NormalizeMBTI(code)]
}

// MixedLabel describes a primary+secondary pairing on the result screen.
type MixedLabel struct {
	Display     string `json:"display"`
	Description string `json:"description"`
}

// MixedLabelFor looks up the display label for a non-pure classification.
func MixedLabelFor(primary, secondary quiz.Category) (MixedLabel, bool) {
	l, ok := mixedLabels[string(primary)+"-"+string(secondary)]
	return l, ok
}
