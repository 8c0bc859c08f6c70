// Package types holds the domain values that travel between session
// stages. Data flows strictly forward: quiz answers produce a
// classification, classification plus interview produce a profile, the
// conversation produces a transcript, and the transcript feeds the
// keepsake artifacts. No stage reaches back into a later stage's state.
package types

import (
	"strings"
	"sync"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerPersona Speaker = "persona"
	SpeakerUser    Speaker = "user"
)

// Entry is one utterance of the conversation.
type Entry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Transcript is an ordered, append-only record of the conversation.
// Entries are only ever appended, never reordered or edited. Safe for
// concurrent use: the orchestrator is the only writer, but the artifact
// generations read it from their own goroutines.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// Append adds one entry. Empty text entries are a bug upstream; the
// orchestrator guarantees fallback content before appending.
func (t *Transcript) Append(speaker Speaker, text string) {
	t.mu.Lock()
	t.entries = append(t.entries, Entry{Speaker: speaker, Text: text})
	t.mu.Unlock()
}

// Entries returns a copy of the entries so far.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Render flattens the transcript into "name: line" rows for prompt
// context, using catName for persona entries and "owner" for the user.
func (t *Transcript) Render(catName string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range t.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		name := "owner"
		if e.Speaker == SpeakerPersona {
			name = catName
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(e.Text)
	}
	return b.String()
}
