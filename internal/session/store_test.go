package session

import (
	"path/filepath"
	"testing"
	"time"

	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/reveal"
	"catspark/internal/tester"
)

func revealBundle() reveal.Bundle {
	return reveal.Bundle{Poem: "a short poem", Style: "ink"}
}

func sampleRecord(id string) Record {
	nps := 9
	return Record{
		ID:        id,
		Stage:     StageExit,
		Epoch:     1,
		CatName:   "Mochi",
		Primary:   quiz.Moon,
		Secondary: quiz.Sun,
		Profile:   persona.Profile{MBTI: "INFP"},
		Poem:      "a short poem",
		Style:     "ink",
		Survey:    Survey{Feedback: "moved", NPS: &nps},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	s := New(path)

	s.Put(sampleRecord("a"))
	s.Put(sampleRecord("b"))

	got, ok := s.Get("a")
	tester.True(t, ok, "found")
	tester.Eq(t, "Mochi", got.CatName, "name")
	tester.Eq(t, quiz.Moon, got.Primary, "category")

	// A second store over the same file sees the persisted rows.
	s2 := New(path)
	got, ok = s2.Get("b")
	tester.True(t, ok, "reloaded")
	tester.Eq(t, "moved", got.Survey.Feedback, "survey survives")
	tester.Eq(t, 2, len(s2.List()), "list")
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	s := New(path)
	s.Put(sampleRecord("a"))
	s.Delete("a")

	_, ok := s.Get("a")
	tester.False(t, ok, "deleted")
	_, ok = New(path).Get("a")
	tester.False(t, ok, "deleted on disk too")
}

func TestStoreIgnoresBlankIDs(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "sessions.json"))
	s.Put(Record{ID: "   "})
	tester.Eq(t, 0, len(s.List()), "blank id dropped")
	_, ok := s.Get("")
	tester.False(t, ok, "blank get misses")
}

func TestManagerLifecycle(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "sessions.json"))
	m := NewManager(store)

	s := m.Create()
	tester.True(t, s.ID() != "", "id assigned")
	got, ok := m.Get(s.ID())
	tester.True(t, ok, "live lookup")
	tester.Eq(t, s, got, "same session")

	tester.NoErr(t, s.Begin("Mochi", nil, ""))
	m.Persist(s)
	rec, ok := store.Get(s.ID())
	tester.True(t, ok, "persisted")
	tester.Eq(t, StageTest, rec.Stage, "snapshot stage")

	tester.True(t, m.Reset(s.ID()), "reset")
	_, ok = store.Get(s.ID())
	tester.False(t, ok, "record dropped on reset")
	tester.Eq(t, StageWelcome, s.Stage(), "live session back at welcome")

	m.Remove(s.ID())
	_, ok = m.Get(s.ID())
	tester.False(t, ok, "removed from live set")
}
