package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catspark/internal/quiz"
	"catspark/internal/session"
	"catspark/internal/tester"
)

func outcomeFor(t *testing.T) Outcome {
	t.Helper()
	nps := 8
	return Outcome{
		Record: session.Record{
			ID:      "sess-1",
			CatName: "Mochi",
			Primary: quiz.Sun,
			Survey:  session.Survey{Feedback: "moved", PeakMoment: "chat", NPS: &nps, CardSaved: true},
		},
		Duration: 7 * time.Minute,
	}
}

func TestOutcomeCardContent(t *testing.T) {
	body := outcomeCard(outcomeFor(t))
	raw, err := json.Marshal(body)
	tester.NoErr(t, err)
	s := string(raw)

	tester.True(t, strings.Contains(s, "Mochi"), "cat name present")
	tester.True(t, strings.Contains(s, "sun"), "category present")
	tester.True(t, strings.Contains(s, "8/10"), "nps present")
	tester.True(t, strings.Contains(s, "chatting with the cat"), "peak label resolved")
	tester.True(t, strings.Contains(s, "interactive"), "card message type")
}

func TestPostDeliversCard(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got <- string(b)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	n.post(outcomeCard(outcomeFor(t)))

	select {
	case body := <-got:
		tester.True(t, strings.Contains(body, "Session outcome"), "card title delivered")
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never hit")
	}
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	var n *Notifier
	n.Track(outcomeFor(t)) // nil receiver, must not panic
	NewNotifier("").Track(outcomeFor(t))
	NewNotifier("  ").TrackSupplement(session.Record{CatName: "Mochi"})
}

func TestSupplementCard(t *testing.T) {
	r := session.Record{
		CatName: "Mochi",
		Primary: quiz.Moon,
		Survey:  session.Survey{Nickname: "sam", Contact: "sam@example.com"},
	}
	raw, err := json.Marshal(supplementCard(r))
	tester.NoErr(t, err)
	tester.True(t, strings.Contains(string(raw), "sam@example.com"), "contact present")
	tester.True(t, strings.Contains(string(raw), "Contact left"), "supplement title")
}
