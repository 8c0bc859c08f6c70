package handler_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"catspark/internal/conversation"
	"catspark/internal/handler"
	"catspark/internal/llm"
	"catspark/internal/quiz"
	"catspark/internal/server"
	"catspark/internal/session"
	"catspark/internal/vision"
)

func newTestServer(t *testing.T, fake *llm.FakeClient) *httptest.Server {
	t.Helper()
	store := session.New(t.TempDir() + "/sessions.json")
	h := handler.New(handler.Config{
		Sessions:  session.NewManager(store),
		Scorer:    quiz.NewScorer(quiz.Scenarios()),
		TextGen:   fake,
		ImageGen:  fake,
		Captioner: vision.NewCaptioner(fake),
	})
	srv := httptest.NewServer(server.NewMux(h))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, out := postJSON(t, srv.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := out["sessionId"].(string)
	require.NotEmpty(t, id)
	return id
}

func scriptedTimeline() string {
	var entries []map[string]any
	for day := 1; day <= 7; day++ {
		entries = append(entries, map[string]any{
			"day": day, "emoji": "🐾", "text": fmt.Sprintf("day %d of the diary", day),
		})
	}
	raw, _ := json.Marshal(entries)
	return string(raw)
}

func TestFullSessionFlow(t *testing.T) {
	fake := llm.NewFakeClient().
		Script(llm.KindGreeting, llm.FakeOutcome{Text: "mrrp. you made it home."}).
		Script(llm.KindTimeline, llm.FakeOutcome{Text: scriptedTimeline()}).
		Script(llm.KindPoem, llm.FakeOutcome{Text: "a small poem\nabout a small cat"}).
		Script(llm.KindIllustration, llm.FakeOutcome{Image: &llm.ImageData{
			Bytes:    []byte("png-bytes"),
			MIMEType: "image/png",
		}})
	srv := newTestServer(t, fake)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	resp, out := postJSON(t, base+"/begin", map[string]string{
		"catName":     "Mochi",
		"photoBase64": base64.StdEncoding.EncodeToString([]byte("not a real jpeg")),
		"photoMime":   "image/jpeg",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "test", out["stage"])

	resp, out = postJSON(t, base+"/answers", map[string]any{"answers": []int{0, 0, 0, 0, 0}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "storm", out["primary"])
	require.NotEmpty(t, out["selfIntro"])
	require.Equal(t, "result", out["stage"])

	resp, out = postJSON(t, base+"/profile/reaction", map[string]string{
		"question": "schedule", "answer": "early",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out["reaction"])

	resp, out = postJSON(t, base+"/profile", map[string]string{
		"mbti": "enfp", "schedule": "early", "energy": "full", "need": "cheer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "conversation", out["stage"])

	resp, out = postJSON(t, base+"/chat/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "mrrp. you made it home.", out["text"])
	require.Equal(t, float64(1), out["round"])

	for round := 1; round <= conversation.TotalRounds; round++ {
		resp, out = postJSON(t, base+"/chat/message", map[string]string{
			"text": fmt.Sprintf("my answer for round %d", round),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, out["text"])
	}
	require.Equal(t, true, out["done"])

	resp, out = postJSON(t, base+"/timeline", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "reveal", out["stage"])
	entries, _ := out["timeline"].([]any)
	require.Len(t, entries, 7)
	first, _ := entries[0].(map[string]any)
	require.Equal(t, "day 1 of the diary", first["text"])

	resp, out = postJSON(t, base+"/reveal", map[string]string{"style": "ink"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "a small poem\nabout a small cat", out["poem"])
	require.Equal(t, "ink", out["style"])
	require.Equal(t, false, out["poemFallback"])

	cardResp, err := http.Get(base + "/card")
	require.NoError(t, err)
	defer cardResp.Body.Close()
	require.Equal(t, http.StatusOK, cardResp.StatusCode)
	require.Equal(t, "image/png", cardResp.Header.Get("Content-Type"))

	resp, out = postJSON(t, base+"/exit", map[string]any{
		"feedback": "moved", "peakMoment": "card", "nps": 9, "cardSaved": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "exit", out["stage"])

	resp, _ = postJSON(t, base+"/contact", map[string]string{
		"nickname": "jamie", "contact": "jamie@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBeginRequiresName(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())
	id := createSession(t, srv)

	resp, _ := postJSON(t, srv.URL+"/api/sessions/"+id+"/begin", map[string]string{"catName": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnswersWrongCount(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	resp, _ := postJSON(t, base+"/begin", map[string]string{"catName": "Mochi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, base+"/answers", map[string]any{"answers": []int{0, 1}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStagesCannotBeSkipped(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	// Chat before the profile interview has attached the orchestrator.
	resp, _ := postJSON(t, base+"/chat/start", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Answers before begin.
	resp, _ = postJSON(t, base+"/answers", map[string]any{"answers": []int{0, 0, 0, 0, 0}})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Reaction before classification.
	resp, _ = postJSON(t, base+"/profile/reaction", map[string]string{"question": "mbti", "answer": "INFP"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRevealRejectedBeforeTimelineSettles(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	resp, _ := postJSON(t, base+"/begin", map[string]string{"catName": "Mochi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/answers", map[string]any{"answers": []int{0, 0, 0, 0, 0}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/profile", map[string]string{"schedule": "home"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The coordinator exists from the profile stage on, but the reveal
	// only opens after the conversation and timeline stages have passed.
	resp, _ = postJSON(t, base+"/reveal", map[string]string{"style": "ink"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = postJSON(t, base+"/chat/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/reveal", map[string]string{"style": "ink"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())

	resp, _ := postJSON(t, srv.URL+"/api/sessions/nope/begin", map[string]string{"catName": "Mochi"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResetReturnsToWelcome(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	resp, _ := postJSON(t, base+"/begin", map[string]string{"catName": "Mochi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := postJSON(t, base+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "welcome", out["stage"])
	// Sessions are born at epoch 1; the reset bumps to 2.
	require.Equal(t, float64(2), out["epoch"])

	// The flow restarts from the top.
	resp, out = postJSON(t, base+"/begin", map[string]string{"catName": "Momo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "test", out["stage"])
}

func TestQuizOmitsScoreWeights(t *testing.T) {
	srv := newTestServer(t, llm.NewFakeClient())

	resp, err := http.Get(srv.URL + "/api/quiz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Scenarios []struct {
			Scene   string           `json:"scene"`
			Options []map[string]any `json:"options"`
		} `json:"scenarios"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Scenarios, 5)
	for _, sc := range out.Scenarios {
		require.NotEmpty(t, sc.Scene)
		for _, opt := range sc.Options {
			require.NotContains(t, opt, "scores")
		}
	}
}

func TestChatStreamMirrorsEvents(t *testing.T) {
	fake := llm.NewFakeClient().
		Script(llm.KindGreeting, llm.FakeOutcome{Text: "hello. slow blink."})
	srv := newTestServer(t, fake)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	resp, _ := postJSON(t, base+"/begin", map[string]string{"catName": "Mochi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/answers", map[string]any{"answers": []int{0, 0, 0, 0, 0}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/profile", map[string]string{"schedule": "late"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + id + "/chat/stream"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if wsResp != nil {
		wsResp.Body.Close()
	}
	defer conn.Close()

	resp, _ = postJSON(t, base+"/chat/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev conversation.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, conversation.PhaseAwaitingUser, ev.Phase)
	require.Equal(t, "hello. slow blink.", ev.Text)
	require.Equal(t, 1, ev.Round)
}

func TestChatStreamReplaysForLateSubscriber(t *testing.T) {
	fake := llm.NewFakeClient().
		Script(llm.KindGreeting, llm.FakeOutcome{Text: "hello. slow blink."})
	srv := newTestServer(t, fake)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	resp, _ := postJSON(t, base+"/begin", map[string]string{"catName": "Mochi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/answers", map[string]any{"answers": []int{0, 0, 0, 0, 0}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/profile", map[string]string{"schedule": "late"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/chat/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = postJSON(t, base+"/chat/message", map[string]string{"text": "hi little one"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Subscribing after two turns should replay the transcript so far.
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + id + "/chat/stream"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if wsResp != nil {
		wsResp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frames []struct {
		Replay  bool   `json:"replay"`
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	}
	for i := 0; i < 3; i++ {
		var f struct {
			Replay  bool   `json:"replay"`
			Speaker string `json:"speaker"`
			Text    string `json:"text"`
		}
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
	}
	require.True(t, frames[0].Replay)
	require.Equal(t, "persona", frames[0].Speaker)
	require.Equal(t, "hello. slow blink.", frames[0].Text)
	require.Equal(t, "user", frames[1].Speaker)
	require.Equal(t, "hi little one", frames[1].Text)
	require.Equal(t, "persona", frames[2].Speaker)
	require.NotEmpty(t, frames[2].Text)
}
