// Package telemetry pushes session outcomes to a chat webhook as
// interactive cards. Strictly fire-and-forget: failures are logged and
// never touch the session flow.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"catspark/internal/quiz"
	"catspark/internal/session"
)

var categoryEmoji = map[quiz.Category]string{
	quiz.Storm:  "⚡",
	quiz.Moon:   "🌙",
	quiz.Sun:    "☀️",
	quiz.Forest: "🌲",
}

var peakLabels = map[string]string{
	"personality": "the personality reveal",
	"chat":        "chatting with the cat",
	"timeline":    "the timeline",
	"card":        "the keepsake card",
}

// Notifier posts outcome cards to one webhook URL. A zero URL disables
// it entirely.
type Notifier struct {
	url    string
	client *http.Client
}

func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Outcome is the tracked summary of one finished session.
type Outcome struct {
	Record   session.Record
	Duration time.Duration
}

// Track sends the main outcome card in the background.
func (n *Notifier) Track(o Outcome) {
	if n == nil || n.url == "" {
		return
	}
	go n.post(outcomeCard(o))
}

// TrackSupplement sends the follow-up card when a user leaves contact
// details after the thanks screen.
func (n *Notifier) TrackSupplement(r session.Record) {
	if n == nil || n.url == "" {
		return
	}
	go n.post(supplementCard(r))
}

func (n *Notifier) post(card map[string]any) {
	body, err := json.Marshal(card)
	if err != nil {
		log.Printf("telemetry: marshal card: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("telemetry: build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := n.client.Do(req)
	if err != nil {
		log.Printf("telemetry: webhook post failed: %v", err)
		return
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		log.Printf("telemetry: webhook status %d: %s", res.StatusCode, msg)
	}
}

func card(title, template string, lines []string) map[string]any {
	return map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title":    map[string]any{"tag": "plain_text", "content": title},
				"template": template,
			},
			"elements": []map[string]any{
				{"tag": "markdown", "content": strings.Join(lines, "\n")},
			},
		},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func outcomeCard(o Outcome) map[string]any {
	r := o.Record
	sv := r.Survey
	lines := []string{
		fmt.Sprintf("**🐱 Cat** %s", orDash(r.CatName)),
		fmt.Sprintf("**🧬 Primary** %s %s", categoryEmoji[r.Primary], r.Primary),
	}
	if r.Secondary != "" {
		lines = append(lines, fmt.Sprintf("**🎭 Secondary** %s %s", categoryEmoji[r.Secondary], r.Secondary))
	}
	lines = append(lines, fmt.Sprintf("**📝 Feedback** %s", orDash(sv.Feedback)))
	peak := "-"
	if sv.PeakMoment != "" {
		peak = sv.PeakMoment
		if label, ok := peakLabels[sv.PeakMoment]; ok {
			peak = label
		}
	}
	lines = append(lines, fmt.Sprintf("**⭐ Peak moment** %s", peak))
	if sv.PeakExtra != "" {
		lines = append(lines, fmt.Sprintf("**💬 Extra** %s", sv.PeakExtra))
	}
	if sv.NPS != nil {
		lines = append(lines, fmt.Sprintf("**📊 NPS** %d/10", *sv.NPS))
	}
	if o.Duration > 0 {
		lines = append(lines, fmt.Sprintf("**⏱ Duration** %d min", int(o.Duration.Round(time.Minute)/time.Minute)))
	}
	lines = append(lines,
		fmt.Sprintf("**💾 Card saved** %s", yesNo(sv.CardSaved)),
		fmt.Sprintf("**📤 Card shared** %s", yesNo(sv.CardShared)),
	)
	if r.Profile.MBTI != "" {
		lines = append(lines, fmt.Sprintf("**🔮 MBTI** %s", r.Profile.MBTI))
	}
	title := fmt.Sprintf("✨ Session outcome — %s", orDash(r.CatName))
	return card(title, "purple", lines)
}

func supplementCard(r session.Record) map[string]any {
	sv := r.Survey
	lines := []string{
		fmt.Sprintf("**🐱 Cat** %s", orDash(r.CatName)),
		fmt.Sprintf("**🧬 Primary** %s %s", categoryEmoji[r.Primary], r.Primary),
		fmt.Sprintf("**👤 Nickname** %s", orDash(sv.Nickname)),
		fmt.Sprintf("**📱 Contact** %s", orDash(sv.Contact)),
	}
	title := fmt.Sprintf("📮 Contact left — %s", orDash(r.CatName))
	return card(title, "green", lines)
}

func yesNo(b bool) string {
	if b {
		return "✅"
	}
	return "❌"
}
