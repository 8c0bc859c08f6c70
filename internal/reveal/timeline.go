package reveal

import (
	"context"
	"log"
	"strings"
	"time"

	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/prompts"
	"catspark/internal/util/jsonutil"
)

// TimelineDays is the diary length every timeline settles at.
const TimelineDays = 7

// DefaultTimelineTimeout bounds the diary generation request. Whichever
// settles first, generator or timer, decides the content.
const DefaultTimelineTimeout = 6 * time.Second

// Timeline produces the 7-day diary for one session. The generator's
// output is only trusted after shape validation; a short array, malformed
// JSON, an error or the timeout all yield the composed template instead.
// Individual entries with blank fields are backfilled from the template
// so no day ever renders empty.
func (c *Coordinator) Timeline(ctx context.Context) []persona.TimelineEntry {
	tmpl := c.lib.ComposeTimeline(c.category, c.secondary, c.catName, c.profile)

	out := c.generateTimeline(ctx, tmpl)
	c.mu.Lock()
	c.timeline = out
	c.mu.Unlock()
	return out
}

func (c *Coordinator) generateTimeline(ctx context.Context, tmpl []persona.TimelineEntry) []persona.TimelineEntry {
	if c.textGen == nil {
		return tmpl
	}
	ctx, cancel := context.WithTimeout(ctx, c.timelineTimeout)
	defer cancel()

	raw, err := c.textGen.GenerateText(
		llm.WithKind(ctx, llm.KindTimeline),
		prompts.Timeline(c.promptContext("")),
		llm.TextOptions{Temperature: 0.8, JSONOutput: true},
	)
	if err != nil {
		log.Printf("reveal: timeline generation failed, using template: %v", err)
		return tmpl
	}

	var entries []persona.TimelineEntry
	if err := jsonutil.UnmarshalLenient(raw, &entries); err != nil {
		log.Printf("reveal: timeline output unparseable, using template: %v", err)
		return tmpl
	}
	if len(entries) < TimelineDays {
		log.Printf("reveal: timeline has %d entries, want %d, using template", len(entries), TimelineDays)
		return tmpl
	}

	out := make([]persona.TimelineEntry, TimelineDays)
	copy(out, entries[:TimelineDays])
	for i := range out {
		out[i].Day = i + 1
		if strings.TrimSpace(out[i].Text) == "" {
			out[i].Text = tmpl[i].Text
		}
		if strings.TrimSpace(out[i].Emoji) == "" {
			out[i].Emoji = tmpl[i].Emoji
		}
	}
	return out
}
