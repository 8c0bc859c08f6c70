// Package vision turns the owner's cat photo into a one-line caption
// used to enrich later prompts. It runs once, early, off the critical
// path; a failure just means prompts go out without an appearance line.
package vision

import (
	"context"
	"log"
	"strings"
	"time"

	"catspark/internal/llm"
	"catspark/internal/prompts"
)

// DefaultTimeout bounds the caption call so a slow model cannot hold the
// session open.
const DefaultTimeout = 10 * time.Second

type Captioner struct {
	gen     llm.ImageGenerator
	timeout time.Duration
}

func NewCaptioner(gen llm.ImageGenerator) *Captioner {
	return &Captioner{gen: gen, timeout: DefaultTimeout}
}

// Caption describes the photo. Returns "" on any failure; the caller
// treats an empty caption as "no appearance context".
func (c *Captioner) Caption(ctx context.Context, photo []byte, mime string) string {
	if c == nil || c.gen == nil || len(photo) == 0 {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	caption, err := c.gen.Describe(
		llm.WithKind(ctx, llm.KindCaption),
		llm.ImageData{Bytes: photo, MIMEType: mime},
		prompts.Caption,
	)
	if err != nil {
		log.Printf("vision: caption failed: %v", err)
		return ""
	}
	return strings.TrimSpace(caption)
}
