package llm

import (
	"context"
	"log"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It
// serves both text and image generation; both respect the shared RPS
// limiter.
type GeminiClient struct {
	cli        *genai.Client
	textModel  string
	imageModel string
	rl         *rpsLimiter
}

// GeminiConfig selects the models and throttling for one client.
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	RPS        float64
	Burst      int
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = "gemini-2.0-flash"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.0-flash-preview-image-generation"
	}
	return &GeminiClient{
		cli:        cli,
		textModel:  textModel,
		imageModel: imageModel,
		rl:         newRPSLimiter(cfg.RPS, cfg.Burst),
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.textModel }

func (g *GeminiClient) Close() error {
	g.rl.Stop()
	return nil
}

// GenerateText sends the prompt and returns the first candidate's text.
// A contentless candidate is reported as ErrEmptyReply so callers fall
// back the same way they do on transport errors.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	kind := KindFrom(ctx)
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, kind, prompt)
	}
	if err := g.rl.Acquire(ctx); err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		temp := opts.Temperature
		cfg.Temperature = &temp
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	log.Printf("LLM request (%s): %d bytes", kind, len(prompt))
	resp, err := g.cli.Models.GenerateContent(ctx, g.textModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}, cfg)
	if err != nil {
		if hook := HookFrom(ctx); hook != nil {
			hook.After(ctx, kind, "", err)
		}
		return "", err
	}
	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		if hook := HookFrom(ctx); hook != nil {
			hook.After(ctx, kind, "", ErrEmptyReply)
		}
		return "", ErrEmptyReply
	}
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, kind, text, nil)
	}
	return strings.TrimSpace(text), nil
}

// GenerateImage asks the image model for one picture; an optional
// reference photo is passed inline so the illustration can resemble the
// actual cat.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt string, reference *ImageData) (*ImageData, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return nil, err
	}

	parts := []*genai.Part{{Text: prompt}}
	if reference != nil && len(reference.Bytes) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: reference.MIMEType,
			Data:     reference.Bytes,
		}})
	}

	log.Printf("LLM request (%s): %d bytes", KindFrom(ctx), len(prompt))
	resp, err := g.cli.Models.GenerateContent(ctx, g.imageModel,
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return nil, err
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageData{
					Bytes:    part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, ErrNoImage
}

// Describe captions an image with the text model. Invoked once per
// session, out of band; the caller only ever consumes the caption string.
func (g *GeminiClient) Describe(ctx context.Context, image ImageData, prompt string) (string, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return "", err
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.textModel,
		[]*genai.Content{{Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: image.MIMEType, Data: image.Bytes}},
		}}}, nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
