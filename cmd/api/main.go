package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catspark/internal/artifact"
	"catspark/internal/config"
	"catspark/internal/handler"
	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/server"
	"catspark/internal/session"
	"catspark/internal/telemetry"
	"catspark/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	textGen, imageGen, closer, err := buildGenerators(cfg)
	if err != nil {
		log.Fatalf("Failed to build LLM client: %v", err)
	}
	defer closer()

	store := session.Open(cfg.Session.Path, cfg.Session.DSN)
	defer store.Close()

	cards, err := buildCardStore(cfg)
	if err != nil {
		log.Fatalf("Failed to build card store: %v", err)
	}

	h := handler.New(handler.Config{
		Sessions:  session.NewManager(store),
		Scorer:    quiz.NewScorer(quiz.Scenarios()),
		Library:   persona.Default(),
		TextGen:   textGen,
		ImageGen:  imageGen,
		Captioner: vision.NewCaptioner(imageGen),
		Cards:     cards,
		Notifier:  telemetry.NewNotifier(cfg.TrackWebhookURL),
	})

	srv := server.New(cfg.Port, server.NewMux(h))

	go func() {
		log.Printf("Listening on %s (env=%s, llm=%s)", srv.Addr(), cfg.Env, textGen.Name())
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}

// buildGenerators returns the text and image generators plus a shared
// close func. Without an API key the process runs offline against the
// fake client so the flow stays demoable.
func buildGenerators(cfg *config.Config) (llm.TextGenerator, llm.ImageGenerator, func(), error) {
	if cfg.LLM.APIKey == "" {
		log.Println("GEMINI_API_KEY not set, running in offline mode")
		fake := llm.NewFakeClient()
		return fake, fake, func() {}, nil
	}

	client, err := llm.NewGeminiClient(context.Background(), llm.GeminiConfig{
		APIKey:     cfg.LLM.APIKey,
		TextModel:  cfg.LLM.TextModel,
		ImageModel: cfg.LLM.ImageModel,
		RPS:        cfg.LLM.RPS,
		Burst:      cfg.LLM.Burst,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	text := llm.Wrap(client,
		llm.Timeout(20*time.Second),
		llm.Retry(2, 500*time.Millisecond),
	)
	closer := func() {
		if err := client.Close(); err != nil {
			log.Printf("LLM client close: %v", err)
		}
	}
	return text, client, closer, nil
}

func buildCardStore(cfg *config.Config) (artifact.Store, error) {
	if !cfg.Artifact.Enabled {
		log.Println("Artifact store not configured, keeping cards in memory")
		return artifact.NewMemoryStore(), nil
	}
	return artifact.NewS3Store(artifact.S3Config{
		Endpoint:  cfg.Artifact.Endpoint,
		Region:    cfg.Artifact.Region,
		AccessKey: cfg.Artifact.AccessKey,
		SecretKey: cfg.Artifact.SecretKey,
		Bucket:    cfg.Artifact.Bucket,
		UseSSL:    cfg.Artifact.UseSSL,
	})
}
