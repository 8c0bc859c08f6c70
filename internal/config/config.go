// Package config loads process configuration from flags and the
// environment, with .env support for local runs.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	LLM      LLMConfig
	Session  SessionConfig
	Artifact ArtifactConfig

	// TrackWebhookURL receives outcome cards; empty disables telemetry.
	TrackWebhookURL string
}

type LLMConfig struct {
	// APIKey empty means offline mode: every generation falls back to
	// templates via the fake client.
	APIKey     string
	TextModel  string
	ImageModel string
	RPS        float64
	Burst      int
}

type SessionConfig struct {
	// Path of the JSON file store, used when DSN is empty.
	Path string
	DSN  string
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:            *port,
		Env:             env,
		LLM:             loadLLMConfig(),
		Session:         loadSessionConfig(),
		Artifact:        loadArtifactConfig(env),
		TrackWebhookURL: strings.TrimSpace(os.Getenv("TRACK_WEBHOOK_URL")),
	}, nil
}

func loadLLMConfig() LLMConfig {
	rps := 1.0
	if raw := strings.TrimSpace(os.Getenv("LLM_RPS")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			rps = v
		}
	}
	burst := 2
	if raw := strings.TrimSpace(os.Getenv("LLM_BURST")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			burst = v
		}
	}
	return LLMConfig{
		APIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		TextModel:  strings.TrimSpace(os.Getenv("CATSPARK_TEXT_MODEL")),
		ImageModel: strings.TrimSpace(os.Getenv("CATSPARK_IMAGE_MODEL")),
		RPS:        rps,
		Burst:      burst,
	}
}

func loadSessionConfig() SessionConfig {
	path := strings.TrimSpace(os.Getenv("SESSION_STORE_PATH"))
	if path == "" {
		path = "data/sessions.json"
	}
	return SessionConfig{
		Path: path,
		DSN:  strings.TrimSpace(os.Getenv("SESSION_STORE_PG_DSN")),
	}
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "catspark-cards"),
		UseSSL:    resolveArtifactUseSSL(env),
	}
}

func resolveArtifactEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
