package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Everything is loaded once at startup
// from environment variables; only the Gemini API key is mandatory.
type Config struct {
	// Port is the HTTP listen port.
	Port string
	// GeminiAPIKey authenticates calls to the Gemini API.
	GeminiAPIKey string

	// BaseScore is the score every message starts from (0 or 1).
	BaseScore int
	// HighThreshold is the minimum score for the top tier.
	HighThreshold int
	// MediumThreshold is the minimum score for the standard tier.
	MediumThreshold int
	// TokenThreshold gates the top tier: a scored-hard message only escalates
	// when its context token estimate exceeds this value (or is unavailable).
	TokenThreshold int

	// MaxMessages caps the total message count per conversation. 0 disables
	// the cap.
	MaxMessages int
	// ContextWindow is how many recent messages go into the prompt.
	ContextWindow int
	// GenerateTimeout is the wall-clock budget for the title+generation
	// pipeline of one request.
	GenerateTimeout time.Duration
	// GroundingEnabled turns Google Search grounding (and citations) on.
	GroundingEnabled bool
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}

	return &Config{
		Port:             envString("PORT", "8080"),
		GeminiAPIKey:     key,
		BaseScore:        envInt("ROUTER_BASE_SCORE", 0),
		HighThreshold:    envInt("ROUTER_HIGH_THRESHOLD", 10),
		MediumThreshold:  envInt("ROUTER_MEDIUM_THRESHOLD", 5),
		TokenThreshold:   envInt("ROUTER_TOKEN_THRESHOLD", 2000),
		MaxMessages:      envInt("CHAT_MAX_MESSAGES", 100),
		ContextWindow:    envInt("CHAT_CONTEXT_WINDOW", 20),
		GenerateTimeout:  time.Duration(envInt("CHAT_TIMEOUT_SECONDS", 60)) * time.Second,
		GroundingEnabled: envBool("CHAT_GROUNDING", true),
	}, nil
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
