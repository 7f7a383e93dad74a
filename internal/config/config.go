package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Booking assistant
	DefaultPhoneRegion string
	BookingKeywords    []string
	ResetKeywords      []string

	// Knowledge base / retrieval
	EmbeddingProvider string // "openai", "gemini" or "none"
	OpenAIAPIKey      string
	GoogleAPIKey      string
	EmbeddingModel    string
	KnowledgeDir      string
	ChunkSize         int
	ChunkOverlap      int
	SearchTopK        int

	// Transcript store
	UseMemoryTranscript bool
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool
	SessionTTL          time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DefaultPhoneRegion: strings.ToUpper(strings.TrimSpace(getEnv("DEFAULT_PHONE_REGION", "US"))),
		BookingKeywords:    getEnvAsList("BOOKING_KEYWORDS", []string{"book", "appointment", "call me", "contact me", "schedule", "meeting"}),
		ResetKeywords:      getEnvAsList("RESET_KEYWORDS", []string{"reset", "start over", "clear", "restart"}),

		EmbeddingProvider: strings.ToLower(strings.TrimSpace(getEnv("EMBEDDING_PROVIDER", "none"))),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		KnowledgeDir:      getEnv("KNOWLEDGE_DIR", ""),
		ChunkSize:         getEnvAsInt("CHUNK_SIZE", 500),
		ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 50),
		SearchTopK:        getEnvAsInt("SEARCH_TOP_K", 3),

		UseMemoryTranscript: getEnvAsBool("USE_MEMORY_TRANSCRIPT", true),
		RedisAddr:           getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, trimming
// whitespace and dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
