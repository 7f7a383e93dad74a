// Package bootstrap wires optional runtime dependencies from configuration:
// Redis, the embedding provider, and the knowledge index. Everything here
// degrades to nil rather than failing the process, except where a
// misconfiguration would silently disable a requested feature.
package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/appointbot/appointbot/internal/config"
	"github.com/appointbot/appointbot/internal/conversation"
	"github.com/appointbot/appointbot/internal/knowledge"
	"github.com/appointbot/appointbot/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildTranscriptStore picks the transcript backend. Memory is the default;
// Redis is used when configured and reachable.
func BuildTranscriptStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.TranscriptStore {
	if cfg.UseMemoryTranscript {
		logger.Info("using in-memory transcript store")
		return conversation.NewMemoryTranscriptStore()
	}
	client := BuildRedisClient(ctx, cfg, logger, true)
	if client == nil {
		logger.Warn("redis transcript store requested but unavailable, falling back to memory")
		return conversation.NewMemoryTranscriptStore()
	}
	logger.Info("using redis transcript store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return conversation.NewRedisTranscriptStore(client, cfg.SessionTTL)
}

// BuildEmbedder constructs the configured embedding provider. Provider
// "none" returns nil, nil; an unknown provider is an error.
func BuildEmbedder(ctx context.Context, cfg *appconfig.Config) (knowledge.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "", "none":
		return nil, nil
	case "openai":
		return knowledge.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	case "gemini":
		return knowledge.NewGeminiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	}
	return nil, fmt.Errorf("bootstrap: unknown embedding provider %q", cfg.EmbeddingProvider)
}

// BuildKnowledgeStore creates the document index and seeds it from the
// configured knowledge directory. Returns nil when no embedder is
// configured; the assistant then answers without document search.
func BuildKnowledgeStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*knowledge.MemoryStore, error) {
	embedder, err := BuildEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		logger.Info("no embedding provider configured, document search disabled")
		return nil, nil
	}

	store := knowledge.NewMemoryStore(embedder)
	if cfg.KnowledgeDir == "" {
		logger.Warn("embedding provider configured but KNOWLEDGE_DIR is empty")
		return store, nil
	}

	chunker := knowledge.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	n, err := knowledge.LoadDirectory(ctx, cfg.KnowledgeDir, chunker, store, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("knowledge base loaded", "dir", cfg.KnowledgeDir, "chunks", n)
	return store, nil
}
