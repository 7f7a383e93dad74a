// Package knowledge holds the retrieval side of the assistant: documents,
// their embeddings, and similarity search over them. The store is an
// in-memory index; embeddings come from a pluggable provider.
package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Document is one retrievable chunk of knowledge-base text.
type Document struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

type scoredDocument struct {
	doc   Document
	score float64
}

// MemoryStore is an in-memory vector index over documents. Safe for
// concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     []Document
	vectors  [][]float32
	embedder Embedder
}

// NewMemoryStore creates an empty store backed by the given embedder.
func NewMemoryStore(embedder Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder}
}

// Add embeds the documents and indexes them. Documents with empty content
// are skipped.
func (s *MemoryStore) Add(ctx context.Context, docs []Document) error {
	kept := make([]Document, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		kept = append(kept, d)
		texts = append(texts, d.Content)
	}
	if len(kept) == 0 {
		return nil
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("knowledge: failed to embed %d documents: %w", len(kept), err)
	}
	if len(vectors) != len(kept) {
		return fmt.Errorf("knowledge: embedder returned %d vectors for %d documents", len(vectors), len(kept))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, kept...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Len returns the number of indexed documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search returns up to k documents ranked by cosine similarity to the query.
// A blank query skips the embedding call and returns the first k documents
// in insertion order, which callers use as a last-resort fetch. An empty
// store yields an empty result, never an error.
func (s *MemoryStore) Search(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}

	if strings.TrimSpace(query) == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		n := k
		if n > len(s.docs) {
			n = len(s.docs)
		}
		out := make([]Document, n)
		copy(out, s.docs[:n])
		return out, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("knowledge: failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("knowledge: embedder returned %d vectors for query", len(vectors))
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]scoredDocument, 0, len(s.docs))
	for i, doc := range s.docs {
		scored = append(scored, scoredDocument{
			doc:   doc,
			score: cosineSimilarity(queryVec, s.vectors[i]),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if k > len(scored) {
		k = len(scored)
	}
	out := make([]Document, k)
	for i := 0; i < k; i++ {
		out[i] = scored[i].doc
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
