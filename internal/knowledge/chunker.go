package knowledge

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Chunker splits raw document text into overlapping chunks sized for
// embedding.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// NewChunker creates a chunker with the given size and overlap in characters.
// Non-positive values fall back to the defaults.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// Split breaks text into chunk documents attributed to source. Chunks that
// end up blank after splitting are dropped.
func (c *Chunker) Split(source, text string) ([]Document, error) {
	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("knowledge: failed to split %s: %w", source, err)
	}
	docs := make([]Document, 0, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		docs = append(docs, Document{
			ID:      fmt.Sprintf("%s#%d", source, i),
			Source:  source,
			Content: chunk,
		})
	}
	return docs, nil
}
