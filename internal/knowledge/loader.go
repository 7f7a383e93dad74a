package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/appointbot/appointbot/pkg/logging"
)

// minDocumentLength filters out files that are effectively empty (a stray
// newline, a heading with no body).
const minDocumentLength = 10

// LoadDirectory reads every .txt and .md file under dir, chunks the contents,
// and indexes the chunks into the store. Returns the number of chunks added.
// A missing directory is not an error; the assistant just runs without a
// knowledge base.
func LoadDirectory(ctx context.Context, dir string, chunker *Chunker, store *MemoryStore, log *logging.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		log.Warn("knowledge directory does not exist, skipping", "dir", dir)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("knowledge: failed to read directory %s: %w", dir, err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Error("failed to read knowledge file", "path", path, "error", err)
			continue
		}
		content := strings.TrimSpace(string(raw))
		if len(content) <= minDocumentLength {
			log.Warn("skipping near-empty knowledge file", "path", path, "bytes", len(content))
			continue
		}

		docs, err := chunker.Split(entry.Name(), content)
		if err != nil {
			log.Error("failed to chunk knowledge file", "path", path, "error", err)
			continue
		}
		if err := store.Add(ctx, docs); err != nil {
			return total, err
		}
		total += len(docs)
		log.Info("indexed knowledge file", "file", entry.Name(), "chunks", len(docs))
	}
	return total, nil
}
