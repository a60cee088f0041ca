package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/rawi/internal/storage"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestFile(t *testing.T) {
	store := storage.NewMemoryStorage()
	ing := NewIngester(store)

	path := writeFile(t, t.TempDir(), "corpus.txt",
		"حدثنا وكيع عن سفيان قال قال رسول الله\n\nنص عادي بدون سند")

	n, err := ing.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 texts, got %d", n)
	}

	records, err := store.RecentSearches(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.Source != SourceImport {
			t.Errorf("source: got %q", r.Source)
		}
		if r.ID == "" {
			t.Error("expected a generated id")
		}
	}
}

func TestIngestDirectory_ExtensionFilter(t *testing.T) {
	store := storage.NewMemoryStorage()
	ing := NewIngester(store, WithExtensions([]string{".txt"}))

	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "حدثنا مالك")
	writeFile(t, dir, "skip.bin", "binary junk")

	n, err := ing.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 text ingested, got %d", n)
	}
}

func TestIngestDirectory_SkipsBrokenFiles(t *testing.T) {
	store := storage.NewMemoryStorage()
	ing := NewIngester(store, WithExtensions([]string{".txt", ".docx"}))

	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "حدثنا وكيع")
	writeFile(t, dir, "broken.docx", "not a real docx")

	n, err := ing.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected the good file only, got %d", n)
	}
}
