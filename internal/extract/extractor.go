// Package extract pulls plain text out of corpus documents so hadith texts
// can be imported from files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content. Plain text
// files (.txt, .md) are returned as-is after UTF-8 validation; PDF, DOCX,
// and Excel files have their text pulled out of the binary format.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	default:
		// Unknown extensions are treated as plain text.
		return extractPlain(content)
	}
}

// SplitTexts splits extracted content into individual texts on blank-line
// runs. Whitespace-only segments are dropped.
func SplitTexts(content string) []string {
	var texts []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		texts = append(texts, block)
	}
	return texts
}
