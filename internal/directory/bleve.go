// Package directory resolves extracted name candidates against the narrator
// store, with an optional Bleve fuzzy-name index for misspelled lookups.
package directory

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/hyperjump/rawi/internal/models"
)

// NameIndex is a Bleve index over narrator names used for fuzzy fallback
// matching when substring lookup misses.
type NameIndex struct {
	index bleve.Index
}

type nameDoc struct {
	NameArabic      string `json:"name_arabic"`
	Transliteration string `json:"transliteration"`
}

// NewNameIndex creates or opens a name index at path. An existing index is
// reused; remove the directory to force a full reindex after mapping changes.
func NewNameIndex(path string) (*NameIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open name index: %w", openErr)
		}
		return &NameIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer: lowercase + tokenize, no stemming. Stemmers mangle
	// transliterated Arabic names.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name_arabic", textFieldMapping)
	docMapping.AddFieldMappingsAt("transliteration", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create name index: %w", err)
	}
	return &NameIndex{index: index}, nil
}

// Index adds or updates a narrator in the fuzzy index, keyed by narrator ID.
func (x *NameIndex) Index(n *models.Narrator) error {
	return x.index.Index(strconv.FormatInt(n.ID, 10), nameDoc{
		NameArabic:      n.NameArabic,
		Transliteration: n.Transliteration,
	})
}

// Fuzzy returns narrator IDs whose indexed names approximately match name,
// best first.
func (x *NameIndex) Fuzzy(name string, limit int) ([]int64, error) {
	q := bleve.NewMatchQuery(name)
	q.SetFuzziness(2)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := x.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("fuzzy name search failed: %w", err)
	}
	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (x *NameIndex) Close() error { return x.index.Close() }
