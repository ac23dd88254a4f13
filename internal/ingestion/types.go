// Package ingestion reads news-article JSON files from disk and turns them into
// the per-document term lists the index is built from.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

// Document is the subset of an article file the engine reads.
type Document struct {
	UUID      string   `json:"uuid"`
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	Published string   `json:"published"`
	Thread    Thread   `json:"thread"`
	Entities  Entities `json:"entities"`
}

type Thread struct {
	Site string `json:"site"`
}

type Entities struct {
	Persons       []Entity `json:"persons"`
	Organizations []Entity `json:"organizations"`
}

type Entity struct {
	Name string `json:"name"`
}

// PublishedDate is the date part (YYYY-MM-DD) of the publication timestamp.
func (d *Document) PublishedDate() string {
	if len(d.Published) > 10 {
		return d.Published[:10]
	}
	return d.Published
}

// Parsed is one document reduced to what the index stores. ID is the path the
// document was read from.
type Parsed struct {
	ID            string
	Title         string
	Words         []string
	Persons       []string
	Organizations []string
}

// ReadDocument decodes the article at path.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIOError("read", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w: %v", path, apperrors.ErrInvalidInput, err)
	}
	return &doc, nil
}
