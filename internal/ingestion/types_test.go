package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

const sampleArticle = `{
  "uuid": "2f1e",
  "title": "German economy grows",
  "text": "The German economy grew faster than expected.",
  "published": "2018-02-27T21:41:00.000+02:00",
  "thread": {"site": "reuters.com"},
  "entities": {
    "persons": [{"name": "angela merkel", "sentiment": "none"}],
    "organizations": [{"name": "bundesbank"}]
  }
}`

func TestReadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleArticle), 0o644))

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "German economy grows", doc.Title)
	assert.Equal(t, "reuters.com", doc.Thread.Site)
	assert.Equal(t, "2018-02-27", doc.PublishedDate())
	require.Len(t, doc.Entities.Persons, 1)
	assert.Equal(t, "angela merkel", doc.Entities.Persons[0].Name)
	assert.Equal(t, "bundesbank", doc.Entities.Organizations[0].Name)
}

func TestReadDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadDocument(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, apperrors.ErrIOFailure)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[1,2"), 0o644))
	_, err = ReadDocument(bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPublishedDateShort(t *testing.T) {
	d := Document{Published: "2018"}
	assert.Equal(t, "2018", d.PublishedDate())
}
