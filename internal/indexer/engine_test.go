package indexer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
)

func writeDoc(t *testing.T, path string, doc ingestion.Document) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func newTestEngine(t *testing.T) (*Engine, *metrics.Metrics, string) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	persist := filepath.Join(t.TempDir(), "persistence.txt")
	e, err := NewEngine(
		config.IndexConfig{PersistencePath: persist},
		config.IngestConfig{Workers: 4},
		m,
	)
	require.NoError(t, err)
	return e, m, persist
}

// germanText has 251 indexable words, four of which stem to "german".
func germanText() string {
	return strings.Repeat("German ", 4) + strings.Repeat("economy ", 247) + "the of and"
}

func TestBuildCountsWordsAndPostings(t *testing.T) {
	root := t.TempDir()
	doc := filepath.Join(root, "2018", "news.json")
	writeDoc(t, doc, ingestion.Document{Title: "Economy", Text: germanText()})

	e, m, _ := newTestEngine(t)
	stats, err := e.Build(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	ix := e.Index()
	assert.Equal(t, 251, ix.WordCount(doc))
	assert.Equal(t, 4, ix.LookupWords("german")[doc])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocsIndexedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IndexKeys.WithLabelValues("words")))
}

func TestSaveLoadPreservesCounts(t *testing.T) {
	root := t.TempDir()
	doc := filepath.Join(root, "news.json")
	writeDoc(t, doc, ingestion.Document{Title: "Economy", Text: germanText()})

	e, _, persist := newTestEngine(t)
	_, err := e.Build(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, e.Save(context.Background(), ""))

	fresh, m, _ := newTestEngine(t)
	fresh.cfg.PersistencePath = persist
	report, err := fresh.Load(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, report.Clean())

	assert.Equal(t, 251, fresh.Index().WordCount(doc))
	assert.Equal(t, 4, fresh.Index().LookupWords("german")[doc])
	assert.Equal(t, 1, fresh.Stats().Documents)
	assert.Equal(t, "load", fresh.Stats().LastOperation)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PersistenceProblems))
}

func TestBuildSkipsRejectedDocuments(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, filepath.Join(root, "a.json"), ingestion.Document{Title: "A", Text: "bank"})
	writeDoc(t, filepath.Join(root, "b.json"), ingestion.Document{Text: "untitled"})

	e, m, _ := newTestEngine(t)
	stats, err := e.Build(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, BuildStats{Files: 2, Indexed: 1, Rejected: 1, Duration: stats.Duration}, stats)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocsRejectedTotal))
	assert.Equal(t, 1, e.Index().DocumentCount())
}

func TestIndexDocumentRejectsDuplicates(t *testing.T) {
	e, _, _ := newTestEngine(t)
	doc := &ingestion.Parsed{ID: "D1", Words: []string{"bank", "bank"}, Persons: []string{"Yellen"}}

	assert.True(t, e.IndexDocument(doc))
	assert.False(t, e.IndexDocument(doc))
	assert.Equal(t, 2, e.Index().LookupWords("bank")["D1"])
	assert.Equal(t, 1, e.Index().LookupPeople("Yellen")["D1"])
	assert.Equal(t, 2, e.Index().WordCount("D1"))
}

func TestLoadCountsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.txt")
	require.NoError(t, os.WriteFile(path, []byte("//words\nok:D1,1;\nbroken\n//docs\nD1$\n"), 0o644))

	e, m, _ := newTestEngine(t)
	report, err := e.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, report.Problems, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceProblems))
}

func TestStrictLoadFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.txt")
	require.NoError(t, os.WriteFile(path, []byte("//words\nbroken\n"), 0o644))

	e, _, _ := newTestEngine(t)
	e.cfg.StrictLoad = true
	_, err := e.Load(context.Background(), path)
	assert.ErrorIs(t, err, apperrors.ErrParseFailure)
}

func TestLoadMissingFileIsIOFailure(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.Load(context.Background(), filepath.Join(t.TempDir(), "none.txt"))
	assert.ErrorIs(t, err, apperrors.ErrIOFailure)
}

func TestNewEngineWithStopWordsFile(t *testing.T) {
	stop := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(stop, []byte("bank\n"), 0o644))

	e, err := NewEngine(config.IndexConfig{PersistencePath: "p"}, config.IngestConfig{Workers: 1, StopWordsFile: stop}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"the"}, e.Normalizer().Tokenize("the bank"))

	_, err = NewEngine(config.IndexConfig{}, config.IngestConfig{StopWordsFile: stop + ".missing"}, nil)
	assert.Error(t, err)
}
