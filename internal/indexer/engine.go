package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion/loader"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/tracing"
)

// Engine drives the build and persistence phases of an InvertedIndex. The
// index it owns is mutated only by Build, IndexDocument and Load, which must
// not run concurrently with each other or with queries.
type Engine struct {
	index      *index.InvertedIndex
	normalizer *tokenizer.Normalizer
	loader     *loader.Loader
	cfg        config.IndexConfig
	metrics    *metrics.Metrics
	logger     *slog.Logger

	mu     sync.Mutex
	lastOp *tracing.Span
}

// BuildStats summarizes one Build call.
type BuildStats struct {
	Files    int
	Indexed  int
	Rejected int
	Duration time.Duration
}

// Stats describes the current index and the most recent engine operation.
type Stats struct {
	Documents             int           `json:"documents"`
	DistinctWords         int           `json:"distinct_words"`
	DistinctPeople        int           `json:"distinct_people"`
	DistinctOrganizations int           `json:"distinct_organizations"`
	LastOperation         string        `json:"last_operation,omitempty"`
	LastDuration          time.Duration `json:"last_duration_ns,omitempty"`
}

// NewEngine builds an engine around an empty index. m may be nil.
func NewEngine(indexCfg config.IndexConfig, ingestCfg config.IngestConfig, m *metrics.Metrics) (*Engine, error) {
	stop := tokenizer.DefaultStopWords()
	if ingestCfg.StopWordsFile != "" {
		custom, err := tokenizer.LoadStopWords(ingestCfg.StopWordsFile)
		if err != nil {
			return nil, fmt.Errorf("loading stop words: %w", err)
		}
		stop = custom
	}
	normalizer := tokenizer.New(stop)
	return &Engine{
		index:      index.New(),
		normalizer: normalizer,
		loader:     loader.New(normalizer, ingestCfg.Workers),
		cfg:        indexCfg,
		metrics:    m,
		logger:     logger.WithComponent("indexer"),
	}, nil
}

// Index returns the index the engine builds into.
func (e *Engine) Index() *index.InvertedIndex {
	return e.index
}

func (e *Engine) Normalizer() *tokenizer.Normalizer {
	return e.normalizer
}

// IndexDocument adds one parsed document. A document id that is already
// registered is skipped and reported as false.
func (e *Engine) IndexDocument(doc *ingestion.Parsed) bool {
	if !e.index.AddDocument(doc.ID) {
		e.logger.Warn("document already indexed, skipping", "doc_id", doc.ID)
		return false
	}
	for _, w := range doc.Words {
		e.index.AddWord(w, doc.ID)
	}
	e.index.SetWordCount(doc.ID, len(doc.Words))
	for _, p := range doc.Persons {
		e.index.AddPerson(p, doc.ID)
	}
	for _, o := range doc.Organizations {
		e.index.AddOrganization(o, doc.ID)
	}
	e.logger.Debug("document indexed",
		"doc_id", doc.ID,
		"word_count", len(doc.Words),
		"persons", len(doc.Persons),
		"organizations", len(doc.Organizations),
	)
	return true
}

// Build indexes every article file under root into the current index.
func (e *Engine) Build(ctx context.Context, root string) (BuildStats, error) {
	ctx, span := tracing.StartSpan(ctx, "build", "")
	defer e.finish(span)
	span.SetAttr("root", root)

	walkCtx, walkSpan := tracing.StartChildSpan(ctx, "walk")
	paths, err := e.loader.Walk(walkCtx, root)
	walkSpan.End()
	if err != nil {
		return BuildStats{}, fmt.Errorf("scanning corpus: %w", err)
	}

	loadCtx, loadSpan := tracing.StartChildSpan(ctx, "load")
	var stats BuildStats
	ls, err := e.loader.Load(loadCtx, paths, func(doc *ingestion.Parsed) error {
		if e.IndexDocument(doc) {
			stats.Indexed++
		}
		return nil
	})
	loadSpan.End()
	stats.Files = ls.Files
	stats.Rejected = ls.Rejected + ls.Parsed - stats.Indexed
	if err != nil {
		return stats, fmt.Errorf("loading corpus: %w", err)
	}

	span.End()
	stats.Duration = span.Duration
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Add(float64(stats.Indexed))
		e.metrics.DocsRejectedTotal.Add(float64(stats.Rejected))
		e.metrics.BuildDuration.Observe(stats.Duration.Seconds())
	}
	e.observeKeys()
	span.SetAttr("indexed", stats.Indexed)
	span.SetAttr("rejected", stats.Rejected)
	e.logger.Info("corpus indexed",
		"root", root,
		"files", stats.Files,
		"indexed", stats.Indexed,
		"rejected", stats.Rejected,
		"distinct_words", e.index.DistinctWordCount(),
		"duration", stats.Duration,
	)
	return stats, nil
}

// Save writes the index to path, or to the configured persistence path when
// path is empty.
func (e *Engine) Save(ctx context.Context, path string) error {
	if path == "" {
		path = e.cfg.PersistencePath
	}
	_, span := tracing.StartSpan(ctx, "save", "")
	defer e.finish(span)

	err := e.index.Save(path)
	span.End()
	if e.metrics != nil {
		e.metrics.PersistenceDuration.WithLabelValues("save").Observe(span.Duration.Seconds())
	}
	if err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	e.logger.Info("index saved",
		"path", path,
		"documents", e.index.DocumentCount(),
		"duration", span.Duration,
	)
	return nil
}

// Load replaces the index with the file at path, or the configured persistence
// path when path is empty. Malformed lines are skipped unless strict loading
// is configured.
func (e *Engine) Load(ctx context.Context, path string) (*index.DecodeReport, error) {
	if path == "" {
		path = e.cfg.PersistencePath
	}
	_, span := tracing.StartSpan(ctx, "load", "")
	defer e.finish(span)

	opts := []index.DecodeOption{index.WithLogger(e.logger)}
	if e.cfg.StrictLoad {
		opts = append(opts, index.WithStrict())
	}
	report, err := e.index.Load(path, opts...)
	span.End()
	if e.metrics != nil {
		e.metrics.PersistenceDuration.WithLabelValues("load").Observe(span.Duration.Seconds())
	}
	if err != nil {
		return report, fmt.Errorf("loading index: %w", err)
	}
	if n := len(report.Problems); n > 0 {
		if e.metrics != nil {
			e.metrics.PersistenceProblems.Add(float64(n))
		}
		e.logger.Warn("index loaded with malformed lines", "path", path, "problems", n)
	}
	e.observeKeys()
	e.logger.Info("index loaded",
		"path", path,
		"documents", e.index.DocumentCount(),
		"distinct_words", e.index.DistinctWordCount(),
		"duration", span.Duration,
	)
	return report, nil
}

// Stats reports index sizes and the most recent build, save or load.
func (e *Engine) Stats() Stats {
	s := Stats{
		Documents:             e.index.DocumentCount(),
		DistinctWords:         e.index.DistinctWordCount(),
		DistinctPeople:        e.index.DistinctPeopleCount(),
		DistinctOrganizations: e.index.DistinctOrganizationCount(),
	}
	e.mu.Lock()
	if e.lastOp != nil {
		s.LastOperation = e.lastOp.Name
		s.LastDuration = e.lastOp.Duration
	}
	e.mu.Unlock()
	return s
}

// RecordOperation makes span the operation reported by Stats. Query paths use
// it so that the interactive stats view covers searches too.
func (e *Engine) RecordOperation(span *tracing.Span) {
	e.mu.Lock()
	e.lastOp = span
	e.mu.Unlock()
}

func (e *Engine) finish(span *tracing.Span) {
	if span.EndTime.IsZero() {
		span.End()
	}
	span.Log(e.logger)
	e.RecordOperation(span)
}

func (e *Engine) observeKeys() {
	if e.metrics == nil {
		return
	}
	e.metrics.IndexKeys.WithLabelValues("words").Set(float64(e.index.DistinctWordCount()))
	e.metrics.IndexKeys.WithLabelValues("people").Set(float64(e.index.DistinctPeopleCount()))
	e.metrics.IndexKeys.WithLabelValues("orgs").Set(float64(e.index.DistinctOrganizationCount()))
	e.metrics.IndexKeys.WithLabelValues("docs").Set(float64(e.index.DocumentCount()))
}
