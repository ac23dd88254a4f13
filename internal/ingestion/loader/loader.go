// Package loader discovers article files under a corpus directory and parses
// them concurrently while handing the results to a single consumer in a
// stable order.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion/validator"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
)

// Stats counts the outcome of one Load call.
type Stats struct {
	Files    int
	Parsed   int
	Rejected int
}

type Loader struct {
	normalizer *tokenizer.Normalizer
	workers    int
	logger     *slog.Logger
}

func New(normalizer *tokenizer.Normalizer, workers int) *Loader {
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		normalizer: normalizer,
		workers:    workers,
		logger:     logger.WithComponent("loader"),
	}
}

// Walk lists every .json file under root in lexical order.
func (l *Loader) Walk(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.NewIOError("walk", root, err)
	}
	l.logger.Info("corpus scanned", "root", root, "files", len(paths))
	return paths, nil
}

type result struct {
	path   string
	parsed *ingestion.Parsed
	err    error
}

// Load parses paths with up to the configured number of workers and calls fn
// for every valid document in the order of paths, on the calling goroutine.
// Files that fail to parse or validate are logged and counted, not returned.
// An error from fn stops the load and is returned.
func (l *Loader) Load(ctx context.Context, paths []string, fn func(*ingestion.Parsed) error) (Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workers errgroup.Group
	workers.SetLimit(l.workers)
	queue := make(chan chan result, 2*l.workers)

	go func() {
		defer close(queue)
		for _, path := range paths {
			out := make(chan result, 1)
			select {
			case queue <- out:
			case <-ctx.Done():
				return
			}
			workers.Go(func() error {
				out <- l.parse(ctx, path)
				return nil
			})
		}
	}()

	var (
		stats   Stats
		loadErr error
	)
	for out := range queue {
		r := <-out
		if loadErr != nil {
			continue
		}
		stats.Files++
		if r.err != nil {
			if ctx.Err() != nil {
				loadErr = ctx.Err()
				continue
			}
			stats.Rejected++
			l.logger.Warn("skipping document", "path", r.path, "error", r.err)
			continue
		}
		if err := fn(r.parsed); err != nil {
			loadErr = err
			cancel()
			continue
		}
		stats.Parsed++
	}
	workers.Wait()

	if loadErr == nil {
		// Without a callback error, only the caller can have cancelled ctx.
		loadErr = ctx.Err()
	}
	return stats, loadErr
}

func (l *Loader) parse(ctx context.Context, path string) result {
	if err := ctx.Err(); err != nil {
		return result{path: path, err: err}
	}
	doc, err := ingestion.ReadDocument(path)
	if err != nil {
		return result{path: path, err: err}
	}
	if err := validator.ValidateDocument(path, doc); err != nil {
		return result{path: path, err: err}
	}
	return result{path: path, parsed: l.Parse(path, doc)}
}

// Parse reduces a decoded document to its index terms. Entity names are split
// into whitespace tokens; tokens the persistence format cannot hold are
// dropped.
func (l *Loader) Parse(id string, doc *ingestion.Document) *ingestion.Parsed {
	p := &ingestion.Parsed{
		ID:    id,
		Title: doc.Title,
		Words: l.normalizer.Tokenize(doc.Text),
	}
	p.Persons = entityTokens(doc.Entities.Persons)
	p.Organizations = entityTokens(doc.Entities.Organizations)
	return p
}

func entityTokens(entities []ingestion.Entity) []string {
	var tokens []string
	for _, e := range entities {
		for _, tok := range tokenizer.SplitNames(e.Name) {
			if index.ValidKey(tok) {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
