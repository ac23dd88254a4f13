package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/tracing"
)

// Index is the read side of the inverted index a query runs against.
type Index interface {
	LookupWords(term string) index.Postings
	LookupPeople(name string) index.Postings
	LookupOrganizations(name string) index.Postings
	DocumentCount() int
	WordCount(docID string) int
}

type SearchResult struct {
	Query     string             `json:"query"`
	Terms     []parser.Term      `json:"terms"`
	TotalHits int                `json:"total_hits"`
	Results   []ranker.ScoredDoc `json:"results"`
	Order     string             `json:"order"`
	TookMs    float64            `json:"took_ms"`
}

// Options controls the size and order of one result list.
type Options struct {
	Limit int
	Order string
}

type Executor struct {
	index  Index
	logger *slog.Logger
}

func New(ix Index) *Executor {
	return &Executor{
		index:  ix,
		logger: logger.WithComponent("query-executor"),
	}
}

// Execute evaluates plan and ranks the surviving documents. Unknown terms
// never fail a query; they only narrow it. The only error is a cancelled ctx.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan, opts Options) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &SearchResult{
		Query:   plan.RawQuery,
		Terms:   plan.Terms,
		Results: []ranker.ScoredDoc{},
		Order:   opts.Order,
	}
	if plan.Empty() {
		return result, nil
	}

	_, evalSpan := tracing.StartChildSpan(ctx, "evaluate")
	survivors := e.Evaluate(plan)
	evalSpan.SetAttr("survivors", len(survivors))
	evalSpan.End()

	_, rankSpan := tracing.StartChildSpan(ctx, "rank")
	result.TotalHits = len(survivors)
	result.Results = ranker.Rank(survivors, ranker.RankParams{
		TotalDocs: e.index.DocumentCount(),
		Order:     opts.Order,
		Limit:     opts.Limit,
	}, func(docID string) ranker.DocInfo {
		return ranker.DocInfo{WordCount: e.index.WordCount(docID)}
	})
	rankSpan.End()
	result.TookMs = float64(time.Since(start).Microseconds()) / 1000

	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"terms", len(plan.Terms),
		"hits", result.TotalHits,
		"returned", len(result.Results),
	)
	return result, nil
}

// Evaluate runs the boolean chain of plan. The running table is seeded with
// the first term's lookup; every later term intersects it (keeping the running
// counts) or, when negated, removes its documents. A negated first term is a
// complement of the empty table, so such a query matches nothing.
func (e *Executor) Evaluate(plan *parser.QueryPlan) index.Postings {
	if plan.Empty() || plan.Terms[0].Kind == parser.KindNegated {
		return index.Postings{}
	}
	running := e.lookup(plan.Terms[0])
	for _, t := range plan.Terms[1:] {
		if len(running) == 0 {
			break
		}
		docs := e.lookup(t)
		if t.Kind == parser.KindNegated {
			running = running.Without(docs)
		} else {
			running = running.Intersect(docs)
		}
	}
	return running
}

func (e *Executor) lookup(t parser.Term) index.Postings {
	switch t.Kind {
	case parser.KindPerson:
		return e.index.LookupPeople(t.Value)
	case parser.KindOrganization:
		return e.index.LookupOrganizations(t.Value)
	default:
		return e.index.LookupWords(t.Value)
	}
}
