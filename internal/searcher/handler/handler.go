// Package handler exposes the search engine over HTTP with gin: ranked search,
// document detail, index statistics, index reload and result-cache control.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/tracing"
)

// Handler serves queries against the engine's index. Searches share a read
// lock; a reload takes the write lock, so queries never see a half-swapped
// index. Cache, collector and metrics are optional.
type Handler struct {
	engine    *indexer.Engine
	executor  *executor.Executor
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	cfg       config.SearchConfig
	mu        sync.RWMutex
}

type Option func(*Handler)

func WithCache(c *cache.QueryCache) Option {
	return func(h *Handler) { h.cache = c }
}

func WithCollector(c *analytics.Collector) Option {
	return func(h *Handler) { h.collector = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(engine *indexer.Engine, cfg config.SearchConfig, opts ...Option) *Handler {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = ranker.DefaultLimit
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = ranker.DefaultLimit
	}
	if cfg.Order == "" {
		cfg.Order = config.OrderNatural
	}
	h := &Handler{
		engine:   engine,
		executor: executor.New(engine.Index()),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/search", h.Search)
	r.GET("/documents", h.Document)
	r.GET("/stats", h.Stats)
	r.POST("/index/reload", h.Reload)
	r.GET("/cache/stats", h.CacheStats)
	r.POST("/cache/invalidate", h.InvalidateCache)
}

// Search handles GET /search?q=&limit=&order=.
func (h *Handler) Search(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	query, ok := c.GetQuery("q")
	if !ok {
		h.sendError(c, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "query parameter 'q' is required"))
		return
	}
	opts, err := h.options(c)
	if err != nil {
		h.sendError(c, err)
		return
	}

	plan := parser.Parse(query, h.engine.Normalizer())
	if plan.Empty() {
		h.observe("empty_query", "", 0, start)
		c.JSON(http.StatusOK, &executor.SearchResult{
			Query:   query,
			Results: []ranker.ScoredDoc{},
			Order:   opts.Order,
		})
		return
	}

	ctx, span := tracing.StartSpan(ctx, "query", logger.RequestID(ctx))
	span.SetAttr("query", query)

	h.mu.RLock()
	compute := func() (*executor.SearchResult, error) {
		return h.executor.Execute(ctx, plan, opts)
	}
	var result *executor.SearchResult
	cacheStatus := "disabled"
	if h.cache != nil {
		var hit bool
		result, hit, err = h.cache.GetOrCompute(ctx, plan, opts, compute)
		cacheStatus = "miss"
		if hit {
			cacheStatus = "hit"
		}
	} else {
		result, err = compute()
	}
	h.mu.RUnlock()
	span.End()
	h.engine.RecordOperation(span)

	if err != nil {
		h.observe("error", cacheStatus, 0, start)
		h.sendError(c, err)
		return
	}

	resultType := "hit"
	if result.TotalHits == 0 {
		resultType = "zero_result"
	}
	h.observe(resultType, cacheStatus, len(result.Results), start)
	h.track(c, plan, result, cacheStatus == "hit", start)

	logger.FromContext(ctx).Debug("search served",
		"query", query,
		"hits", result.TotalHits,
		"returned", len(result.Results),
		"cache", cacheStatus,
	)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) options(c *gin.Context) (executor.Options, error) {
	opts := executor.Options{Limit: h.cfg.DefaultLimit, Order: h.cfg.Order}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return opts, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "limit must be a positive integer")
		}
		opts.Limit = min(n, h.cfg.MaxResults)
	}
	if raw := c.Query("order"); raw != "" {
		if raw != config.OrderNatural && raw != config.OrderScore {
			return opts, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "order must be %q or %q", config.OrderNatural, config.OrderScore)
		}
		opts.Order = raw
	}
	return opts, nil
}

type documentResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Site      string `json:"site"`
	Published string `json:"published"`
	WordCount int    `json:"word_count"`
	Text      string `json:"text"`
}

// Document handles GET /documents?id=. Only indexed documents are served.
func (h *Handler) Document(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		h.sendError(c, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "query parameter 'id' is required"))
		return
	}
	h.mu.RLock()
	known := h.engine.Index().HasDocument(id)
	words := h.engine.Index().WordCount(id)
	h.mu.RUnlock()
	if !known {
		h.sendError(c, apperrors.Newf(apperrors.ErrNotFound, http.StatusNotFound, "document %q is not indexed", id))
		return
	}
	doc, err := ingestion.ReadDocument(id)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentResponse{
		ID:        id,
		Title:     doc.Title,
		Site:      doc.Thread.Site,
		Published: doc.PublishedDate(),
		WordCount: words,
		Text:      doc.Text,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	h.mu.RLock()
	stats := h.engine.Stats()
	h.mu.RUnlock()
	c.JSON(http.StatusOK, stats)
}

// Reload handles POST /index/reload: it replaces the index with the
// configured persistence file and drops every cached result.
func (h *Handler) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()

	h.mu.Lock()
	report, err := h.engine.Load(ctx, "")
	docs := h.engine.Index().DocumentCount()
	// Invalidate before searches resume so none is served from the old index.
	if err == nil && h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Warn("cache invalidation after reload failed", "error", err)
		}
	}
	h.mu.Unlock()
	if err != nil {
		h.sendError(c, err)
		return
	}
	if h.collector != nil {
		h.collector.Track(analytics.IndexEvent{
			Type:       analytics.EventIndexLoad,
			Documents:  docs,
			Problems:   len(report.Problems),
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  time.Now().UTC(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"lines":     report.Lines,
		"problems":  len(report.Problems),
	})
}

func (h *Handler) CacheStats(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio,
	})
}

func (h *Handler) InvalidateCache(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"status": "cache disabled"})
		return
	}
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

func (h *Handler) observe(resultType, cacheStatus string, returned int, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	if cacheStatus == "" {
		return
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	h.metrics.SearchResultsCount.Observe(float64(returned))
	switch cacheStatus {
	case "hit":
		h.metrics.CacheHitsTotal.Inc()
	case "miss":
		h.metrics.CacheMissesTotal.Inc()
	}
}

func (h *Handler) track(c *gin.Context, plan *parser.QueryPlan, result *executor.SearchResult, cacheHit bool, start time.Time) {
	if h.collector == nil {
		return
	}
	terms := make([]string, len(plan.Terms))
	for i, t := range plan.Terms {
		terms[i] = t.Raw
	}
	eventType := analytics.EventSearch
	if result.TotalHits == 0 {
		eventType = analytics.EventZeroResult
	}
	h.collector.Track(analytics.SearchEvent{
		Type:      eventType,
		Query:     strings.TrimSpace(plan.RawQuery),
		Terms:     terms,
		TotalHits: result.TotalHits,
		Returned:  len(result.Results),
		Order:     result.Order,
		LatencyMs: time.Since(start).Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(middleware.RequestIDKey),
	})
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *Handler) sendError(c *gin.Context, err error) {
	status := apperrors.HTTPStatusCode(err)
	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, errorResponse{
		Error:     msg,
		RequestID: c.GetString(middleware.RequestIDKey),
	})
}
