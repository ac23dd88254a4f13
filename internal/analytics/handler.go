package analytics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
)

type snapshotReader interface {
	List(ctx context.Context, limit int) ([]Snapshot, error)
	Latest(ctx context.Context) (*Snapshot, error)
}

// Handler serves aggregated analytics. store may be nil.
type Handler struct {
	aggregator *Aggregator
	store      snapshotReader
}

func NewHandler(aggregator *Aggregator, store *SnapshotStore) *Handler {
	h := &Handler{aggregator: aggregator}
	if store != nil {
		h.store = store
	}
	return h
}

func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.aggregator.Stats())
}

// Snapshots lists stored snapshots, newest first. ?limit= defaults to 10.
func (h *Handler) Snapshots(c *gin.Context) {
	if !h.hasStore(c) {
		return
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 1000"})
			return
		}
		limit = n
	}
	snaps, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("listing snapshots failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing snapshots failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

// LatestSnapshot serves the newest stored snapshot, 404 when there is none.
func (h *Handler) LatestSnapshot(c *gin.Context) {
	if !h.hasStore(c) {
		return
	}
	snap, err := h.store.Latest(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("loading latest snapshot failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "loading latest snapshot failed"})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot stored yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) hasStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot store is not configured"})
		return false
	}
	return true
}
