package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/librisapp/libris/internal/export"
	"github.com/librisapp/libris/internal/recommend"
)

// GetLibraryStats returns summary counts for the dashboard.
func (h *Handler) GetLibraryStats(c *gin.Context) {
	stats, err := h.db.LibraryStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRecommendations ranks unread books against the reader's completed
// history, computed fresh from the current catalog.
func (h *Handler) GetRecommendations(c *gin.Context) {
	books, err := h.db.ListBooks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recommend.Rank(books, recommend.DefaultLimit))
}

// ExportCSV streams the full catalog as a CSV attachment.
func (h *Handler) ExportCSV(c *gin.Context) {
	books, err := h.db.ListBooks()
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, books); err != nil {
		respondError(c, err)
		return
	}

	filename := "library_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportJSON streams the full catalog as a JSON attachment.
func (h *Handler) ExportJSON(c *gin.Context) {
	books, err := h.db.ListBooks()
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, books); err != nil {
		respondError(c, err)
		return
	}

	filename := "library_" + time.Now().Format("20060102") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}
