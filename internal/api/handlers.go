package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/librisapp/libris/internal/models"
	"github.com/librisapp/libris/internal/storage"
)

// Handler contains all HTTP handlers.
type Handler struct {
	db *storage.Database
}

// NewHandler creates a new handler instance.
func NewHandler(db *storage.Database) *Handler {
	return &Handler{db: db}
}

// HealthCheck returns server status.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps store errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		verr *storage.ValidationError
		rerr *storage.ReferentialIntegrityError
	)

	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.As(err, &rerr):
		c.JSON(http.StatusConflict, gin.H{"error": rerr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

type bookRequest struct {
	Title           string   `json:"title"`
	ISBN            string   `json:"isbn"`
	PublicationYear int      `json:"publication_year"`
	Pages           int      `json:"pages"`
	Language        string   `json:"language"`
	Description     string   `json:"description"`
	ReadingStatus   string   `json:"reading_status"`
	CurrentPage     int      `json:"current_page"`
	Rating          *int     `json:"rating"`
	Notes           string   `json:"notes"`
	PublisherID     string   `json:"publisher_id"`
	SeriesID        string   `json:"series_id"`
	SeriesPosition  int      `json:"series_position"`
	CategoryID      string   `json:"category_id"`
	AuthorIDs       []string `json:"author_ids"`
	GenreIDs        []string `json:"genre_ids"`
}

// ListBooks returns the catalog, optionally filtered by a title search
// term and a reading status.
func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.db.SearchBooks(c.Query("search"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns a single book with resolved references.
func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.db.GetBook(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook adds a book to the catalog.
func (h *Handler) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	book := &models.Book{
		ID:              uuid.New().String(),
		Title:           req.Title,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Language:        req.Language,
		Description:     req.Description,
		ReadingStatus:   req.ReadingStatus,
		CurrentPage:     req.CurrentPage,
		Rating:          req.Rating,
		Notes:           req.Notes,
		PublisherID:     req.PublisherID,
		SeriesID:        req.SeriesID,
		SeriesPosition:  req.SeriesPosition,
		CategoryID:      req.CategoryID,
		AuthorIDs:       req.AuthorIDs,
		GenreIDs:        req.GenreIDs,
	}

	if err := h.db.CreateBook(book); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": book.ID, "message": "Book created"})
}

type updateBookRequest struct {
	Title           *string   `json:"title"`
	ISBN            *string   `json:"isbn"`
	PublicationYear *int      `json:"publication_year"`
	Pages           *int      `json:"pages"`
	Language        *string   `json:"language"`
	Description     *string   `json:"description"`
	ReadingStatus   *string   `json:"reading_status"`
	CurrentPage     *int      `json:"current_page"`
	Rating          *int      `json:"rating"`
	Notes           *string   `json:"notes"`
	PublisherID     *string   `json:"publisher_id"`
	SeriesID        *string   `json:"series_id"`
	SeriesPosition  *int      `json:"series_position"`
	CategoryID      *string   `json:"category_id"`
	AuthorIDs       *[]string `json:"author_ids"`
	GenreIDs        *[]string `json:"genre_ids"`
}

// UpdateBook applies a partial update. Fields absent from the body are
// left unchanged; author_ids/genre_ids, when present, replace the whole
// attachment set.
func (h *Handler) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	upd := storage.BookUpdate{
		Title:           req.Title,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Language:        req.Language,
		Description:     req.Description,
		ReadingStatus:   req.ReadingStatus,
		CurrentPage:     req.CurrentPage,
		Rating:          req.Rating,
		Notes:           req.Notes,
		PublisherID:     req.PublisherID,
		SeriesID:        req.SeriesID,
		SeriesPosition:  req.SeriesPosition,
		CategoryID:      req.CategoryID,
		AuthorIDs:       req.AuthorIDs,
		GenreIDs:        req.GenreIDs,
	}

	if err := h.db.UpdateBook(c.Param("id"), upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book updated"})
}

// DeleteBook removes a book from the catalog.
func (h *Handler) DeleteBook(c *gin.Context) {
	if err := h.db.DeleteBook(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetReadingStatus updates a book's reading status.
func (h *Handler) SetReadingStatus(c *gin.Context) {
	var req struct {
		ReadingStatus string `json:"reading_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.db.SetReadingStatus(c.Param("id"), req.ReadingStatus); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// SetReadingProgress updates a book's current page.
func (h *Handler) SetReadingProgress(c *gin.Context) {
	var req struct {
		CurrentPage *int `json:"current_page"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPage == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_page is required"})
		return
	}

	if err := h.db.SetReadingProgress(c.Param("id"), *req.CurrentPage); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Progress updated"})
}
