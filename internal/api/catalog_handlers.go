package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/librisapp/libris/internal/models"
	"github.com/librisapp/libris/internal/storage"
)

// Handlers for the reference entities a book points at: authors,
// publishers, genres, topics, categories and series.

// ListAuthors returns all authors.
func (h *Handler) ListAuthors(c *gin.Context) {
	authors, err := h.db.ListAuthors()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GetAuthor returns a single author.
func (h *Handler) GetAuthor(c *gin.Context) {
	author, err := h.db.GetAuthor(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// CreateAuthor adds an author.
func (h *Handler) CreateAuthor(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Biography string `json:"biography"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	author := &models.Author{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Biography: req.Biography,
	}
	if err := h.db.CreateAuthor(author); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": author.ID})
}

// UpdateAuthor applies a partial author update.
func (h *Handler) UpdateAuthor(c *gin.Context) {
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Biography *string `json:"biography"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	upd := storage.AuthorUpdate{FirstName: req.FirstName, LastName: req.LastName, Biography: req.Biography}
	if err := h.db.UpdateAuthor(c.Param("id"), upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Author updated"})
}

// DeleteAuthor removes an author, detaching it from every book.
func (h *Handler) DeleteAuthor(c *gin.Context) {
	if err := h.db.DeleteAuthor(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPublishers returns all publishers.
func (h *Handler) ListPublishers(c *gin.Context) {
	publishers, err := h.db.ListPublishers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publishers)
}

// GetPublisher returns a single publisher.
func (h *Handler) GetPublisher(c *gin.Context) {
	publisher, err := h.db.GetPublisher(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publisher)
}

// CreatePublisher adds a publisher.
func (h *Handler) CreatePublisher(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	publisher := &models.Publisher{ID: uuid.New().String(), Name: req.Name, Country: req.Country}
	if err := h.db.CreatePublisher(publisher); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": publisher.ID})
}

// UpdatePublisher applies a partial publisher update.
func (h *Handler) UpdatePublisher(c *gin.Context) {
	var req struct {
		Name    *string `json:"name"`
		Country *string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.db.UpdatePublisher(c.Param("id"), storage.PublisherUpdate{Name: req.Name, Country: req.Country}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publisher updated"})
}

// DeletePublisher removes a publisher. Rejected with 409 while any book
// references it.
func (h *Handler) DeletePublisher(c *gin.Context) {
	if err := h.db.DeletePublisher(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type namedRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type namedUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListGenres returns all genres.
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.db.ListGenres()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GetGenre returns a single genre.
func (h *Handler) GetGenre(c *gin.Context) {
	genre, err := h.db.GetGenre(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// CreateGenre adds a genre.
func (h *Handler) CreateGenre(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	genre := &models.Genre{ID: uuid.New().String(), Name: req.Name, Description: req.Description}
	if err := h.db.CreateGenre(genre); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": genre.ID})
}

// UpdateGenre applies a partial genre update.
func (h *Handler) UpdateGenre(c *gin.Context) {
	var req namedUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.db.UpdateGenre(c.Param("id"), storage.NamedUpdate{Name: req.Name, Description: req.Description}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genre updated"})
}

// DeleteGenre removes a genre, detaching it from every book.
func (h *Handler) DeleteGenre(c *gin.Context) {
	if err := h.db.DeleteGenre(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTopics returns all topics.
func (h *Handler) ListTopics(c *gin.Context) {
	topics, err := h.db.ListTopics()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

// GetTopic returns a single topic.
func (h *Handler) GetTopic(c *gin.Context) {
	topic, err := h.db.GetTopic(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// CreateTopic adds a topic.
func (h *Handler) CreateTopic(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	topic := &models.Topic{ID: uuid.New().String(), Name: req.Name, Description: req.Description}
	if err := h.db.CreateTopic(topic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": topic.ID})
}

// UpdateTopic applies a partial topic update.
func (h *Handler) UpdateTopic(c *gin.Context) {
	var req namedUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.db.UpdateTopic(c.Param("id"), storage.NamedUpdate{Name: req.Name, Description: req.Description}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Topic updated"})
}

// DeleteTopic removes a topic.
func (h *Handler) DeleteTopic(c *gin.Context) {
	if err := h.db.DeleteTopic(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories returns all categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.db.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory returns a single category.
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.db.GetCategory(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	category := &models.Category{ID: uuid.New().String(), Name: req.Name, Description: req.Description}
	if err := h.db.CreateCategory(category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": category.ID})
}

// UpdateCategory applies a partial category update.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req namedUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.db.UpdateCategory(c.Param("id"), storage.NamedUpdate{Name: req.Name, Description: req.Description}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// DeleteCategory removes a category; affected books keep no reference.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.db.DeleteCategory(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSeries returns all series.
func (h *Handler) ListSeries(c *gin.Context) {
	series, err := h.db.ListSeries()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetSeries returns a single series.
func (h *Handler) GetSeries(c *gin.Context) {
	series, err := h.db.GetSeries(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// CreateSeries adds a series.
func (h *Handler) CreateSeries(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		TotalBooks  int    `json:"total_books"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	series := &models.Series{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		TotalBooks:  req.TotalBooks,
	}
	if err := h.db.CreateSeries(series); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": series.ID})
}

// UpdateSeries applies a partial series update.
func (h *Handler) UpdateSeries(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		TotalBooks  *int    `json:"total_books"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	upd := storage.SeriesUpdate{Name: req.Name, Description: req.Description, TotalBooks: req.TotalBooks}
	if err := h.db.UpdateSeries(c.Param("id"), upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Series updated"})
}

// DeleteSeries removes a series; affected books keep no reference.
func (h *Handler) DeleteSeries(c *gin.Context) {
	if err := h.db.DeleteSeries(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
