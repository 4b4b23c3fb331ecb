package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every catalog route on the router. Shared
// between the server binary and the handler tests.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/books", h.ListBooks)
		api.POST("/books", h.CreateBook)
		api.GET("/books/:id", h.GetBook)
		api.PUT("/books/:id", h.UpdateBook)
		api.DELETE("/books/:id", h.DeleteBook)
		api.POST("/books/:id/status", h.SetReadingStatus)
		api.POST("/books/:id/progress", h.SetReadingProgress)

		api.GET("/authors", h.ListAuthors)
		api.POST("/authors", h.CreateAuthor)
		api.GET("/authors/:id", h.GetAuthor)
		api.PUT("/authors/:id", h.UpdateAuthor)
		api.DELETE("/authors/:id", h.DeleteAuthor)

		api.GET("/publishers", h.ListPublishers)
		api.POST("/publishers", h.CreatePublisher)
		api.GET("/publishers/:id", h.GetPublisher)
		api.PUT("/publishers/:id", h.UpdatePublisher)
		api.DELETE("/publishers/:id", h.DeletePublisher)

		api.GET("/genres", h.ListGenres)
		api.POST("/genres", h.CreateGenre)
		api.GET("/genres/:id", h.GetGenre)
		api.PUT("/genres/:id", h.UpdateGenre)
		api.DELETE("/genres/:id", h.DeleteGenre)

		api.GET("/topics", h.ListTopics)
		api.POST("/topics", h.CreateTopic)
		api.GET("/topics/:id", h.GetTopic)
		api.PUT("/topics/:id", h.UpdateTopic)
		api.DELETE("/topics/:id", h.DeleteTopic)

		api.GET("/categories", h.ListCategories)
		api.POST("/categories", h.CreateCategory)
		api.GET("/categories/:id", h.GetCategory)
		api.PUT("/categories/:id", h.UpdateCategory)
		api.DELETE("/categories/:id", h.DeleteCategory)

		api.GET("/series", h.ListSeries)
		api.POST("/series", h.CreateSeries)
		api.GET("/series/:id", h.GetSeries)
		api.PUT("/series/:id", h.UpdateSeries)
		api.DELETE("/series/:id", h.DeleteSeries)

		api.GET("/recommendations", h.GetRecommendations)
		api.GET("/library/stats", h.GetLibraryStats)
		api.GET("/export/csv", h.ExportCSV)
		api.GET("/export/json", h.ExportJSON)
	}
}
