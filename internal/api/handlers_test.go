package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisapp/libris/internal/api"
	"github.com/librisapp/libris/internal/storage"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpFile, err := os.CreateTemp("", "libris-api-test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	db, err := storage.NewDatabase(tmpFile.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.Remove(tmpFile.Name())
	})

	r := gin.New()
	api.NewHandler(db).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createEntity(t *testing.T, r *gin.Engine, path string, body interface{}) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestBookLifecycle(t *testing.T) {
	r := setupRouter(t)

	pubID := createEntity(t, r, "/api/publishers", gin.H{"name": "Tor Books"})
	authorID := createEntity(t, r, "/api/authors", gin.H{"first_name": "Frank", "last_name": "Herbert"})
	genreID := createEntity(t, r, "/api/genres", gin.H{"name": "Science Fiction"})

	bookID := createEntity(t, r, "/api/books", gin.H{
		"title":            "Dune",
		"publication_year": 1965,
		"pages":            412,
		"publisher_id":     pubID,
		"author_ids":       []string{authorID},
		"genre_ids":        []string{genreID},
	})

	// Hydrated read
	w := doRequest(t, r, http.MethodGet, "/api/books/"+bookID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var book struct {
		Title     string `json:"title"`
		Status    string `json:"reading_status"`
		Publisher struct {
			Name string `json:"name"`
		} `json:"publisher"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "unread", book.Status)
	assert.Equal(t, "Tor Books", book.Publisher.Name)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Frank Herbert", book.Authors[0].Name)
	require.Len(t, book.Genres, 1)
	assert.Equal(t, "Science Fiction", book.Genres[0].Name)

	// Partial update
	w = doRequest(t, r, http.MethodPut, "/api/books/"+bookID, gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)

	// Delete, then reads 404
	w = doRequest(t, r, http.MethodDelete, "/api/books/"+bookID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, r, http.MethodGet, "/api/books/"+bookID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookRejectsUnknownPublisher(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/books", gin.H{
		"title":        "Dune",
		"publisher_id": "not-a-publisher",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "publisher_id")
}

func TestDeleteReferencedPublisherConflicts(t *testing.T) {
	r := setupRouter(t)

	pubID := createEntity(t, r, "/api/publishers", gin.H{"name": "Tor Books"})
	createEntity(t, r, "/api/books", gin.H{"title": "Dune", "publisher_id": pubID})

	w := doRequest(t, r, http.MethodDelete, "/api/publishers/"+pubID, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "referenced by 1 book")

	// Still listed afterward
	w = doRequest(t, r, http.MethodGet, "/api/publishers/"+pubID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchBooksByTitleAndStatus(t *testing.T) {
	r := setupRouter(t)

	pubID := createEntity(t, r, "/api/publishers", gin.H{"name": "Tor Books"})
	dune := createEntity(t, r, "/api/books", gin.H{"title": "Dune Messiah", "publisher_id": pubID})
	createEntity(t, r, "/api/books", gin.H{"title": "Foundation", "publisher_id": pubID})

	w := doRequest(t, r, http.MethodPost, "/api/books/"+dune+"/status", gin.H{"reading_status": "reading"})
	require.Equal(t, http.StatusOK, w.Code)

	var books []struct {
		Title string `json:"title"`
	}

	w = doRequest(t, r, http.MethodGet, "/api/books?search=dune", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Dune Messiah", books[0].Title)

	w = doRequest(t, r, http.MethodGet, "/api/books?status=reading", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Dune Messiah", books[0].Title)
}

func TestReadingProgressEndpoints(t *testing.T) {
	r := setupRouter(t)

	pubID := createEntity(t, r, "/api/publishers", gin.H{"name": "Tor Books"})
	bookID := createEntity(t, r, "/api/books", gin.H{"title": "Dune", "pages": 412, "publisher_id": pubID})

	w := doRequest(t, r, http.MethodPost, "/api/books/"+bookID+"/progress", gin.H{"current_page": 100})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/books/"+bookID+"/progress", gin.H{"current_page": 500})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/books/"+bookID+"/progress", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/books/"+bookID+"/status", gin.H{"reading_status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/books/missing/status", gin.H{"reading_status": "reading"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLibraryStatsEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/library/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalBooks    int            `json:"total_books"`
		TotalAuthors  int            `json:"total_authors"`
		ReadingStatus map[string]int `json:"reading_status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalBooks)
	assert.Equal(t, 0, stats.TotalAuthors)
	assert.Empty(t, stats.ReadingStatus)
}

func TestRecommendationsEndpoint(t *testing.T) {
	r := setupRouter(t)

	pubID := createEntity(t, r, "/api/publishers", gin.H{"name": "Tor Books"})
	genreID := createEntity(t, r, "/api/genres", gin.H{"name": "Fantasy"})

	done := createEntity(t, r, "/api/books", gin.H{"title": "The Hobbit", "publisher_id": pubID, "genre_ids": []string{genreID}})
	w := doRequest(t, r, http.MethodPost, "/api/books/"+done+"/status", gin.H{"reading_status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	createEntity(t, r, "/api/books", gin.H{"title": "The Silmarillion", "publisher_id": pubID, "genre_ids": []string{genreID}})
	createEntity(t, r, "/api/books", gin.H{"title": "Moby Dick", "publisher_id": pubID})

	w = doRequest(t, r, http.MethodGet, "/api/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recommendations []struct {
			Title string `json:"title"`
		} `json:"recommendations"`
		UserReadingStats struct {
			CompletedBooks int      `json:"completed_books"`
			FavoriteGenres []string `json:"favorite_genres"`
		} `json:"user_reading_stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.UserReadingStats.CompletedBooks)
	assert.Equal(t, []string{"Fantasy"}, resp.UserReadingStats.FavoriteGenres)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "The Silmarillion", resp.Recommendations[0].Title)
}

func TestExportEndpoints(t *testing.T) {
	r := setupRouter(t)

	pubID := createEntity(t, r, "/api/publishers", gin.H{"name": "Tor Books"})
	createEntity(t, r, "/api/books", gin.H{"title": "Dune", "publisher_id": pubID})

	w := doRequest(t, r, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(w.Body.String(), "ID,Title,ISBN"))
	assert.Contains(t, w.Body.String(), "Dune")

	w = doRequest(t, r, http.MethodGet, "/api/export/json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, 1, doc.Total)
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
