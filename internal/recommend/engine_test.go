package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisapp/libris/internal/models"
)

func book(id, status string, rating *int, year int, genres ...string) models.Book {
	b := models.Book{
		ID:              id,
		Title:           "Book " + id,
		ReadingStatus:   status,
		Rating:          rating,
		PublicationYear: year,
	}
	for _, g := range genres {
		b.Genres = append(b.Genres, models.Ref{ID: g, Name: g})
	}
	return b
}

func intPtr(n int) *int { return &n }

func ids(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestRankPrefersFavoriteGenreOverlap(t *testing.T) {
	catalog := []models.Book{
		book("c1", models.StatusCompleted, nil, 0, "Fantasy"),
		book("c2", models.StatusCompleted, nil, 0, "Fantasy", "SciFi"),
		book("u1", models.StatusUnread, nil, 0, "Western"),
		book("u2", models.StatusUnread, nil, 0, "Fantasy"),
	}

	result := Rank(catalog, DefaultLimit)

	assert.Equal(t, 2, result.UserReadingStats.CompletedBooks)
	assert.Equal(t, []string{"Fantasy", "SciFi"}, result.UserReadingStats.FavoriteGenres)
	assert.Equal(t, []string{"u2", "u1"}, ids(result.Recommendations))
}

func TestFavoriteGenresTopThreeFirstEncounteredTies(t *testing.T) {
	catalog := []models.Book{
		book("c1", models.StatusCompleted, nil, 0, "Fantasy", "SciFi"),
		book("c2", models.StatusCompleted, nil, 0, "Fantasy", "Horror"),
		book("c3", models.StatusCompleted, nil, 0, "Mystery"),
	}

	result := Rank(catalog, DefaultLimit)

	// Fantasy leads on count; SciFi, Horror and Mystery all tie at one,
	// so first-encountered order decides and Mystery misses the cut.
	assert.Equal(t, []string{"Fantasy", "SciFi", "Horror"}, result.UserReadingStats.FavoriteGenres)
}

func TestColdStartRanksByRatingThenID(t *testing.T) {
	catalog := []models.Book{
		book("u3", models.StatusUnread, intPtr(3), 2020, "Fantasy"),
		book("u1", models.StatusUnread, intPtr(5), 1970),
		book("u4", models.StatusUnread, nil, 2024),
		book("u2", models.StatusUnread, intPtr(5), 1960),
	}

	result := Rank(catalog, DefaultLimit)

	assert.Equal(t, 0, result.UserReadingStats.CompletedBooks)
	assert.Empty(t, result.UserReadingStats.FavoriteGenres)
	// Rating descending; u1/u2 tie at 5 and fall back to id order even
	// though u2 is older. Genre attachments are ignored entirely.
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, ids(result.Recommendations))
}

func TestRatingThenYearBreakOverlapTies(t *testing.T) {
	catalog := []models.Book{
		book("c1", models.StatusCompleted, nil, 0, "Fantasy"),
		book("u1", models.StatusUnread, intPtr(3), 1990, "Fantasy"),
		book("u2", models.StatusUnread, intPtr(5), 1980, "Fantasy"),
		book("u3", models.StatusUnread, intPtr(5), 2005, "Fantasy"),
	}

	result := Rank(catalog, DefaultLimit)

	// Equal overlap: higher rating wins, then the newer book.
	assert.Equal(t, []string{"u3", "u2", "u1"}, ids(result.Recommendations))
}

func TestZeroOverlapCandidatesRemainEligible(t *testing.T) {
	catalog := []models.Book{
		book("c1", models.StatusCompleted, nil, 0, "Fantasy"),
		book("u1", models.StatusUnread, nil, 0),
		book("u2", models.StatusUnread, intPtr(2), 0, "Western"),
	}

	result := Rank(catalog, DefaultLimit)

	// Neither candidate overlaps the favorites, but both are returned.
	assert.Equal(t, []string{"u2", "u1"}, ids(result.Recommendations))
}

func TestRankOnlyConsidersUnreadCandidates(t *testing.T) {
	catalog := []models.Book{
		book("c1", models.StatusCompleted, nil, 0, "Fantasy"),
		book("r1", models.StatusReading, intPtr(5), 0, "Fantasy"),
		book("a1", models.StatusAbandoned, intPtr(5), 0, "Fantasy"),
		book("u1", models.StatusUnread, nil, 0, "Fantasy"),
	}

	result := Rank(catalog, DefaultLimit)

	assert.Equal(t, []string{"u1"}, ids(result.Recommendations))
}

func TestRankTruncatesToLimit(t *testing.T) {
	catalog := make([]models.Book, 0, 15)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		catalog = append(catalog, book("u-"+id, models.StatusUnread, nil, 0))
	}

	result := Rank(catalog, DefaultLimit)
	assert.Len(t, result.Recommendations, DefaultLimit)
}

func TestRankEmptyCatalog(t *testing.T) {
	result := Rank(nil, DefaultLimit)
	require.NotNil(t, result.Recommendations)
	assert.Empty(t, result.Recommendations)
	assert.NotNil(t, result.UserReadingStats.FavoriteGenres)
	assert.Empty(t, result.UserReadingStats.FavoriteGenres)
}

func TestRankDoesNotMutateSnapshot(t *testing.T) {
	catalog := []models.Book{
		book("u2", models.StatusUnread, intPtr(1), 0),
		book("u1", models.StatusUnread, intPtr(5), 0),
	}

	Rank(catalog, DefaultLimit)

	assert.Equal(t, "u2", catalog[0].ID)
	assert.Equal(t, "u1", catalog[1].ID)
}
