// Package recommend ranks unread books against the reader's completed
// history. It operates on a point-in-time catalog snapshot and never
// mutates it.
package recommend

import (
	"sort"

	"github.com/librisapp/libris/internal/models"
)

// DefaultLimit is the number of recommendations served over the API.
const DefaultLimit = 10

const maxFavoriteGenres = 3

// ReadingStats summarizes the history the ranking was derived from.
type ReadingStats struct {
	CompletedBooks int      `json:"completed_books"`
	FavoriteGenres []string `json:"favorite_genres"`
}

// Result is the ranked recommendation set plus its supporting stats.
type Result struct {
	Recommendations  []models.Book `json:"recommendations"`
	UserReadingStats ReadingStats  `json:"user_reading_stats"`
}

// Rank partitions the snapshot into completed books and unread
// candidates, derives the reader's favorite genres from the completed
// set, and returns up to limit candidates ordered best-first.
//
// Ordering is lexicographic: favorite-genre overlap, then rating
// (missing counts as zero), then publication year, then id ascending so
// equal candidates rank deterministically. With no completed history the
// overlap term is meaningless and candidates rank by rating alone, ties
// by id.
func Rank(books []models.Book, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var completed, candidates []models.Book
	for _, b := range books {
		switch b.ReadingStatus {
		case models.StatusCompleted:
			completed = append(completed, b)
		case models.StatusUnread:
			candidates = append(candidates, b)
		}
	}

	favorites := favoriteGenres(completed)
	favSet := make(map[string]struct{}, len(favorites))
	for _, name := range favorites {
		favSet[name] = struct{}{}
	}

	coldStart := len(favorites) == 0

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := &candidates[i], &candidates[j]

		if !coldStart {
			oa, ob := genreOverlap(a, favSet), genreOverlap(b, favSet)
			if oa != ob {
				return oa > ob
			}
		}
		if ra, rb := ratingOf(a), ratingOf(b); ra != rb {
			return ra > rb
		}
		if !coldStart && a.PublicationYear != b.PublicationYear {
			return a.PublicationYear > b.PublicationYear
		}
		return a.ID < b.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	if candidates == nil {
		candidates = make([]models.Book, 0)
	}

	return Result{
		Recommendations: candidates,
		UserReadingStats: ReadingStats{
			CompletedBooks: len(completed),
			FavoriteGenres: favorites,
		},
	}
}

// favoriteGenres counts genre occurrences over the completed books and
// returns the top names, ties broken by first-encountered order.
func favoriteGenres(completed []models.Book) []string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, b := range completed {
		for _, g := range b.Genres {
			if counts[g.Name] == 0 {
				order = append(order, g.Name)
			}
			counts[g.Name]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxFavoriteGenres {
		order = order[:maxFavoriteGenres]
	}
	return order
}

func genreOverlap(b *models.Book, favorites map[string]struct{}) int {
	n := 0
	for _, g := range b.Genres {
		if _, ok := favorites[g.Name]; ok {
			n++
		}
	}
	return n
}

func ratingOf(b *models.Book) int {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}
