package models

import "time"

// Reading status values for a book. Status is a free-form classification:
// any value may follow any other.
const (
	StatusUnread    = "unread"
	StatusReading   = "reading"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// ReadingStatuses lists every valid reading status.
var ReadingStatuses = []string{StatusUnread, StatusReading, StatusCompleted, StatusAbandoned}

// ValidReadingStatus reports whether s is a known reading status.
func ValidReadingStatus(s string) bool {
	for _, v := range ReadingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Ref is a foreign-key reference resolved to its display name.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book represents a catalog record for a single book.
// Zero values mean "not set" for the optional numeric fields; Rating is a
// pointer so an absent rating is distinguishable from a rating of zero.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ISBN            string    `json:"isbn,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Pages           int       `json:"pages,omitempty"`
	Language        string    `json:"language,omitempty"`
	Description     string    `json:"description,omitempty"`
	ReadingStatus   string    `json:"reading_status"`
	CurrentPage     int       `json:"current_page"`
	Rating          *int      `json:"rating,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	PublisherID     string    `json:"publisher_id"`
	SeriesID        string    `json:"series_id,omitempty"`
	SeriesPosition  int       `json:"series_position,omitempty"`
	CategoryID      string    `json:"category_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	AuthorIDs []string `json:"author_ids"`
	GenreIDs  []string `json:"genre_ids"`

	// Resolved references, populated on reads so consumers can render
	// display text without a second lookup.
	Publisher *Ref  `json:"publisher,omitempty"`
	Authors   []Ref `json:"authors"`
	Genres    []Ref `json:"genres"`
	Series    *Ref  `json:"series,omitempty"`
	Category  *Ref  `json:"category,omitempty"`
}

// Author represents a book author. FullName is derived from the name
// parts on every read; it is never stored.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Biography string `json:"biography,omitempty"`
	FullName  string `json:"full_name"`
}

// AuthorName composes an author's display name.
func AuthorName(first, last string) string {
	return first + " " + last
}

// Publisher represents a publishing company.
type Publisher struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// Genre classifies books by literary genre.
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Topic is a subject tag kept as catalog metadata.
type Topic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Category is a shelf-level grouping; a book belongs to at most one.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Series represents a book series.
type Series struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TotalBooks  int    `json:"total_books,omitempty"`
}

// RecentBook is the abbreviated book shape embedded in library stats.
type RecentBook struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
}

// LibraryStats summarizes the catalog for dashboard consumption.
// Statuses with no books are omitted from ReadingStatus; a missing key
// means zero.
type LibraryStats struct {
	TotalBooks      int            `json:"total_books"`
	TotalAuthors    int            `json:"total_authors"`
	TotalPublishers int            `json:"total_publishers"`
	ReadingStatus   map[string]int `json:"reading_status"`
	RecentBooks     []RecentBook   `json:"recent_books"`
}
