package storage

import "github.com/librisapp/libris/internal/models"

// LibraryStats aggregates summary counts over the current catalog.
// Statuses with no books are simply absent from the breakdown.
func (d *Database) LibraryStats() (*models.LibraryStats, error) {
	stats := &models.LibraryStats{
		ReadingStatus: make(map[string]int),
		RecentBooks:   make([]models.RecentBook, 0),
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM books`, &stats.TotalBooks},
		{`SELECT COUNT(*) FROM authors`, &stats.TotalAuthors},
		{`SELECT COUNT(*) FROM publishers`, &stats.TotalPublishers},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	rows, err := d.db.Query(`SELECT reading_status, COUNT(*) FROM books GROUP BY reading_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ReadingStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// rowid tracks insertion recency and orders reliably within a second,
	// which stored timestamps do not.
	recentRows, err := d.db.Query(`
		SELECT id, title FROM books
		ORDER BY rowid DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer recentRows.Close()
	for recentRows.Next() {
		var rb models.RecentBook
		if err := recentRows.Scan(&rb.ID, &rb.Title); err != nil {
			return nil, err
		}
		stats.RecentBooks = append(stats.RecentBooks, rb)
	}
	if err := recentRows.Err(); err != nil {
		return nil, err
	}

	for i := range stats.RecentBooks {
		names, err := d.authorNamesForBook(stats.RecentBooks[i].ID)
		if err != nil {
			return nil, err
		}
		stats.RecentBooks[i].Authors = names
	}

	return stats, nil
}

func (d *Database) authorNamesForBook(bookID string) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT a.first_name, a.last_name
		FROM authors a
		JOIN book_authors ba ON a.id = ba.author_id
		WHERE ba.book_id = ?
		ORDER BY ba.rowid`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		names = append(names, models.AuthorName(a.FirstName, a.LastName))
	}
	return names, rows.Err()
}
