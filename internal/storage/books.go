package storage

import (
	"database/sql"
	"time"

	"github.com/librisapp/libris/internal/models"
	"github.com/librisapp/libris/internal/validator"
)

const bookColumns = `id, title, isbn, publication_year, pages, language, description,
	reading_status, current_page, rating, notes, publisher_id, series_id,
	series_position, category_id, created_at`

// validateBook checks the field-level invariants of a fully merged book
// record. Reference existence is checked separately, inside the write
// transaction.
func validateBook(b *models.Book) *ValidationError {
	v := validator.New()

	v.Check(b.Title != "", "title", "must be provided")
	v.Check(b.PublisherID != "", "publisher_id", "must be provided")
	v.Check(models.ValidReadingStatus(b.ReadingStatus), "reading_status", "must be one of unread, reading, completed, abandoned")
	v.Check(b.Pages >= 0, "pages", "must be a positive number")
	v.Check(b.CurrentPage >= 0, "current_page", "must not be negative")
	if b.Pages > 0 {
		v.Check(b.CurrentPage <= b.Pages, "current_page", "must not exceed pages")
	}
	if b.Rating != nil {
		v.Check(*b.Rating >= 1 && *b.Rating <= 5, "rating", "must be between 1 and 5")
	}

	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}
	return nil
}

// checkBookRefs verifies every entity the book points at exists. Runs in
// the same transaction as the write so a concurrent delete cannot slip in
// between check and insert.
func checkBookRefs(tx *sql.Tx, b *models.Book) error {
	v := validator.New()

	refs := []struct {
		table, field, id string
	}{
		{"publishers", "publisher_id", b.PublisherID},
		{"series", "series_id", b.SeriesID},
		{"categories", "category_id", b.CategoryID},
	}
	for _, ref := range refs {
		if ref.id == "" {
			continue
		}
		ok, err := rowExists(tx, ref.table, ref.id)
		if err != nil {
			return err
		}
		v.Check(ok, ref.field, "references an unknown "+ref.field[:len(ref.field)-3])
	}

	for _, id := range b.AuthorIDs {
		ok, err := rowExists(tx, "authors", id)
		if err != nil {
			return err
		}
		if !ok {
			v.AddError("author_ids", "contains an unknown author")
			break
		}
	}
	for _, id := range b.GenreIDs {
		ok, err := rowExists(tx, "genres", id)
		if err != nil {
			return err
		}
		if !ok {
			v.AddError("genre_ids", "contains an unknown genre")
			break
		}
	}

	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}
	return nil
}

func attachmentIDs(q querier, query, bookID string) ([]string, error) {
	rows, err := q.Query(query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// replaceAttachments replaces the book's author and genre sets wholesale.
func replaceAttachments(tx *sql.Tx, bookID string, authorIDs, genreIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM book_authors WHERE book_id = ?`, bookID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM book_genres WHERE book_id = ?`, bookID); err != nil {
		return err
	}

	for _, id := range authorIDs {
		_, err := tx.Exec(`INSERT OR IGNORE INTO book_authors (book_id, author_id) VALUES (?, ?)`, bookID, id)
		if err != nil {
			return err
		}
	}
	for _, id := range genreIDs {
		_, err := tx.Exec(`INSERT OR IGNORE INTO book_genres (book_id, genre_id) VALUES (?, ?)`, bookID, id)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateBook inserts a new book with its author and genre attachments in
// one transaction.
func (d *Database) CreateBook(book *models.Book) error {
	if book.ReadingStatus == "" {
		book.ReadingStatus = models.StatusUnread
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}

	if verr := validateBook(book); verr != nil {
		return verr
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkBookRefs(tx, book); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO books (id, title, isbn, publication_year, pages, language, description,
			reading_status, current_page, rating, notes, publisher_id, series_id,
			series_position, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.ISBN, book.PublicationYear, book.Pages, book.Language,
		book.Description, book.ReadingStatus, book.CurrentPage, book.Rating, book.Notes,
		book.PublisherID, nullable(book.SeriesID), book.SeriesPosition,
		nullable(book.CategoryID), book.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := replaceAttachments(tx, book.ID, book.AuthorIDs, book.GenreIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func scanBook(scan func(dest ...interface{}) error) (*models.Book, error) {
	book := &models.Book{}
	var (
		rating     sql.NullInt64
		seriesID   sql.NullString
		categoryID sql.NullString
	)

	err := scan(&book.ID, &book.Title, &book.ISBN, &book.PublicationYear, &book.Pages,
		&book.Language, &book.Description, &book.ReadingStatus, &book.CurrentPage,
		&rating, &book.Notes, &book.PublisherID, &seriesID, &book.SeriesPosition,
		&categoryID, &book.CreatedAt)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		r := int(rating.Int64)
		book.Rating = &r
	}
	book.SeriesID = seriesID.String
	book.CategoryID = categoryID.String

	return book, nil
}

// hydrateBook resolves the book's references to display names and fills
// the raw id slices alongside them.
func (d *Database) hydrateBook(book *models.Book) error {
	book.AuthorIDs = make([]string, 0)
	book.Authors = make([]models.Ref, 0)
	book.GenreIDs = make([]string, 0)
	book.Genres = make([]models.Ref, 0)

	rows, err := d.db.Query(`
		SELECT a.id, a.first_name, a.last_name
		FROM authors a
		JOIN book_authors ba ON a.id = ba.author_id
		WHERE ba.book_id = ?
		ORDER BY ba.rowid`, book.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return err
		}
		book.AuthorIDs = append(book.AuthorIDs, a.ID)
		book.Authors = append(book.Authors, models.Ref{ID: a.ID, Name: models.AuthorName(a.FirstName, a.LastName)})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	genreRows, err := d.db.Query(`
		SELECT g.id, g.name
		FROM genres g
		JOIN book_genres bg ON g.id = bg.genre_id
		WHERE bg.book_id = ?
		ORDER BY bg.rowid`, book.ID)
	if err != nil {
		return err
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var g models.Ref
		if err := genreRows.Scan(&g.ID, &g.Name); err != nil {
			return err
		}
		book.GenreIDs = append(book.GenreIDs, g.ID)
		book.Genres = append(book.Genres, g)
	}
	if err := genreRows.Err(); err != nil {
		return err
	}

	var name string
	if err := d.db.QueryRow(`SELECT name FROM publishers WHERE id = ?`, book.PublisherID).Scan(&name); err == nil {
		book.Publisher = &models.Ref{ID: book.PublisherID, Name: name}
	} else if err != sql.ErrNoRows {
		return err
	}

	if book.SeriesID != "" {
		if err := d.db.QueryRow(`SELECT name FROM series WHERE id = ?`, book.SeriesID).Scan(&name); err == nil {
			book.Series = &models.Ref{ID: book.SeriesID, Name: name}
		} else if err != sql.ErrNoRows {
			return err
		}
	}
	if book.CategoryID != "" {
		if err := d.db.QueryRow(`SELECT name FROM categories WHERE id = ?`, book.CategoryID).Scan(&name); err == nil {
			book.Category = &models.Ref{ID: book.CategoryID, Name: name}
		} else if err != sql.ErrNoRows {
			return err
		}
	}

	return nil
}

// GetBook retrieves a book by id with its references resolved.
func (d *Database) GetBook(id string) (*models.Book, error) {
	row := d.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	book, err := scanBook(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := d.hydrateBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns every book in insertion order, hydrated.
func (d *Database) ListBooks() ([]models.Book, error) {
	return d.SearchBooks("", "")
}

// SearchBooks filters books by a case-insensitive title substring and an
// exact reading status. Either filter may be empty; both are ANDed.
// Results keep insertion order.
func (d *Database) SearchBooks(search, status string) ([]models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	var (
		conds []string
		args  []interface{}
	)

	if search != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+search+"%")
	}
	if status != "" {
		conds = append(conds, "reading_status = ?")
		args = append(args, status)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY rowid"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range books {
		if err := d.hydrateBook(&books[i]); err != nil {
			return nil, err
		}
	}
	return books, nil
}

// BookUpdate holds a partial update. Nil fields are left unchanged;
// non-nil AuthorIDs/GenreIDs replace the prior attachment set wholesale.
type BookUpdate struct {
	Title           *string
	ISBN            *string
	PublicationYear *int
	Pages           *int
	Language        *string
	Description     *string
	ReadingStatus   *string
	CurrentPage     *int
	Rating          *int
	Notes           *string
	PublisherID     *string
	SeriesID        *string
	SeriesPosition  *int
	CategoryID      *string
	AuthorIDs       *[]string
	GenreIDs        *[]string
}

// UpdateBook merges upd onto the stored record and applies the result
// atomically. A failing update leaves the book untouched.
func (d *Database) UpdateBook(id string, upd BookUpdate) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	book, err := scanBook(row.Scan)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	book.AuthorIDs, err = attachmentIDs(tx, `SELECT author_id FROM book_authors WHERE book_id = ? ORDER BY rowid`, id)
	if err != nil {
		return err
	}
	book.GenreIDs, err = attachmentIDs(tx, `SELECT genre_id FROM book_genres WHERE book_id = ? ORDER BY rowid`, id)
	if err != nil {
		return err
	}

	if upd.Title != nil {
		book.Title = *upd.Title
	}
	if upd.ISBN != nil {
		book.ISBN = *upd.ISBN
	}
	if upd.PublicationYear != nil {
		book.PublicationYear = *upd.PublicationYear
	}
	if upd.Pages != nil {
		book.Pages = *upd.Pages
	}
	if upd.Language != nil {
		book.Language = *upd.Language
	}
	if upd.Description != nil {
		book.Description = *upd.Description
	}
	if upd.ReadingStatus != nil {
		book.ReadingStatus = *upd.ReadingStatus
	}
	if upd.CurrentPage != nil {
		book.CurrentPage = *upd.CurrentPage
	}
	if upd.Rating != nil {
		book.Rating = upd.Rating
	}
	if upd.Notes != nil {
		book.Notes = *upd.Notes
	}
	if upd.PublisherID != nil {
		book.PublisherID = *upd.PublisherID
	}
	if upd.SeriesID != nil {
		book.SeriesID = *upd.SeriesID
	}
	if upd.SeriesPosition != nil {
		book.SeriesPosition = *upd.SeriesPosition
	}
	if upd.CategoryID != nil {
		book.CategoryID = *upd.CategoryID
	}
	if upd.AuthorIDs != nil {
		book.AuthorIDs = *upd.AuthorIDs
	}
	if upd.GenreIDs != nil {
		book.GenreIDs = *upd.GenreIDs
	}

	if verr := validateBook(book); verr != nil {
		return verr
	}
	if err := checkBookRefs(tx, book); err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE books SET title = ?, isbn = ?, publication_year = ?, pages = ?,
			language = ?, description = ?, reading_status = ?, current_page = ?,
			rating = ?, notes = ?, publisher_id = ?, series_id = ?,
			series_position = ?, category_id = ?
		WHERE id = ?`,
		book.Title, book.ISBN, book.PublicationYear, book.Pages, book.Language,
		book.Description, book.ReadingStatus, book.CurrentPage, book.Rating,
		book.Notes, book.PublisherID, nullable(book.SeriesID), book.SeriesPosition,
		nullable(book.CategoryID), id,
	)
	if err != nil {
		return err
	}

	if upd.AuthorIDs != nil || upd.GenreIDs != nil {
		if err := replaceAttachments(tx, id, book.AuthorIDs, book.GenreIDs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteBook removes a book; its attachment rows cascade away with it.
func (d *Database) DeleteBook(id string) error {
	res, err := d.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
