package storage

import (
	"database/sql"

	"github.com/librisapp/libris/internal/models"
	"github.com/librisapp/libris/internal/validator"
)

func requireName(field, value string) *ValidationError {
	v := validator.New()
	v.Check(value != "", field, "must be provided")
	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}
	return nil
}

// deleteRow removes one row by id, translating "nothing deleted" into
// ErrNotFound. The statement is always a compile-time constant.
func deleteRow(q querier, stmt, id string) error {
	res, err := q.Exec(stmt, id)
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

// --- Authors ---

// CreateAuthor inserts a new author.
func (d *Database) CreateAuthor(a *models.Author) error {
	v := validator.New()
	v.Check(a.FirstName != "", "first_name", "must be provided")
	v.Check(a.LastName != "", "last_name", "must be provided")
	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}

	_, err := d.db.Exec(`INSERT INTO authors (id, first_name, last_name, biography) VALUES (?, ?, ?, ?)`,
		a.ID, a.FirstName, a.LastName, a.Biography)
	return err
}

// GetAuthor retrieves an author by id.
func (d *Database) GetAuthor(id string) (*models.Author, error) {
	a := &models.Author{}
	err := d.db.QueryRow(`SELECT id, first_name, last_name, biography FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName, &a.Biography)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.FullName = models.AuthorName(a.FirstName, a.LastName)
	return a, nil
}

// ListAuthors returns all authors in insertion order.
func (d *Database) ListAuthors() ([]models.Author, error) {
	rows, err := d.db.Query(`SELECT id, first_name, last_name, biography FROM authors ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make([]models.Author, 0)
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Biography); err != nil {
			return nil, err
		}
		a.FullName = models.AuthorName(a.FirstName, a.LastName)
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// AuthorUpdate holds a partial author update; nil fields are unchanged.
type AuthorUpdate struct {
	FirstName *string
	LastName  *string
	Biography *string
}

// UpdateAuthor merges upd onto the stored author.
func (d *Database) UpdateAuthor(id string, upd AuthorUpdate) error {
	a, err := d.GetAuthor(id)
	if err != nil {
		return err
	}

	if upd.FirstName != nil {
		a.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		a.LastName = *upd.LastName
	}
	if upd.Biography != nil {
		a.Biography = *upd.Biography
	}

	v := validator.New()
	v.Check(a.FirstName != "", "first_name", "must be provided")
	v.Check(a.LastName != "", "last_name", "must be provided")
	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}

	_, err = d.db.Exec(`UPDATE authors SET first_name = ?, last_name = ?, biography = ? WHERE id = ?`,
		a.FirstName, a.LastName, a.Biography, id)
	return err
}

// DeleteAuthor removes an author. Attachment rows cascade away, detaching
// the author from every book without deleting the books.
func (d *Database) DeleteAuthor(id string) error {
	return deleteRow(d.db, `DELETE FROM authors WHERE id = ?`, id)
}

// --- Publishers ---

// CreatePublisher inserts a new publisher.
func (d *Database) CreatePublisher(p *models.Publisher) error {
	if verr := requireName("name", p.Name); verr != nil {
		return verr
	}
	_, err := d.db.Exec(`INSERT INTO publishers (id, name, country) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.Country)
	return err
}

// GetPublisher retrieves a publisher by id.
func (d *Database) GetPublisher(id string) (*models.Publisher, error) {
	p := &models.Publisher{}
	err := d.db.QueryRow(`SELECT id, name, country FROM publishers WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Country)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublishers returns all publishers in insertion order.
func (d *Database) ListPublishers() ([]models.Publisher, error) {
	rows, err := d.db.Query(`SELECT id, name, country FROM publishers ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	publishers := make([]models.Publisher, 0)
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Country); err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
	}
	return publishers, rows.Err()
}

// PublisherUpdate holds a partial publisher update.
type PublisherUpdate struct {
	Name    *string
	Country *string
}

// UpdatePublisher merges upd onto the stored publisher.
func (d *Database) UpdatePublisher(id string, upd PublisherUpdate) error {
	p, err := d.GetPublisher(id)
	if err != nil {
		return err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Country != nil {
		p.Country = *upd.Country
	}
	if verr := requireName("name", p.Name); verr != nil {
		return verr
	}

	_, err = d.db.Exec(`UPDATE publishers SET name = ?, country = ? WHERE id = ?`, p.Name, p.Country, id)
	return err
}

// DeletePublisher removes a publisher. Every book requires a publisher,
// so the delete is rejected while any book references it. The dependent
// check and the delete run in one transaction.
func (d *Database) DeletePublisher(id string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var dependents int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM books WHERE publisher_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return &ReferentialIntegrityError{Kind: "publisher", Dependents: dependents}
	}

	if err := deleteRow(tx, `DELETE FROM publishers WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Genres ---

// CreateGenre inserts a new genre.
func (d *Database) CreateGenre(g *models.Genre) error {
	if verr := requireName("name", g.Name); verr != nil {
		return verr
	}
	_, err := d.db.Exec(`INSERT INTO genres (id, name, description) VALUES (?, ?, ?)`,
		g.ID, g.Name, g.Description)
	return err
}

// GetGenre retrieves a genre by id.
func (d *Database) GetGenre(id string) (*models.Genre, error) {
	g := &models.Genre{}
	err := d.db.QueryRow(`SELECT id, name, description FROM genres WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGenres returns all genres in insertion order.
func (d *Database) ListGenres() ([]models.Genre, error) {
	rows, err := d.db.Query(`SELECT id, name, description FROM genres ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]models.Genre, 0)
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// NamedUpdate holds a partial update for the simple named entities
// (genre, topic, category).
type NamedUpdate struct {
	Name        *string
	Description *string
}

// UpdateGenre merges upd onto the stored genre.
func (d *Database) UpdateGenre(id string, upd NamedUpdate) error {
	g, err := d.GetGenre(id)
	if err != nil {
		return err
	}
	if upd.Name != nil {
		g.Name = *upd.Name
	}
	if upd.Description != nil {
		g.Description = *upd.Description
	}
	if verr := requireName("name", g.Name); verr != nil {
		return verr
	}

	_, err = d.db.Exec(`UPDATE genres SET name = ?, description = ? WHERE id = ?`, g.Name, g.Description, id)
	return err
}

// DeleteGenre removes a genre, detaching it from every book.
func (d *Database) DeleteGenre(id string) error {
	return deleteRow(d.db, `DELETE FROM genres WHERE id = ?`, id)
}

// --- Topics ---

// CreateTopic inserts a new topic.
func (d *Database) CreateTopic(t *models.Topic) error {
	if verr := requireName("name", t.Name); verr != nil {
		return verr
	}
	_, err := d.db.Exec(`INSERT INTO topics (id, name, description) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.Description)
	return err
}

// GetTopic retrieves a topic by id.
func (d *Database) GetTopic(id string) (*models.Topic, error) {
	t := &models.Topic{}
	err := d.db.QueryRow(`SELECT id, name, description FROM topics WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTopics returns all topics in insertion order.
func (d *Database) ListTopics() ([]models.Topic, error) {
	rows, err := d.db.Query(`SELECT id, name, description FROM topics ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// UpdateTopic merges upd onto the stored topic.
func (d *Database) UpdateTopic(id string, upd NamedUpdate) error {
	t, err := d.GetTopic(id)
	if err != nil {
		return err
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if verr := requireName("name", t.Name); verr != nil {
		return verr
	}

	_, err = d.db.Exec(`UPDATE topics SET name = ?, description = ? WHERE id = ?`, t.Name, t.Description, id)
	return err
}

// DeleteTopic removes a topic. Topics are freestanding metadata.
func (d *Database) DeleteTopic(id string) error {
	return deleteRow(d.db, `DELETE FROM topics WHERE id = ?`, id)
}

// --- Categories ---

// CreateCategory inserts a new category.
func (d *Database) CreateCategory(c *models.Category) error {
	if verr := requireName("name", c.Name); verr != nil {
		return verr
	}
	_, err := d.db.Exec(`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Description)
	return err
}

// GetCategory retrieves a category by id.
func (d *Database) GetCategory(id string) (*models.Category, error) {
	c := &models.Category{}
	err := d.db.QueryRow(`SELECT id, name, description FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories in insertion order.
func (d *Database) ListCategories() ([]models.Category, error) {
	rows, err := d.db.Query(`SELECT id, name, description FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory merges upd onto the stored category.
func (d *Database) UpdateCategory(id string, upd NamedUpdate) error {
	c, err := d.GetCategory(id)
	if err != nil {
		return err
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if verr := requireName("name", c.Name); verr != nil {
		return verr
	}

	_, err = d.db.Exec(`UPDATE categories SET name = ?, description = ? WHERE id = ?`, c.Name, c.Description, id)
	return err
}

// DeleteCategory removes a category. The category reference is optional,
// so deletion nulls it out on affected books in the same transaction.
func (d *Database) DeleteCategory(id string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE books SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return err
	}
	if err := deleteRow(tx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Series ---

// CreateSeries inserts a new series.
func (d *Database) CreateSeries(s *models.Series) error {
	if verr := requireName("name", s.Name); verr != nil {
		return verr
	}
	_, err := d.db.Exec(`INSERT INTO series (id, name, description, total_books) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, s.TotalBooks)
	return err
}

// GetSeries retrieves a series by id.
func (d *Database) GetSeries(id string) (*models.Series, error) {
	s := &models.Series{}
	err := d.db.QueryRow(`SELECT id, name, description, total_books FROM series WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.TotalBooks)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSeries returns all series in insertion order.
func (d *Database) ListSeries() ([]models.Series, error) {
	rows, err := d.db.Query(`SELECT id, name, description, total_books FROM series ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make([]models.Series, 0)
	for rows.Next() {
		var s models.Series
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.TotalBooks); err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, rows.Err()
}

// SeriesUpdate holds a partial series update.
type SeriesUpdate struct {
	Name        *string
	Description *string
	TotalBooks  *int
}

// UpdateSeries merges upd onto the stored series.
func (d *Database) UpdateSeries(id string, upd SeriesUpdate) error {
	s, err := d.GetSeries(id)
	if err != nil {
		return err
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Description != nil {
		s.Description = *upd.Description
	}
	if upd.TotalBooks != nil {
		s.TotalBooks = *upd.TotalBooks
	}
	if verr := requireName("name", s.Name); verr != nil {
		return verr
	}

	_, err = d.db.Exec(`UPDATE series SET name = ?, description = ?, total_books = ? WHERE id = ?`,
		s.Name, s.Description, s.TotalBooks, id)
	return err
}

// DeleteSeries removes a series. The series reference is optional, so
// deletion nulls it (and the position) on affected books atomically.
func (d *Database) DeleteSeries(id string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE books SET series_id = NULL, series_position = 0 WHERE series_id = ?`, id); err != nil {
		return err
	}
	if err := deleteRow(tx, `DELETE FROM series WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
