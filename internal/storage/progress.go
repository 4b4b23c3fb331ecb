package storage

import (
	"database/sql"

	"github.com/librisapp/libris/internal/models"
	"github.com/librisapp/libris/internal/validator"
)

// SetReadingStatus sets a book's reading status. Any status may follow
// any other, so repeating a status is a no-op.
func (d *Database) SetReadingStatus(id, status string) error {
	if !models.ValidReadingStatus(status) {
		v := validator.New()
		v.AddError("reading_status", "must be one of unread, reading, completed, abandoned")
		return &ValidationError{Fields: v.Errors}
	}

	res, err := d.db.Exec(`UPDATE books SET reading_status = ? WHERE id = ?`, status, id)
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

// SetReadingProgress sets a book's current page. The page is validated
// against the book's page count when one is recorded, inside the same
// transaction as the write. The value is stored whatever the reading
// status; consumers only render a percentage while status is "reading".
func (d *Database) SetReadingProgress(id string, page int) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pages int
	err = tx.QueryRow(`SELECT pages FROM books WHERE id = ?`, id).Scan(&pages)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	v := validator.New()
	v.Check(page >= 0, "current_page", "must not be negative")
	if pages > 0 {
		v.Check(page <= pages, "current_page", "must not exceed pages")
	}
	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}

	if _, err := tx.Exec(`UPDATE books SET current_page = ? WHERE id = ?`, page, id); err != nil {
		return err
	}
	return tx.Commit()
}
