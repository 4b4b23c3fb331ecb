// Package export serializes a full catalog snapshot for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/librisapp/libris/internal/models"
)

// WriteCSV writes the catalog as CSV, one row per book with author names
// comma-joined.
func WriteCSV(w io.Writer, books []models.Book) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ID", "Title", "ISBN", "Year", "Pages", "Authors", "Publisher", "Status", "Rating"}); err != nil {
		return err
	}

	for _, b := range books {
		record := []string{
			b.ID,
			b.Title,
			b.ISBN,
			intField(b.PublicationYear),
			intField(b.Pages),
			joinAuthors(b),
			publisherName(b),
			b.ReadingStatus,
			ratingField(b),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonBook struct {
	Title     string   `json:"title"`
	ISBN      string   `json:"isbn,omitempty"`
	Year      int      `json:"year,omitempty"`
	Pages     int      `json:"pages,omitempty"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	Status    string   `json:"status"`
	Rating    *int     `json:"rating,omitempty"`
}

type jsonExport struct {
	ExportDate string     `json:"export_date"`
	Total      int        `json:"total"`
	Books      []jsonBook `json:"books"`
}

// WriteJSON writes the catalog as an indented JSON document with an
// export timestamp and book total.
func WriteJSON(w io.Writer, books []models.Book) error {
	doc := jsonExport{
		ExportDate: time.Now().Format(time.RFC3339),
		Total:      len(books),
		Books:      make([]jsonBook, 0, len(books)),
	}

	for _, b := range books {
		authors := make([]string, 0, len(b.Authors))
		for _, a := range b.Authors {
			authors = append(authors, a.Name)
		}
		doc.Books = append(doc.Books, jsonBook{
			Title:     b.Title,
			ISBN:      b.ISBN,
			Year:      b.PublicationYear,
			Pages:     b.Pages,
			Authors:   authors,
			Publisher: publisherName(b),
			Status:    b.ReadingStatus,
			Rating:    b.Rating,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func joinAuthors(b models.Book) string {
	out := ""
	for i, a := range b.Authors {
		if i > 0 {
			out += ", "
		}
		out += a.Name
	}
	return out
}

func publisherName(b models.Book) string {
	if b.Publisher == nil {
		return ""
	}
	return b.Publisher.Name
}

func intField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func ratingField(b models.Book) string {
	if b.Rating == nil {
		return ""
	}
	return strconv.Itoa(*b.Rating)
}
