// import-csv seeds the catalog from a books CSV. Authors and genres
// named in a row are reused by natural key when they already exist, so
// the import can be re-run without piling up duplicates. A row with an
// imprint also mints one copy of the book.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"librarian/pkg/database"
	"librarian/pkg/models"
)

func main() {
	booksIn := flag.String("books", "data/books.csv", "input CSV path for books")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := importBooks(ctx, db, *booksIn)
	if err != nil {
		log.Fatalf("import books failed: %v", err)
	}

	log.Printf("imported %d books from %s", n, *booksIn)
}

func importBooks(ctx context.Context, db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(row) == 0 {
			continue
		}

		title := valueAt(header, row, "title")
		family := valueAt(header, row, "author_family")
		if title == "" || family == "" {
			continue
		}

		authorID, err := ensureAuthor(ctx, db, valueAt(header, row, "author_first"), family)
		if err != nil {
			return count, fmt.Errorf("ensure author for %q: %w", title, err)
		}

		genreIDs := []string{}
		for _, name := range strings.Split(valueAt(header, row, "genres"), "|") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			id, err := ensureGenre(ctx, db, name)
			if err != nil {
				return count, fmt.Errorf("ensure genre %q: %w", name, err)
			}
			genreIDs = append(genreIDs, id)
		}
		genresJSON, _ := json.Marshal(genreIDs)

		bookID := uuid.NewString()
		if _, err := db.ExecContext(ctx, `
			INSERT INTO books (id, title, author_id, summary, isbn, genre_ids)
			VALUES (?, ?, ?, ?, ?, ?)
		`, bookID, title, authorID,
			valueAt(header, row, "summary"),
			valueAt(header, row, "isbn"),
			string(genresJSON),
		); err != nil {
			return count, fmt.Errorf("insert book %q: %w", title, err)
		}

		if imprint := valueAt(header, row, "imprint"); imprint != "" {
			status := valueAt(header, row, "status")
			if status == "" {
				status = models.StatusMaintenance
			}
			if _, err := db.ExecContext(ctx, `
				INSERT INTO book_instances (id, book_id, imprint, status, due_back)
				VALUES (?, ?, ?, ?, ?)
			`, uuid.NewString(), bookID, imprint, status, time.Now().UTC().Format(time.RFC3339)); err != nil {
				return count, fmt.Errorf("insert copy for %q: %w", title, err)
			}
		}

		count++
	}

	return count, nil
}

func ensureAuthor(ctx context.Context, db *sql.DB, first, family string) (string, error) {
	var id string
	err := db.QueryRowContext(ctx, `
		SELECT id FROM authors WHERE first_name = ? AND family_name = ? LIMIT 1
	`, first, family).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO authors (id, first_name, family_name) VALUES (?, ?, ?)
	`, id, first, family)
	return id, err
}

func ensureGenre(ctx context.Context, db *sql.DB, name string) (string, error) {
	var id string
	err := db.QueryRowContext(ctx, `
		SELECT id FROM genres WHERE name = ? LIMIT 1
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.NewString()
	_, err = db.ExecContext(ctx, `INSERT INTO genres (id, name) VALUES (?, ?)`, id, name)
	return id, err
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
