// export-csv dumps the catalog to CSV files shaped like the ones
// import-csv reads, so a dump can be re-imported elsewhere.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"librarian/pkg/database"
)

func main() {
	var (
		booksOut  = flag.String("books", "data/books_export.csv", "output CSV path for books")
		copiesOut = flag.String("copies", "data/copies_export.csv", "output CSV path for copies")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportBooks(ctx, db, *booksOut); err != nil {
		log.Fatalf("export books failed: %v", err)
	}
	if err := exportCopies(ctx, db, *copiesOut); err != nil {
		log.Fatalf("export copies failed: %v", err)
	}

	log.Printf("exported books to %s and copies to %s", *booksOut, *copiesOut)
}

func exportBooks(ctx context.Context, db *sql.DB, outPath string) error {
	w, closeFn, err := createWriter(outPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Write([]string{"title", "author_first", "author_family", "isbn", "summary", "genres"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT b.title, a.first_name, a.family_name, b.isbn, b.summary, b.genre_ids
		FROM books b
		JOIN authors a ON a.id = b.author_id
		ORDER BY b.title
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var title, first, family, isbn, summary, genresJSON string
		if err := rows.Scan(&title, &first, &family, &isbn, &summary, &genresJSON); err != nil {
			return err
		}

		names, err := genreNames(ctx, db, genresJSON)
		if err != nil {
			return err
		}

		if err := w.Write([]string{title, first, family, isbn, summary, strings.Join(names, "|")}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportCopies(ctx context.Context, db *sql.DB, outPath string) error {
	w, closeFn, err := createWriter(outPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := w.Write([]string{"book_title", "imprint", "status", "due_back"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT b.title, bi.imprint, bi.status, bi.due_back
		FROM book_instances bi
		JOIN books b ON b.id = bi.book_id
		ORDER BY b.title, bi.imprint
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var title, imprint, status, due string
		if err := rows.Scan(&title, &imprint, &status, &due); err != nil {
			return err
		}
		if err := w.Write([]string{title, imprint, status, due}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// genreNames resolves a stored genre id array into names, keeping the
// stored order.
func genreNames(ctx context.Context, db *sql.DB, genresJSON string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(genresJSON), &ids); err != nil || len(ids) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM genres WHERE id = ?`, id).Scan(&name)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func createWriter(outPath string) (*csv.Writer, func(), error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(f), func() { f.Close() }, nil
}
