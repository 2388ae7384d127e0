package book

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"librarian/pkg/models"
)

const dateLayout = "2006-01-02"

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// List returns every book ordered by title, with its author joined in
// for display. Genre lists are not populated here.
func (r *Repo) List(ctx context.Context) ([]models.Book, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT b.id, b.title, b.author_id, b.summary, b.isbn, b.genre_ids,
		       a.first_name, a.family_name, a.date_of_birth, a.date_of_death
		FROM books b
		JOIN authors a ON a.id = b.author_id
		ORDER BY b.title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// GetByID returns the book fully populated: author joined, genres
// resolved from the stored id array.
func (r *Repo) GetByID(ctx context.Context, id string) (*models.Book, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT b.id, b.title, b.author_id, b.summary, b.isbn, b.genre_ids,
		       a.first_name, a.family_name, a.date_of_birth, a.date_of_death
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE b.id = ?
	`, id)

	b, err := scanBookWithAuthor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	genres, err := r.genresFor(ctx, b.GenreIDs)
	if err != nil {
		return nil, err
	}
	b.Genres = genres
	return &b, nil
}

// ListByAuthor returns an author's books projected to title and
// summary, the shape the author detail and delete views need.
func (r *Repo) ListByAuthor(ctx context.Context, authorID string) ([]models.Book, error) {
	return r.listProjected(ctx, `
		SELECT id, title, summary FROM books
		WHERE author_id = ?
		ORDER BY title ASC
	`, authorID)
}

// ListByGenre returns the books whose stored genre id array contains
// genreID.
func (r *Repo) ListByGenre(ctx context.Context, genreID string) ([]models.Book, error) {
	return r.listProjected(ctx, `
		SELECT id, title, summary FROM books
		WHERE EXISTS (
			SELECT 1 FROM json_each(books.genre_ids) WHERE json_each.value = ?
		)
		ORDER BY title ASC
	`, genreID)
}

func (r *Repo) listProjected(ctx context.Context, query string, arg any) ([]models.Book, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Summary); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, b models.Book) (models.Book, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO books (id, title, author_id, summary, isbn, genre_ids)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Title, b.AuthorID, b.Summary, b.ISBN, genreJSON(b.GenreIDs))
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// ReplaceByID overwrites every editable column, the genre array
// included. A candidate with no genres clears the stored set.
func (r *Repo) ReplaceByID(ctx context.Context, id string, b models.Book) (models.Book, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author_id = ?, summary = ?, isbn = ?, genre_ids = ?
		WHERE id = ?
	`, b.Title, b.AuthorID, b.Summary, b.ISBN, genreJSON(b.GenreIDs), id)
	if err != nil {
		return models.Book{}, fmt.Errorf("replace book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Book{}, fmt.Errorf("replace book %s: %w", id, sql.ErrNoRows)
	}
	b.ID = id
	return b, nil
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func (r *Repo) genresFor(ctx context.Context, ids []string) ([]models.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name FROM genres
		WHERE id IN (SELECT value FROM json_each(?))
		ORDER BY name ASC
	`, genreJSON(ids))
	if err != nil {
		return nil, fmt.Errorf("genres for book: %w", err)
	}
	defer rows.Close()

	var out []models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBookWithAuthor(row scanner) (models.Book, error) {
	var (
		b          models.Book
		genresJSON string
		a          models.Author
		birth      sql.NullString
		death      sql.NullString
	)
	if err := row.Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.Summary, &b.ISBN, &genresJSON,
		&a.FirstName, &a.FamilyName, &birth, &death,
	); err != nil {
		return models.Book{}, err
	}
	_ = json.Unmarshal([]byte(genresJSON), &b.GenreIDs)
	a.ID = b.AuthorID
	a.DateOfBirth = parseDate(birth)
	a.DateOfDeath = parseDate(death)
	b.Author = &a
	return b, nil
}

func genreJSON(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	return string(raw)
}

func parseDate(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
