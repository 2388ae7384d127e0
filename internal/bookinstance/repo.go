package bookinstance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"librarian/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// List returns every copy with its book joined in, ordered by the
// book's title.
func (r *Repo) List(ctx context.Context) ([]models.BookInstance, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT bi.id, bi.book_id, bi.imprint, bi.status, bi.due_back,
		       b.title, b.author_id, b.summary, b.isbn, b.genre_ids
		FROM book_instances bi
		JOIN books b ON b.id = bi.book_id
		ORDER BY b.title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list book instances: %w", err)
	}
	defer rows.Close()

	var out []models.BookInstance
	for rows.Next() {
		bi, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instance row: %w", err)
		}
		out = append(out, bi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.BookInstance, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT bi.id, bi.book_id, bi.imprint, bi.status, bi.due_back,
		       b.title, b.author_id, b.summary, b.isbn, b.genre_ids
		FROM book_instances bi
		JOIN books b ON b.id = bi.book_id
		WHERE bi.id = ?
	`, id)

	bi, err := scanInstance(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get book instance: %w", err)
	}
	return &bi, nil
}

func (r *Repo) ListByBook(ctx context.Context, bookID string) ([]models.BookInstance, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, book_id, imprint, status, due_back
		FROM book_instances
		WHERE book_id = ?
		ORDER BY imprint ASC
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list instances by book: %w", err)
	}
	defer rows.Close()

	var out []models.BookInstance
	for rows.Next() {
		var bi models.BookInstance
		var due string
		if err := rows.Scan(&bi.ID, &bi.BookID, &bi.Imprint, &bi.Status, &due); err != nil {
			return nil, fmt.Errorf("scan instance row: %w", err)
		}
		bi.DueBack = parseDueBack(due)
		out = append(out, bi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, bi models.BookInstance) (models.BookInstance, error) {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO book_instances (id, book_id, imprint, status, due_back)
		VALUES (?, ?, ?, ?, ?)
	`, bi.ID, bi.BookID, bi.Imprint, bi.Status, bi.DueBack.UTC().Format(time.RFC3339))
	if err != nil {
		return models.BookInstance{}, fmt.Errorf("insert book instance: %w", err)
	}
	return bi, nil
}

func (r *Repo) ReplaceByID(ctx context.Context, id string, bi models.BookInstance) (models.BookInstance, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE book_instances
		SET book_id = ?, imprint = ?, status = ?, due_back = ?
		WHERE id = ?
	`, bi.BookID, bi.Imprint, bi.Status, bi.DueBack.UTC().Format(time.RFC3339), id)
	if err != nil {
		return models.BookInstance{}, fmt.Errorf("replace book instance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.BookInstance{}, fmt.Errorf("replace book instance %s: %w", id, sql.ErrNoRows)
	}
	bi.ID = id
	return bi, nil
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM book_instances WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete book instance: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM book_instances`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count book instances: %w", err)
	}
	return n, nil
}

func (r *Repo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM book_instances WHERE status = ?
	`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count instances by status: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInstance(row scanner) (models.BookInstance, error) {
	var (
		bi         models.BookInstance
		due        string
		b          models.Book
		genresJSON string
	)
	if err := row.Scan(
		&bi.ID, &bi.BookID, &bi.Imprint, &bi.Status, &due,
		&b.Title, &b.AuthorID, &b.Summary, &b.ISBN, &genresJSON,
	); err != nil {
		return models.BookInstance{}, err
	}
	bi.DueBack = parseDueBack(due)
	_ = json.Unmarshal([]byte(genresJSON), &b.GenreIDs)
	b.ID = bi.BookID
	bi.Book = &b
	return bi, nil
}

func parseDueBack(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	// rows seeded by hand may carry a bare date
	t, _ := time.Parse("2006-01-02", raw)
	return t
}
