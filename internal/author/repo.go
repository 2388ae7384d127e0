package author

import (
	"context"
	"database/sql"
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

// List returns every author ordered by family name ascending. SQLite's
// default BINARY collation gives the ordinal, case-sensitive compare.
func (r *Repo) List(ctx context.Context) ([]models.Author, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, first_name, family_name, date_of_birth, date_of_death
		FROM authors
		ORDER BY family_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var out []models.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Author, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, first_name, family_name, date_of_birth, date_of_death
		FROM authors
		WHERE id = ?
	`, id)

	a, err := scanAuthor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get author: %w", err)
	}
	return &a, nil
}

func (r *Repo) Insert(ctx context.Context, a models.Author) (models.Author, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO authors (id, first_name, family_name, date_of_birth, date_of_death)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.FirstName, a.FamilyName, nullDate(a.DateOfBirth), nullDate(a.DateOfDeath))
	if err != nil {
		return models.Author{}, fmt.Errorf("insert author: %w", err)
	}
	return a, nil
}

// ReplaceByID overwrites every editable column with the candidate's
// values. Fields absent from the candidate are cleared, not preserved.
func (r *Repo) ReplaceByID(ctx context.Context, id string, a models.Author) (models.Author, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE authors
		SET first_name = ?, family_name = ?, date_of_birth = ?, date_of_death = ?
		WHERE id = ?
	`, a.FirstName, a.FamilyName, nullDate(a.DateOfBirth), nullDate(a.DateOfDeath), id)
	if err != nil {
		return models.Author{}, fmt.Errorf("replace author: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Author{}, fmt.Errorf("replace author %s: %w", id, sql.ErrNoRows)
	}
	a.ID = id
	return a, nil
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete author: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM authors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row scanner) (models.Author, error) {
	var (
		a     models.Author
		birth sql.NullString
		death sql.NullString
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.FamilyName, &birth, &death); err != nil {
		return models.Author{}, err
	}
	a.DateOfBirth = parseDate(birth)
	a.DateOfDeath = parseDate(death)
	return a, nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
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
