package genre

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"librarian/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) List(ctx context.Context) ([]models.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name
		FROM genres
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
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

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Genre, error) {
	var g models.Genre
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name FROM genres WHERE id = ?
	`, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get genre: %w", err)
	}
	return &g, nil
}

// GetByName looks up a genre by its natural key, exact match.
func (r *Repo) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	var g models.Genre
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name FROM genres WHERE name = ? LIMIT 1
	`, name).Scan(&g.ID, &g.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get genre by name: %w", err)
	}
	return &g, nil
}

func (r *Repo) Insert(ctx context.Context, g models.Genre) (models.Genre, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO genres (id, name) VALUES (?, ?)
	`, g.ID, g.Name)
	if err != nil {
		return models.Genre{}, fmt.Errorf("insert genre: %w", err)
	}
	return g, nil
}

func (r *Repo) ReplaceByID(ctx context.Context, id string, g models.Genre) (models.Genre, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE genres SET name = ? WHERE id = ?
	`, g.Name, id)
	if err != nil {
		return models.Genre{}, fmt.Errorf("replace genre: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Genre{}, fmt.Errorf("replace genre %s: %w", id, sql.ErrNoRows)
	}
	g.ID = id
	return g, nil
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete genre: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count genres: %w", err)
	}
	return n, nil
}
