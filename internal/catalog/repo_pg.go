package catalog

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements TemplatesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a template. An existing id keeps its row.
func (r *PGRepo) Create(ctx context.Context, t Template) error {
	const query = `
INSERT INTO resume_templates (
    id,
    title,
    data,
    created_by,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (id) DO NOTHING`

	_, err := r.DB.ExecContext(ctx, query, t.ID, t.Title, t.Data, t.CreatedBy, t.CreatedAt)
	return err
}

// GetByID fetches a template by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Template, error) {
	const query = `
SELECT id, title, data, created_by, created_at
FROM resume_templates
WHERE id = $1
LIMIT 1`
	var t Template
	var createdBy sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &t.Data, &createdBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	if createdBy.Valid {
		t.CreatedBy = createdBy.String
	}
	return t, nil
}

// List returns every template ordered by title.
func (r *PGRepo) List(ctx context.Context) ([]Template, error) {
	const query = `
SELECT id, title, data, created_by, created_at
FROM resume_templates
ORDER BY title ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		var createdBy sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Data, &createdBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		if createdBy.Valid {
			t.CreatedBy = createdBy.String
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
