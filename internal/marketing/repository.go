package marketing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

// Repository provides PostgreSQL backed persistence for marketing posts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `
	id, platform, post_date, content_type, description,
	engagement, sales_from_post, notes`

func (r *Repository) Get(ctx context.Context, id int64) (*Post, error) {
	query := fmt.Sprintf("SELECT %s FROM marketing_tracker WHERE id = $1", postColumns)
	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]Post, error) {
	query := fmt.Sprintf("SELECT %s FROM marketing_tracker ORDER BY id", postColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, p Post) (int64, error) {
	query := `
		INSERT INTO marketing_tracker (
			platform, post_date, content_type, description,
			engagement, sales_from_post, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.Platform, dateParam(p.PostDate), p.ContentType, p.Description,
		p.Engagement, p.SalesFromPost, p.Notes,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	argPos := 1
	for column, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE marketing_tracker SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM marketing_tracker WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	var postDate pgtype.Date
	if err := row.Scan(
		&p.ID, &p.Platform, &postDate, &p.ContentType, &p.Description,
		&p.Engagement, &p.SalesFromPost, &p.Notes,
	); err != nil {
		return nil, err
	}
	if postDate.Valid {
		d := shared.DateOf(postDate.Time)
		p.PostDate = &d
	}
	return &p, nil
}

func dateParam(d *shared.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}
