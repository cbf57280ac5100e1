package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/newsroom/internal/db"
	"github.com/2beens/newsroom/internal/telemetry/tracing"
)

var _ mediaRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const itemColumns = `id, name, url, type, size, mime_type, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.URL, &it.Type, &it.Size, &it.MimeType, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) Create(ctx context.Context, item *Item) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.media.create")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO media (name, url, type, size, mime_type) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at;`,
		item.Name, item.URL, item.Type, item.Size, item.MimeType,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.media.get")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	return scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM media WHERE id = $1`, id))
}

// List returns the library newest first, only items of itemType when it is set.
func (r *Repo) List(ctx context.Context, itemType string) (_ []*Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.media.list")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.String("type", itemType))

	var rows pgx.Rows
	if itemType == "" {
		rows, err = r.db.Query(ctx, `SELECT `+itemColumns+` FROM media ORDER BY created_at DESC, id DESC`)
	} else {
		rows, err = r.db.Query(ctx, `SELECT `+itemColumns+` FROM media WHERE type = $1 ORDER BY created_at DESC, id DESC`, itemType)
	}
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int, cols []string, vals []any) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.media.update")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	if len(cols) == 0 {
		return r.Get(ctx, id)
	}
	query, args := db.UpdateByIDQuery("media", cols, vals, id, itemColumns)
	return scanItem(r.db.QueryRow(ctx, query, args...))
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.media.delete")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.media.count")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&count)
	return count, err
}
