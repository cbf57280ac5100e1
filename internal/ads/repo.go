package ads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/newsroom/internal/db"
	"github.com/2beens/newsroom/internal/telemetry/tracing"
)

var _ adsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const adColumns = `id, title, placement, media_url, link_url, is_published, created_at, updated_at`

func scanAd(row pgx.Row) (*Advertisement, error) {
	var ad Advertisement
	if err := row.Scan(
		&ad.ID, &ad.Title, &ad.Placement, &ad.MediaURL, &ad.LinkURL,
		&ad.IsPublished, &ad.CreatedAt, &ad.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ad, nil
}

func (r *Repo) Create(ctx context.Context, ad *Advertisement) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ads.create")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO advertisements (title, placement, media_url, link_url, is_published)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at;`,
		ad.Title, ad.Placement, ad.MediaURL, ad.LinkURL, ad.IsPublished,
	).Scan(&ad.ID, &ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert advertisement: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Advertisement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ads.get")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	return scanAd(r.db.QueryRow(ctx, `SELECT `+adColumns+` FROM advertisements WHERE id = $1`, id))
}

func (r *Repo) List(ctx context.Context, filter Filter) (_ []*Advertisement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ads.list")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.String("placement", filter.Placement))

	var conds []string
	var args []any
	if filter.Placement != "" {
		args = append(args, filter.Placement)
		conds = append(conds, fmt.Sprintf("placement = $%d", len(args)))
	}
	if filter.IsPublished != nil {
		args = append(args, *filter.IsPublished)
		conds = append(conds, fmt.Sprintf("is_published = $%d", len(args)))
	}
	query := `SELECT ` + adColumns + ` FROM advertisements`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list advertisements: %w", err)
	}
	defer rows.Close()

	ads := make([]*Advertisement, 0)
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int, cols []string, vals []any) (_ *Advertisement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ads.update")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	if len(cols) == 0 {
		return r.Get(ctx, id)
	}
	query, args := db.UpdateByIDQuery("advertisements", cols, vals, id, adColumns)
	return scanAd(r.db.QueryRow(ctx, query, args...))
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ads.delete")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete advertisement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ads.count")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM advertisements`).Scan(&count)
	return count, err
}
