package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/newsroom/internal/db"
	"github.com/2beens/newsroom/internal/telemetry/tracing"
)

// manual caching of statements not needed, pgx caches them per connection:
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

var _ newsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const articleColumns = `id, title_en, title_rw, title_fr, excerpt_en, excerpt_rw, excerpt_fr,
	content_en, content_rw, content_fr, category, author, image, video, images, videos,
	image_captions, featured, trending, views, published_at, created_at, updated_at`

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	if err := row.Scan(
		&a.ID, &a.TitleEN, &a.TitleRW, &a.TitleFR, &a.ExcerptEN, &a.ExcerptRW, &a.ExcerptFR,
		&a.ContentEN, &a.ContentRW, &a.ContentFR, &a.Category, &a.Author, &a.Image, &a.Video,
		&a.Images, &a.Videos, &a.ImageCaptions, &a.Featured, &a.Trending, &a.Views,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.normalize()
	return &a, nil
}

func rows2articles(rows pgx.Rows) ([]*Article, error) {
	defer rows.Close()

	articles := make([]*Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *Repo) Create(ctx context.Context, article *Article) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.create")
	defer func() { tracing.EndWithErr(span, err) }()

	article.normalize()
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO news (
			title_en, title_rw, title_fr, excerpt_en, excerpt_rw, excerpt_fr,
			content_en, content_rw, content_fr, category, author, image, video,
			images, videos, image_captions, featured, trending
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, views, published_at, created_at, updated_at;`,
		article.TitleEN, article.TitleRW, article.TitleFR,
		article.ExcerptEN, article.ExcerptRW, article.ExcerptFR,
		article.ContentEN, article.ContentRW, article.ContentFR,
		article.Category, article.Author, article.Image, article.Video,
		article.Images, article.Videos, article.ImageCaptions,
		article.Featured, article.Trending,
	).Scan(&article.ID, &article.Views, &article.PublishedAt, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Article, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.get")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	return scanArticle(r.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM news WHERE id = $1`, id))
}

func (r *Repo) IncrementViews(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.views")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `UPDATE news SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// where renders the filter into a WHERE clause and its args.
func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		conds = append(conds, fmt.Sprintf("featured = $%d", len(args)))
	}
	if f.Trending != nil {
		args = append(args, *f.Trending)
		conds = append(conds, fmt.Sprintf("trending = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// page renders LIMIT/OFFSET, appending to args. A non positive limit means no limit.
func page(limit, offset int, args []any) (string, []any) {
	var clause string
	if limit > 0 {
		if limit > MaxListLimit {
			limit = MaxListLimit
		}
		args = append(args, limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		clause += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return clause, args
}

func (r *Repo) List(ctx context.Context, filter Filter) (_ *ListResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.list")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(
		attribute.String("category", filter.Category),
		attribute.Int("limit", filter.Limit),
		attribute.Int("offset", filter.Offset),
	)

	where, args := filter.where()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	pageClause, pageArgs := page(filter.Limit, filter.Offset, args)
	log.Tracef("listing articles, total %d, where [%s], page [%s]", total, where, pageClause)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+articleColumns+` FROM news`+where+` ORDER BY created_at DESC, id DESC`+pageClause,
		pageArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	articles, err := rows2articles(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult{Data: articles, Total: total}, nil
}

func (r *Repo) Trending(ctx context.Context, limit int) ([]*Article, error) {
	trending := true
	return r.latest(ctx, "repo.news.trending", Filter{Trending: &trending, Limit: limit})
}

func (r *Repo) Featured(ctx context.Context, limit int) ([]*Article, error) {
	featured := true
	return r.latest(ctx, "repo.news.featured", Filter{Featured: &featured, Limit: limit})
}

func (r *Repo) ByCategory(ctx context.Context, category string, limit int) ([]*Article, error) {
	return r.latest(ctx, "repo.news.bycategory", Filter{Category: category, Limit: limit})
}

func (r *Repo) latest(ctx context.Context, spanName string, filter Filter) (_ []*Article, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, spanName)
	defer func() { tracing.EndWithErr(span, err) }()

	where, args := filter.where()
	pageClause, args := page(filter.Limit, 0, args)
	rows, err := r.db.Query(
		ctx,
		`SELECT `+articleColumns+` FROM news`+where+` ORDER BY created_at DESC, id DESC`+pageClause,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return rows2articles(rows)
}

func (r *Repo) Update(ctx context.Context, id int, update *Update) (_ *Article, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.update")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	cols, args := update.set()
	if len(cols) == 0 {
		return r.Get(ctx, id)
	}

	query, args := db.UpdateByIDQuery("news", cols, args, id, articleColumns)
	return scanArticle(r.db.QueryRow(ctx, query, args...))
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.delete")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.count")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`).Scan(&count)
	return count, err
}

func (r *Repo) TotalViews(ctx context.Context) (views int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.news.totalviews")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(ctx, `SELECT COALESCE(SUM(views), 0) FROM news`).Scan(&views)
	return views, err
}
