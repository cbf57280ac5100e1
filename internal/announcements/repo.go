package announcements

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

var _ announcementsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const announcementColumns = `id, title_en, title_rw, title_fr, description_en, description_rw, description_fr,
	image, video, file, file_name, file_type, created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*Announcement, error) {
	var a Announcement
	if err := row.Scan(
		&a.ID, &a.TitleEN, &a.TitleRW, &a.TitleFR, &a.DescriptionEN, &a.DescriptionRW, &a.DescriptionFR,
		&a.Image, &a.Video, &a.File, &a.FileName, &a.FileType, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) Create(ctx context.Context, a *Announcement) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.announcements.create")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO announcements (
			title_en, title_rw, title_fr, description_en, description_rw, description_fr,
			image, video, file, file_name, file_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at;`,
		a.TitleEN, a.TitleRW, a.TitleFR, a.DescriptionEN, a.DescriptionRW, a.DescriptionFR,
		a.Image, a.Video, a.File, a.FileName, a.FileType,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Announcement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.announcements.get")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	return scanAnnouncement(r.db.QueryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
}

func (r *Repo) All(ctx context.Context) (_ []*Announcement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.announcements.all")
	defer func() { tracing.EndWithErr(span, err) }()

	rows, err := r.db.Query(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]*Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int, update *Update) (_ *Announcement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.announcements.update")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	cols, vals := update.set()
	if len(cols) == 0 {
		return r.Get(ctx, id)
	}
	query, args := db.UpdateByIDQuery("announcements", cols, vals, id, announcementColumns)
	return scanAnnouncement(r.db.QueryRow(ctx, query, args...))
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.announcements.delete")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.announcements.count")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM announcements`).Scan(&count)
	return count, err
}
