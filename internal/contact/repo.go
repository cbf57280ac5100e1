package contact

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/newsroom/internal/telemetry/tracing"
)

var _ messagesRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Save(ctx context.Context, m *Message) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.contact.save")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO contact_messages (name, email, subject, message, ip_address)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at;`,
		m.Name, m.Email, m.Subject, m.Message, m.IPAddress,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *Repo) Recent(ctx context.Context, limit int) (_ []*Message, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.contact.recent")
	defer func() { tracing.EndWithErr(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, subject, message, ip_address, created_at
		FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IPAddress, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
