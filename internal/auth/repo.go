package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/newsroom/internal/telemetry/tracing"
	"github.com/2beens/newsroom/pkg"
)

var _ store = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const adminColumns = `id, username, password_hash, email, created_at, updated_at`

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) CreateAdmin(ctx context.Context, admin *Admin) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.admin.create")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO admins (username, password_hash, email) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at;`,
		admin.Username, admin.PasswordHash, admin.Email,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *Repo) AdminByID(ctx context.Context, id int) (_ *Admin, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.admin.byid")
	defer func() { tracing.EndWithErr(span, err) }()
	span.SetAttributes(attribute.Int("admin.id", id))

	return scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

func (r *Repo) AdminByUsername(ctx context.Context, username string) (_ *Admin, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.admin.byusername")
	defer func() { tracing.EndWithErr(span, err) }()

	return scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = $1`, username))
}

func (r *Repo) AdminByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (_ *Admin, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.admin.byusernameoremail")
	defer func() { tracing.EndWithErr(span, err) }()

	return scanAdmin(r.db.QueryRow(
		ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1`,
		usernameOrEmail,
	))
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, adminID int, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.admin.updatepassword")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE admins SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, adminID,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *Repo) CountAdmins(ctx context.Context) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.admin.count")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

const sessionColumns = `id, session_id, admin_id, ip_address, user_agent, created_at, last_activity, expires_at, is_active`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	if err := row.Scan(
		&s.ID, &s.SessionID, &s.AdminID, &s.IPAddress, &s.UserAgent,
		&s.CreatedAt, &s.LastActivity, &s.ExpiresAt, &s.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) CreateSession(ctx context.Context, s *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.create")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO sessions (session_id, admin_id, ip_address, user_agent, created_at, last_activity, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		s.SessionID, s.AdminID, s.IPAddress, s.UserAgent, s.CreatedAt, s.LastActivity, s.ExpiresAt, s.IsActive,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *Repo) SessionBySessionID(ctx context.Context, sessionID string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.get")
	defer func() { tracing.EndWithErr(span, err) }()

	return scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE session_id = $1`, sessionID))
}

func (r *Repo) TouchSession(ctx context.Context, sessionID string, at time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.touch")
	defer func() { tracing.EndWithErr(span, err) }()

	if _, err := r.db.Exec(ctx, `UPDATE sessions SET last_activity = $1 WHERE session_id = $2`, at, sessionID); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (r *Repo) DeactivateSession(ctx context.Context, sessionID string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.deactivate")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(ctx, `UPDATE sessions SET is_active = FALSE WHERE session_id = $1 AND is_active`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("deactivate session: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) DeactivateAdminSession(ctx context.Context, adminID int, sessionID string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.deactivateown")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE sessions SET is_active = FALSE WHERE session_id = $1 AND admin_id = $2 AND is_active`,
		sessionID, adminID,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate admin session: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) DeactivateAdminSessions(ctx context.Context, adminID int, exceptSessionID string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.deactivateall")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE sessions SET is_active = FALSE
		WHERE admin_id = $1 AND is_active AND ($2 = '' OR session_id <> $2)`,
		adminID, exceptSessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate admin sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) ActiveSessions(ctx context.Context, adminID int, now time.Time) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.active")
	defer func() { tracing.EndWithErr(span, err) }()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions
		WHERE admin_id = $1 AND is_active AND expires_at > $2
		ORDER BY last_activity DESC`,
		adminID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("query active sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repo) DeactivateExpiredSessions(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.session.cleanup")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE sessions SET is_active = FALSE WHERE expires_at < $1 OR is_active = FALSE`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) CreatePasswordReset(ctx context.Context, pr *PasswordReset) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.reset.create")
	defer func() { tracing.EndWithErr(span, err) }()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO password_resets (username, otp_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		pr.Username, pr.OTPHash, pr.ExpiresAt, pr.Used, pr.CreatedAt,
	).Scan(&pr.ID)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

func (r *Repo) DeleteUnusedPasswordResets(ctx context.Context, username string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.reset.deleteunused")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE username = $1 AND used = FALSE`, username)
	if err != nil {
		return 0, fmt.Errorf("delete unused password resets: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) LatestPasswordReset(ctx context.Context, username, otpHash string) (_ *PasswordReset, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.reset.latest")
	defer func() { tracing.EndWithErr(span, err) }()

	var pr PasswordReset
	err = r.db.QueryRow(
		ctx,
		`SELECT id, username, otp_hash, expires_at, used, created_at FROM password_resets
		WHERE username = $1 AND otp_hash = $2
		ORDER BY created_at DESC, id DESC LIMIT 1`,
		username, otpHash,
	).Scan(&pr.ID, &pr.Username, &pr.OTPHash, &pr.ExpiresAt, &pr.Used, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPasswordResetNotFound
		}
		return nil, fmt.Errorf("query password reset: %w", err)
	}
	return &pr, nil
}

func (r *Repo) MarkPasswordResetUsed(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.reset.markused")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(ctx, `UPDATE password_resets SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPasswordResetNotFound
	}
	return nil
}

func (r *Repo) DeleteExpiredPasswordResets(ctx context.Context, username, otpHash string, now time.Time) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.reset.deleteexpired")
	defer func() { tracing.EndWithErr(span, err) }()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM password_resets WHERE username = $1 AND otp_hash = $2 AND expires_at <= $3`,
		username, otpHash, now,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired password resets: %w", err)
	}
	return tag.RowsAffected(), nil
}
