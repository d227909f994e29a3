package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo is the Postgres adapter for the entitlement store. All mutations
// are single-row atomic UPDATEs.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) FindOrCreate(ctx context.Context, tgID int64) (*model.User, error) {
	const sql = `
INSERT INTO users (telegram_id, created_at, updated_at)
VALUES ($1, now(), now())
ON CONFLICT (telegram_id) DO NOTHING;
`
	if _, err := r.pool.Exec(ctx, sql, tgID); err != nil {
		return nil, fmt.Errorf("postgres: ensure user: %w", err)
	}
	return r.Find(ctx, tgID)
}

func (r *UserRepo) Find(ctx context.Context, tgID int64) (*model.User, error) {
	const sql = `
SELECT telegram_id, is_verified, verified_until, downloads_left,
       is_premium, premium_until, last_file_code, created_at, updated_at
  FROM users
 WHERE telegram_id = $1;
`
	row := r.pool.QueryRow(ctx, sql, tgID)

	var u model.User
	var lastFileCode *string
	err := row.Scan(
		&u.TelegramID,
		&u.IsVerified,
		&u.VerifiedUntil,
		&u.DownloadsLeft,
		&u.IsPremium,
		&u.PremiumUntil,
		&lastFileCode,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: querying user: %w", err)
	}
	if lastFileCode != nil {
		u.LastFileCode = *lastFileCode
	}
	return &u, nil
}

func (r *UserRepo) SetVerified(ctx context.Context, tgID int64, until time.Time, downloads int) error {
	const sql = `
UPDATE users
   SET is_verified = TRUE,
       verified_until = $2,
       downloads_left = $3,
       updated_at = now()
 WHERE telegram_id = $1;
`
	ct, err := r.pool.Exec(ctx, sql, tgID, until, downloads)
	if err != nil {
		return fmt.Errorf("postgres: set verified: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetPremium(ctx context.Context, tgID int64, until time.Time) error {
	// Upsert: payment confirmation may race the lazy user creation.
	const sql = `
INSERT INTO users (telegram_id, is_premium, premium_until, created_at, updated_at)
VALUES ($1, TRUE, $2, now(), now())
ON CONFLICT (telegram_id) DO UPDATE
  SET is_premium = TRUE,
      premium_until = EXCLUDED.premium_until,
      updated_at = now();
`
	if _, err := r.pool.Exec(ctx, sql, tgID, until); err != nil {
		return fmt.Errorf("postgres: set premium: %w", err)
	}
	return nil
}

// ConsumeDownload decrements the quota with a floor at zero in one
// statement, so two concurrent requests cannot both spend the last download.
func (r *UserRepo) ConsumeDownload(ctx context.Context, tgID int64) (bool, error) {
	const sql = `
UPDATE users
   SET downloads_left = downloads_left - 1,
       updated_at = now()
 WHERE telegram_id = $1
   AND downloads_left > 0;
`
	ct, err := r.pool.Exec(ctx, sql, tgID)
	if err != nil {
		return false, fmt.Errorf("postgres: consume download: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *UserRepo) SetLastFileCode(ctx context.Context, tgID int64, code string) error {
	const sql = `
UPDATE users
   SET last_file_code = $2,
       updated_at = now()
 WHERE telegram_id = $1;
`
	if _, err := r.pool.Exec(ctx, sql, tgID, code); err != nil {
		return fmt.Errorf("postgres: set last file code: %w", err)
	}
	return nil
}

func (r *UserRepo) CountUsers(ctx context.Context) (total, verified, premium int, err error) {
	const sql = `
SELECT count(*),
       count(*) FILTER (WHERE is_verified),
       count(*) FILTER (WHERE is_premium)
  FROM users;
`
	row := r.pool.QueryRow(ctx, sql)
	if err := row.Scan(&total, &verified, &premium); err != nil {
		return 0, 0, 0, fmt.Errorf("postgres: count users: %w", err)
	}
	return total, verified, premium, nil
}
