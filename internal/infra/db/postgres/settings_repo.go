package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo stores raw key/value overrides plus an append-only audit log
// of every accepted change.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) LoadOverrides(ctx context.Context) (map[string]string, error) {
	const sql = `SELECT key, value FROM settings;`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: load settings: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("postgres: scan setting: %w", err)
		}
		overrides[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: load settings: %w", err)
	}
	return overrides, nil
}

// Set writes the override and its audit row in one transaction, so the log
// never misses an accepted change.
func (r *SettingsRepo) Set(ctx context.Context, change repository.SettingChange) error {
	return r.pool.BeginTxFunc(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		const upsert = `
INSERT INTO settings (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
  SET value = EXCLUDED.value,
      updated_at = now();
`
		if _, err := tx.Exec(ctx, upsert, change.Key, change.NewValue); err != nil {
			return fmt.Errorf("postgres: upsert setting: %w", err)
		}
		const audit = `
INSERT INTO settings_audit (key, old_value, new_value, admin_id, changed_at)
VALUES ($1, $2, $3, $4, now());
`
		if _, err := tx.Exec(ctx, audit, change.Key, change.OldValue, change.NewValue, change.AdminID); err != nil {
			return fmt.Errorf("postgres: append settings audit: %w", err)
		}
		return nil
	})
}
