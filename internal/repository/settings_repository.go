package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

// SettingsRepository manages system setting rows.
type SettingsRepository interface {
	List(ctx context.Context) ([]domain.SystemSetting, error)
	Get(ctx context.Context, key string) (*domain.SystemSetting, error)
	Upsert(ctx context.Context, setting *domain.SystemSetting) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository constructs repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

// updated_by is a uuid column; it must be cast before COALESCE or
// Postgres coerces the '' fallback to uuid and errors at parse time.
const settingColumns = `setting_key, setting_value, description, COALESCE(updated_by::text, '')`

func (r *settingsRepository) List(ctx context.Context) ([]domain.SystemSetting, error) {
	const query = `
        SELECT ` + settingColumns + `
        FROM system_settings ORDER BY setting_key`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SystemSetting
	for rows.Next() {
		var setting domain.SystemSetting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Description, &setting.UpdatedBy); err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	const query = `
        SELECT ` + settingColumns + `
        FROM system_settings WHERE setting_key=$1`

	var setting domain.SystemSetting
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.Description,
		&setting.UpdatedBy,
	); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *domain.SystemSetting) error {
	const query = `
        INSERT INTO system_settings (setting_key, setting_value, description, updated_by)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (setting_key) DO UPDATE
        SET setting_value=EXCLUDED.setting_value, updated_by=EXCLUDED.updated_by, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query,
		setting.Key,
		setting.Value,
		setting.Description,
		setting.UpdatedBy,
	)
	return err
}
