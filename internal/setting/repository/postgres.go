package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const settingColumns = `id, category, setting_key, setting_value, setting_type, description, updated_by, updated_at`

func (r *PGRepository) Get(ctx context.Context, category, key string) (*model.Setting, error) {
	var s model.Setting
	query := r.DB.Rebind(`SELECT ` + settingColumns + ` FROM settings WHERE category = ? AND setting_key = ?`)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &s, query, category, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) List(ctx context.Context) ([]model.Setting, error) {
	settings := []model.Setting{}
	query := `SELECT ` + settingColumns + ` FROM settings ORDER BY category, setting_key`
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &settings, query)
	return settings, err
}

func (r *PGRepository) Upsert(ctx context.Context, s *model.Setting) error {
	query := `
        INSERT INTO settings (category, setting_key, setting_value, setting_type, description, updated_by, updated_at)
        VALUES (:category, :setting_key, :setting_value, :setting_type, :description, :updated_by, :updated_at)
        ON CONFLICT (category, setting_key)
        DO UPDATE SET
            setting_value = EXCLUDED.setting_value,
            setting_type = EXCLUDED.setting_type,
            description = EXCLUDED.description,
            updated_by = EXCLUDED.updated_by,
            updated_at = EXCLUDED.updated_at
    `
	_, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.DB), query, s)
	return err
}

func (r *PGRepository) InsertIfAbsent(ctx context.Context, s *model.Setting) (bool, error) {
	query := `
        INSERT INTO settings (category, setting_key, setting_value, setting_type, description, updated_by, updated_at)
        VALUES (:category, :setting_key, :setting_value, :setting_type, :description, :updated_by, :updated_at)
        ON CONFLICT (category, setting_key) DO NOTHING
    `
	res, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.DB), query, s)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) Delete(ctx context.Context, category, key string) (bool, error) {
	query := r.DB.Rebind(`DELETE FROM settings WHERE category = ? AND setting_key = ?`)
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, category, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) DeleteAll(ctx context.Context) error {
	_, err := database.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM settings`)
	return err
}
