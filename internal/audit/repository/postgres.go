package repository

import (
	"context"

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

func (r *PGRepository) Create(ctx context.Context, l *model.AuditLog) error {
	query := `
        INSERT INTO audit_logs (
            action_date, user_id, action_type, table_name, record_id,
            old_values, new_values, ip_address, user_agent
        )
        VALUES (
            :action_date, :user_id, :action_type, :table_name, :record_id,
            :old_values, :new_values, :ip_address, :user_agent
        )
        RETURNING id
    `
	q, args, err := sqlx.Named(query, l)
	if err != nil {
		return err
	}
	return database.Conn(ctx, r.DB).QueryRowxContext(ctx, r.DB.Rebind(q), args...).Scan(&l.ID)
}

func (r *PGRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	logs := []model.AuditLog{}
	query := r.DB.Rebind(`
        SELECT id, action_date, user_id, action_type, table_name, record_id,
            old_values, new_values, ip_address, user_agent
        FROM audit_logs
        ORDER BY action_date DESC, id DESC
        LIMIT ?
    `)
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &logs, query, limit)
	return logs, err
}
