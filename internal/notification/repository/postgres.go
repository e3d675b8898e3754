package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const notificationColumns = `id, user_id, title, message, type, category, is_read, created_at, read_at, action_url, action_text`

func (r *PGRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
        INSERT INTO notifications (user_id, title, message, type, category, is_read, created_at, action_url, action_text)
        VALUES (:user_id, :title, :message, :type, :category, :is_read, :created_at, :action_url, :action_text)
        RETURNING id
    `
	q, args, err := sqlx.Named(query, n)
	if err != nil {
		return err
	}
	return database.Conn(ctx, r.DB).QueryRowxContext(ctx, r.DB.Rebind(q), args...).Scan(&n.ID)
}

func (r *PGRepository) List(ctx context.Context, f *dto.ListFilters) ([]model.Notification, int, error) {
	where := ` WHERE user_id = ?`
	args := []interface{}{f.UserID}
	if f.UnreadOnly {
		where += ` AND is_read = ?`
		args = append(args, false)
	}

	var count int
	conn := database.Conn(ctx, r.DB)
	if err := conn.GetContext(ctx, &count, r.DB.Rebind(`SELECT count(*) FROM notifications`+where), args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where + ` ORDER BY created_at DESC, id DESC`
	if f.PerPage > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PerPage, (page-1)*f.PerPage)
	}

	items := []model.Notification{}
	err := conn.SelectContext(ctx, &items, r.DB.Rebind(query), args...)
	return items, count, err
}

func (r *PGRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	query := r.DB.Rebind(`SELECT count(*) FROM notifications WHERE user_id = ? AND is_read = ?`)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &n, query, userID, false)
	return n, err
}

func (r *PGRepository) MarkRead(ctx context.Context, userID, id int64, at time.Time) (bool, error) {
	query := r.DB.Rebind(`UPDATE notifications SET is_read = ?, read_at = ? WHERE id = ? AND user_id = ? AND is_read = ?`)
	n, err := r.exec(ctx, query, true, at, id, userID, false)
	return n > 0, err
}

func (r *PGRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	query := r.DB.Rebind(`UPDATE notifications SET is_read = ?, read_at = ? WHERE user_id = ? AND is_read = ?`)
	return r.exec(ctx, query, true, at, userID, false)
}

func (r *PGRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	n, err := r.exec(ctx, r.DB.Rebind(`DELETE FROM notifications WHERE id = ? AND user_id = ?`), id, userID)
	return n > 0, err
}

func (r *PGRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return r.exec(ctx, r.DB.Rebind(`DELETE FROM notifications WHERE user_id = ?`), userID)
}

func (r *PGRepository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
