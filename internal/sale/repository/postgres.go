package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const saleColumns = `id, sale_date, total_amount, payment_method, staff_id, customer_id, receipt_number, notes, status`

func (r *PGRepository) Create(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (sale_date, total_amount, payment_method, staff_id, customer_id, receipt_number, notes, status)
        VALUES (:sale_date, :total_amount, :payment_method, :staff_id, :customer_id, :receipt_number, :notes, :status)
        RETURNING id
    `
	q, args, err := sqlx.Named(query, s)
	if err != nil {
		return err
	}
	if err := database.Conn(ctx, r.DB).QueryRowxContext(ctx, r.DB.Rebind(q), args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (r *PGRepository) AddDetail(ctx context.Context, d *model.SaleDetail) error {
	query := `
        INSERT INTO sale_details (sale_id, line_no, part_id, quantity, price_at_sale)
        VALUES (:sale_id, :line_no, :part_id, :quantity, :price_at_sale)
    `
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.DB), query, d); err != nil {
		return fmt.Errorf("failed to insert sale detail: %w", err)
	}
	return nil
}

func (r *PGRepository) MarkCompleted(ctx context.Context, id int64) error {
	query := r.DB.Rebind(`UPDATE sales SET status = ? WHERE id = ? AND status = ?`)
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, model.SaleStatusCompleted, id, model.SaleStatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("sale %d is not pending", id)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id int64) (*model.Sale, error) {
	var s model.Sale
	query := r.DB.Rebind(`SELECT ` + saleColumns + ` FROM sales WHERE id = ?`)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) ListDetails(ctx context.Context, saleID int64) ([]model.SaleDetail, error) {
	details := []model.SaleDetail{}
	query := r.DB.Rebind(`
        SELECT sale_id, line_no, part_id, quantity, price_at_sale
        FROM sale_details
        WHERE sale_id = ?
        ORDER BY line_no
    `)
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &details, query, saleID)
	return details, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Query != "" {
		conditions = append(conditions, "(receipt_number LIKE :query OR notes LIKE :query)")
		args["query"] = "%" + f.Query + "%"
	}
	if f.StaffID != 0 {
		conditions = append(conditions, "staff_id = :staff_id")
		args["staff_id"] = f.StaffID
	}
	if f.From != nil {
		conditions = append(conditions, "sale_date >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "sale_date <= :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}
	conn := database.Conn(ctx, r.DB)

	q, qargs, err := sqlx.Named("SELECT count(*) FROM sales"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := conn.GetContext(ctx, &count, r.DB.Rebind(q), qargs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + saleColumns + " FROM sales" + whereClause + " ORDER BY sale_date DESC, id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	q, qargs, err = sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	items := []model.Sale{}
	err = conn.SelectContext(ctx, &items, r.DB.Rebind(q), qargs...)
	return items, count, err
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := database.Conn(ctx, r.DB).GetContext(ctx, &n, `SELECT count(*) FROM sales`)
	return n, err
}
