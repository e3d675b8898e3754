package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
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

const (
	partColumns     = `id, name, description, part_type, brand, price, stock_quantity, updated_at`
	movementColumns = `id, part_id, movement_type, quantity_change, quantity_before, quantity_after,
        reference_type, reference_id, notes, created_by, created_at`
)

func (r *PGRepository) GetByID(ctx context.Context, id int64) (*model.Part, error) {
	var p model.Part
	query := r.DB.Rebind(`SELECT ` + partColumns + ` FROM parts WHERE id = ?`)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) BatchGetByIDs(ctx context.Context, ids []int64) ([]model.Part, error) {
	if len(ids) == 0 {
		return []model.Part{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+partColumns+` FROM parts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.Part
	err = database.Conn(ctx, r.DB).SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PartFilters) ([]model.Part, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.LowStockThreshold != nil {
		conditions = append(conditions, "stock_quantity <= :threshold")
		args["threshold"] = *f.LowStockThreshold
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.namedGet(ctx, &count, "SELECT count(*) FROM parts"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + partColumns + " FROM parts" + whereClause + " ORDER BY stock_quantity ASC, id ASC"
	query += pageClause(f.Page, f.PageSize)

	items := []model.Part{}
	err := r.namedSelect(ctx, &items, query, args)
	return items, count, err
}

func (r *PGRepository) Create(ctx context.Context, p *model.Part) error {
	query := `
        INSERT INTO parts (name, description, part_type, brand, price, stock_quantity, updated_at)
        VALUES (:name, :description, :part_type, :brand, :price, :stock_quantity, :updated_at)
        RETURNING id
    `
	return r.insertReturningID(ctx, query, p, &p.ID)
}

func (r *PGRepository) CompareAndSetStock(ctx context.Context, id int64, expected, next int, at time.Time) (bool, error) {
	query := r.DB.Rebind(`UPDATE parts SET stock_quantity = ?, updated_at = ? WHERE id = ? AND stock_quantity = ?`)
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, query, next, at, id, expected)
	if err != nil {
		return false, fmt.Errorf("update stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            part_id, movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :part_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
        RETURNING id
    `
	if err := r.insertReturningID(ctx, query, m, &m.ID); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.PartID != 0 {
		conditions = append(conditions, "part_id = :part_id")
		args["part_id"] = f.PartID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.namedGet(ctx, &count, "SELECT count(*) FROM inventory_movements"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + movementColumns + " FROM inventory_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	query += pageClause(f.Page, f.PageSize)

	items := []model.InventoryMovement{}
	err := r.namedSelect(ctx, &items, query, args)
	return items, count, err
}

func (r *PGRepository) insertReturningID(ctx context.Context, query string, arg interface{}, id *int64) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return database.Conn(ctx, r.DB).QueryRowxContext(ctx, r.DB.Rebind(q), args...).Scan(id)
}

func (r *PGRepository) namedGet(ctx context.Context, dest interface{}, query string, arg map[string]interface{}) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return database.Conn(ctx, r.DB).GetContext(ctx, dest, r.DB.Rebind(q), args...)
}

func (r *PGRepository) namedSelect(ctx context.Context, dest interface{}, query string, arg map[string]interface{}) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return database.Conn(ctx, r.DB).SelectContext(ctx, dest, r.DB.Rebind(q), args...)
}

func pageClause(page, pageSize int) string {
	if pageSize <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}
