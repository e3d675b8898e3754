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

func (r *PGRepository) GetStaff(ctx context.Context, id int64) (*model.Staff, error) {
	var s model.Staff
	query := r.DB.Rebind(`SELECT id, name, email, role, is_active, created_at FROM staff WHERE id = ?`)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) ListStaffByRole(ctx context.Context, role string) ([]model.Staff, error) {
	staff := []model.Staff{}
	query := r.DB.Rebind(`
        SELECT id, name, email, role, is_active, created_at
        FROM staff
        WHERE role = ? AND is_active = ?
        ORDER BY id
    `)
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &staff, query, role, true)
	return staff, err
}

func (r *PGRepository) ListActiveStaff(ctx context.Context) ([]model.Staff, error) {
	staff := []model.Staff{}
	query := r.DB.Rebind(`
        SELECT id, name, email, role, is_active, created_at
        FROM staff
        WHERE is_active = ?
        ORDER BY id
    `)
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &staff, query, true)
	return staff, err
}

func (r *PGRepository) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	query := r.DB.Rebind(`SELECT id, name, email, phone, is_active, created_date FROM customers WHERE id = ?`)
	err := database.Conn(ctx, r.DB).GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
