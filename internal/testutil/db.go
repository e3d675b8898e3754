// Package testutil provides SQLite-backed fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
)

// NewDB opens a migrated SQLite database in t.TempDir().
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(&database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.ApplySchema(context.Background(), db))
	return db
}

func SeedStaff(t *testing.T, db *sqlx.DB, name, role string) model.Staff {
	t.Helper()
	s := model.Staff{
		Name:      name,
		Email:     name + "@jrfmotorparts.test",
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	err := db.QueryRowx(
		`INSERT INTO staff (name, email, role, is_active, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		s.Name, s.Email, s.Role, s.IsActive, s.CreatedAt,
	).Scan(&s.ID)
	require.NoError(t, err)
	return s
}

func SeedCustomer(t *testing.T, db *sqlx.DB, name string) model.Customer {
	t.Helper()
	c := model.Customer{Name: name, IsActive: true, CreatedDate: time.Now().UTC()}
	err := db.QueryRowx(
		`INSERT INTO customers (name, is_active, created_date) VALUES (?, ?, ?) RETURNING id`,
		c.Name, c.IsActive, c.CreatedDate,
	).Scan(&c.ID)
	require.NoError(t, err)
	return c
}

func SeedPart(t *testing.T, db *sqlx.DB, name string, price string, stock int) model.Part {
	t.Helper()
	p := model.Part{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		UpdatedAt:     time.Now().UTC(),
	}
	err := db.QueryRowx(
		`INSERT INTO parts (name, price, stock_quantity, updated_at) VALUES (?, ?, ?, ?) RETURNING id`,
		p.Name, p.Price, p.StockQuantity, p.UpdatedAt,
	).Scan(&p.ID)
	require.NoError(t, err)
	return p
}

func StockOf(t *testing.T, db *sqlx.DB, partID int64) int {
	t.Helper()
	var qty int
	require.NoError(t, db.Get(&qty, `SELECT stock_quantity FROM parts WHERE id = ?`, partID))
	return qty
}

func Count(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, query, args...))
	return n
}
