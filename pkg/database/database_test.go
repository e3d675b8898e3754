package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(&Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, ApplySchema(context.Background(), db))
	return db
}

func countParts(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT count(*) FROM parts`))
	return n
}

func TestApplySchema_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, ApplySchema(context.Background(), db))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", SQLiteDSN("file:a.db?mode=rwc"))
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	tr := NewTransactor(db)

	err := tr.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := Conn(ctx, db).ExecContext(ctx,
			`INSERT INTO parts (name, price, stock_quantity, updated_at) VALUES (?, ?, ?, ?)`,
			"Brake pad", "350.00", 10, time.Now().UTC())
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countParts(t, db))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	tr := NewTransactor(db)
	boom := errors.New("boom")

	err := tr.WithinTx(context.Background(), func(ctx context.Context) error {
		if _, err := Conn(ctx, db).ExecContext(ctx,
			`INSERT INTO parts (name, price, stock_quantity, updated_at) VALUES (?, ?, ?, ?)`,
			"Chain", "900.00", 3, time.Now().UTC()); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countParts(t, db))
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	db := openTestDB(t)
	tr := NewTransactor(db)

	err := tr.WithinTx(context.Background(), func(ctx context.Context) error {
		outer := Conn(ctx, db)
		return tr.WithinTx(ctx, func(inner context.Context) error {
			assert.Same(t, outer, Conn(inner, db))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestSchema_RejectsNegativeStock(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO parts (name, price, stock_quantity, updated_at) VALUES (?, ?, ?, ?)`,
		"Spark plug", "120.00", -1, time.Now().UTC())
	assert.Error(t, err)
}
