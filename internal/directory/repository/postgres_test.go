package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
)

func TestListStaffByRole_SnapshotsActiveMembers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	m1 := testutil.SeedStaff(t, db, "maria", model.RoleManager)
	m2 := testutil.SeedStaff(t, db, "pedro", model.RoleManager)
	testutil.SeedStaff(t, db, "ana", model.RoleAdmin)
	inactive := testutil.SeedStaff(t, db, "jose", model.RoleManager)
	_, err := db.Exec(`UPDATE staff SET is_active = ? WHERE id = ?`, false, inactive.ID)
	require.NoError(t, err)

	managers, err := repo.ListStaffByRole(ctx, model.RoleManager)
	require.NoError(t, err)
	require.Len(t, managers, 2)
	assert.Equal(t, m1.ID, managers[0].ID)
	assert.Equal(t, m2.ID, managers[1].ID)

	none, err := repo.ListStaffByRole(ctx, "auditor")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.ListActiveStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetStaffAndCustomer_MissingReturnsNil(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	s, err := repo.GetStaff(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, s)

	c, err := repo.GetCustomer(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, c)

	seeded := testutil.SeedCustomer(t, db, "Rider Club")
	c, err = repo.GetCustomer(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Rider Club", c.Name)
}
