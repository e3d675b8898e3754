package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirrepo "github.com/fekuna/omnipos-sales-service/internal/directory/repository"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/internal/notification/repository"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type published struct {
	channel string
	payload []byte
}

type recordingPublisher struct {
	msgs []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.msgs = append(p.msgs, published{channel, payload})
	return p.err
}

func newTestUseCase(t *testing.T, pub Publisher) (notification.UseCase, *sqlx.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewNotificationUseCase(repository.NewPGRepository(db), dirrepo.NewPGRepository(db), pub, logger.NewNop()), db
}

var stockAlert = dto.NotifyInput{
	Title:      "Critical Stock Alert",
	Message:    "Brake Pad is critically low on stock (1 remaining)",
	Type:       model.NotificationWarning,
	Category:   "inventory",
	ActionURL:  "/inventory",
	ActionText: "View Inventory",
}

func TestNotify_DefaultsAndPublish(t *testing.T) {
	pub := &recordingPublisher{}
	uc, db := newTestUseCase(t, pub)
	staff := testutil.SeedStaff(t, db, "carlo", model.RoleStaff)

	n, err := uc.Notify(context.Background(), staff.ID, dto.NotifyInput{Title: "Hello", Message: "Welcome aboard"})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Equal(t, model.NotificationInfo, n.Type)
	assert.Equal(t, "system", n.Category)
	assert.Nil(t, n.ActionURL)
	assert.False(t, n.IsRead)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, Channel(staff.ID), pub.msgs[0].channel)
	var decoded model.Notification
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &decoded))
	assert.Equal(t, n.ID, decoded.ID)
}

func TestNotify_PublishFailureIsNotSurfaced(t *testing.T) {
	uc, db := newTestUseCase(t, &recordingPublisher{err: errors.New("redis down")})
	staff := testutil.SeedStaff(t, db, "carlo", model.RoleStaff)

	_, err := uc.Notify(context.Background(), staff.ID, stockAlert)
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.Count(t, db, `SELECT count(*) FROM notifications`))
}

func TestNotify_Validation(t *testing.T) {
	uc, db := newTestUseCase(t, nil)
	staff := testutil.SeedStaff(t, db, "carlo", model.RoleStaff)
	ctx := context.Background()

	_, err := uc.Notify(ctx, staff.ID, dto.NotifyInput{Title: " ", Message: "x"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = uc.Notify(ctx, staff.ID, dto.NotifyInput{Title: "x", Message: "y", Type: "urgent"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = uc.Notify(ctx, 0, stockAlert)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestNotifyRole_SnapshotWithoutDedup(t *testing.T) {
	uc, db := newTestUseCase(t, nil)
	ctx := context.Background()
	m1 := testutil.SeedStaff(t, db, "maria", model.RoleManager)
	m2 := testutil.SeedStaff(t, db, "pedro", model.RoleManager)
	testutil.SeedStaff(t, db, "ana", model.RoleAdmin)

	out, err := uc.NotifyRole(ctx, model.RoleManager, stockAlert)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, m1.ID, out[0].UserID)
	assert.Equal(t, m2.ID, out[1].UserID)

	m3 := testutil.SeedStaff(t, db, "lito", model.RoleManager)
	out, err = uc.NotifyRole(ctx, model.RoleManager, stockAlert)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	assert.Equal(t, 2, testutil.Count(t, db, `SELECT count(*) FROM notifications WHERE user_id = ?`, m1.ID))
	assert.Equal(t, 1, testutil.Count(t, db, `SELECT count(*) FROM notifications WHERE user_id = ?`, m3.ID))

	none, err := uc.NotifyRole(ctx, "auditor", stockAlert)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// failingRepo fails every Create after the first allowed writes.
type failingRepo struct {
	notification.Repository
	allowed int
}

func (r *failingRepo) Create(ctx context.Context, n *model.Notification) error {
	if r.allowed == 0 {
		return errors.New("disk full")
	}
	r.allowed--
	return r.Repository.Create(ctx, n)
}

func TestNotifyAll_PartialFailureKeepsEarlierWrites(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &failingRepo{Repository: repository.NewPGRepository(db), allowed: 2}
	uc := NewNotificationUseCase(repo, dirrepo.NewPGRepository(db), nil, logger.NewNop())
	for _, name := range []string{"a", "b", "c", "d"} {
		testutil.SeedStaff(t, db, name, model.RoleStaff)
	}

	out, err := uc.NotifyAll(context.Background(), stockAlert)
	assert.True(t, apperror.IsKind(err, apperror.KindPersistence))
	assert.Len(t, out, 2)
	assert.Equal(t, 2, testutil.Count(t, db, `SELECT count(*) FROM notifications`))
}

func TestInboxOperations(t *testing.T) {
	uc, db := newTestUseCase(t, nil)
	ctx := context.Background()
	me := testutil.SeedStaff(t, db, "carlo", model.RoleStaff)
	other := testutil.SeedStaff(t, db, "nina", model.RoleStaff)

	var ids []int64
	for i := 0; i < 3; i++ {
		n, err := uc.Notify(ctx, me.ID, stockAlert)
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	foreign, err := uc.Notify(ctx, other.ID, stockAlert)
	require.NoError(t, err)

	unread, err := uc.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, unread)

	require.NoError(t, uc.MarkRead(ctx, me.ID, ids[0]))
	assert.True(t, apperror.IsKind(uc.MarkRead(ctx, me.ID, ids[0]), apperror.KindNotFound))
	assert.True(t, apperror.IsKind(uc.MarkRead(ctx, me.ID, foreign.ID), apperror.KindNotFound))

	items, total, err := uc.List(ctx, &dto.ListFilters{UserID: me.ID, UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	page, total, err := uc.List(ctx, &dto.ListFilters{UserID: me.ID, Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)

	marked, err := uc.MarkAllRead(ctx, me.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	require.NoError(t, uc.Delete(ctx, me.ID, ids[1]))
	assert.True(t, apperror.IsKind(uc.Delete(ctx, me.ID, foreign.ID), apperror.KindNotFound))

	cleared, err := uc.ClearAll(ctx, me.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)

	left, err := uc.UnreadCount(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, left)
}
