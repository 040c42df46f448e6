package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpetrenko/storefront/internal/models"
	"github.com/mpetrenko/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	return repo.New(db)
}

func newCartEnv(t *testing.T) (*CartService, *repo.GormRepo) {
	t.Helper()

	store := newTestRepo(t)
	require.NoError(t, store.DB.Create(&models.Product{
		Name: "keyboard", Description: "mechanical", Price: 4500, Stock: 10,
	}).Error)
	require.NoError(t, store.DB.Create(&models.Product{
		Name: "mouse", Description: "optical", Price: 1500, Stock: 10,
	}).Error)

	return &CartService{Repo: store}, store
}

func TestCart_AddIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), first.Quantity)

	second, err := svc.Add(ctx, 1, 1, 3)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, uint(5), second.Quantity)

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCart_AddRejectsBadQuantityAndUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(ctx, 1, 1, -4)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(ctx, 1, 999, 1)
	require.ErrorIs(t, err, ErrProductNotFound)

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCart_UpdateSetsQuantity(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, item.ID, 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), updated.Quantity)

	_, err = svc.Update(ctx, 1, 999, 1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestCart_UpdateToZeroLeavesQuantityUnchanged(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 1, 1, 3)
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, item.ID, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(3), items[0].Quantity)
}

func TestCart_RemoveIsNoOpWhenAbsent(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, item.ID))
	require.NoError(t, svc.Remove(ctx, 1, item.ID))

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

// The final cart state must equal the net effect of the operations applied
// in order.
func TestCart_SequenceNetEffect(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	a, err := svc.Add(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, 2, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, 1, 4)
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, a.ID, 3)
	require.NoError(t, err)

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, uint(3), items[0].Quantity)
	require.Equal(t, uint(2), items[1].Quantity)

	require.NoError(t, svc.Clear(ctx, 1))
	items, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCart_CartsAreIsolatedPerUser(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, 2, 1)
	require.NoError(t, err)

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(1), items[0].ProductID)
}

func TestCart_MergeIsAdditiveAndDropsBadLines(t *testing.T) {
	t.Parallel()

	svc, _ := newCartEnv(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, 1, []MergeItem{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
		{ProductID: 999, Quantity: 5},
		{ProductID: 2, Quantity: 0},
	})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.Equal(t, uint(5), merged[0].Quantity, "shared lines sum their quantities")
	require.Equal(t, uint(1), merged[1].Quantity)
}
