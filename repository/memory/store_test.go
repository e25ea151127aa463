package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopez/models"
	"shopez/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_UpsertMergesMatchingLine(t *testing.T) {
	ctx := context.Background()
	carts := NewStore().Carts()

	first, err := carts.Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Shirt", Size: "M", Quantity: 1, AddedAt: time.Now()})
	require.NoError(t, err)
	second, err := carts.Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Shirt", Size: "M", Quantity: 2, AddedAt: time.Now()})
	require.NoError(t, err)
	_, err = carts.Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Shirt", Size: "L", Quantity: 1, AddedAt: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	lines, err := carts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCartRepository_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	carts := NewStore().Carts()
	line, err := carts.Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Cap", Quantity: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = carts.Increment(ctx, "u1", line.ID)
		}()
	}
	wg.Wait()

	lines, err := carts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 51, lines[0].Quantity)
}

func TestCartRepository_DecrementRemovesAtOne(t *testing.T) {
	ctx := context.Background()
	carts := NewStore().Carts()
	line, err := carts.Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Cap", Quantity: 2})
	require.NoError(t, err)

	got, removed, err := carts.Decrement(ctx, "u1", line.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, got.Quantity)

	_, removed, err = carts.Decrement(ctx, "u1", line.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, _, err = carts.Decrement(ctx, "u1", line.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartRepository_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	carts := NewStore().Carts()
	line, err := carts.Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Cap", Quantity: 1})
	require.NoError(t, err)

	_, err = carts.Increment(ctx, "u2", line.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, carts.Delete(ctx, "u2", line.ID), repository.ErrNotFound)
}

func TestOrderRepository_UpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	orders := NewStore().Orders()
	o := &models.Order{UserID: "u1", Title: "Cap", Status: models.StatusPlaced, OrderDate: time.Now()}
	require.NoError(t, orders.Insert(ctx, o))

	now := time.Now()
	got, err := orders.UpdateStatus(ctx, o.ID, []models.OrderStatus{models.StatusInTransit}, models.StatusDelivered, &now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, got)

	got, err = orders.UpdateStatus(ctx, o.ID, []models.OrderStatus{models.StatusPlaced}, models.StatusDelivered, &now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)
	require.NotNil(t, got.DeliveryDate)
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	orders := NewStore().Orders()
	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, orders.Insert(ctx, &models.Order{UserID: "u1", Title: "o", OrderDate: base.Add(time.Duration(i) * time.Minute)}))
	}

	list, err := orders.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].OrderDate.After(list[1].OrderDate))
	assert.True(t, list[1].OrderDate.After(list[2].OrderDate))
}

func TestStore_WithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Carts().Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Cap", Quantity: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Orders().Insert(ctx, &models.Order{UserID: "u1", Title: "Cap"}))
		_, err := s.Carts().DeleteByUser(ctx, "u1")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.Orders().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	lines, err := s.Carts().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestStore_RollbackKeepsOtherWriters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Carts().Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Cap", Quantity: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.Carts().DeleteByUser(txCtx, "u1")
		require.NoError(t, err)

		// another user writing outside the transaction while it runs
		_, err = s.Carts().Upsert(ctx, &models.CartItem{UserID: "u2", Title: "Mug", Quantity: 2})
		require.NoError(t, err)
		require.NoError(t, s.Settings().SetBanner(ctx, "sale"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u1, err := s.Carts().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, u1, 1)

	u2, err := s.Carts().ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, u2, 1)
	assert.Equal(t, 2, u2[0].Quantity)

	st, err := s.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sale", st.Banner)
}

func TestStore_RollbackRestoresUpdatedDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	line, err := s.Carts().Upsert(ctx, &models.CartItem{UserID: "u1", Title: "Cap", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, s.Settings().SetBanner(ctx, "old"))

	err = s.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.Carts().Increment(ctx, "u1", line.ID)
		require.NoError(t, err)
		_, err = s.Carts().Increment(ctx, "u1", line.ID)
		require.NoError(t, err)
		require.NoError(t, s.Settings().SetBanner(ctx, "new"))
		return errors.New("boom")
	})
	require.Error(t, err)

	lines, err := s.Carts().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)

	st, err := s.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", st.Banner)
}

func TestProductRepository_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	products := NewStore().Products()
	for _, p := range []models.Product{
		{Title: "A", Category: "shoes", Brand: "nike", Price: 50},
		{Title: "B", Category: "shoes", Brand: "puma", Price: 20},
		{Title: "C", Category: "watches", Brand: "nike", Price: 90},
	} {
		p := p
		require.NoError(t, products.Insert(ctx, &p))
	}

	minPrice := 25.0
	got, err := products.List(ctx, models.ProductFilter{Brand: "nike", MinPrice: &minPrice, Sort: models.SortPriceLow})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "C", got[1].Title)

	found, err := products.Search(ctx, "PUMA", 50)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "B", found[0].Title)

	n, err := products.ReassignCategory(ctx, "shoes", "sneakers")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCategoryAndUserRepositories_RejectDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Categories().Insert(ctx, &models.Category{Name: "Shoes", Slug: "shoes"}))
	assert.ErrorIs(t, s.Categories().Insert(ctx, &models.Category{Name: "shoes", Slug: "shoes"}), repository.ErrDuplicate)

	require.NoError(t, s.Users().Insert(ctx, &models.User{Email: "a@b.co", Role: models.RoleCustomer}))
	assert.ErrorIs(t, s.Users().Insert(ctx, &models.User{Email: "a@b.co"}), repository.ErrDuplicate)
}

func TestTokenBlacklist_ExpiredEntriesDropOut(t *testing.T) {
	ctx := context.Background()
	bl := NewStore().Blacklist()

	require.NoError(t, bl.Add(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, bl.Add(ctx, "stale", time.Now().Add(-time.Minute)))

	ok, err := bl.Contains(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bl.Contains(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)
}
