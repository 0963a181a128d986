package cart_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/backend-grocer/internal/cart"
	"github.com/noah-isme/backend-grocer/internal/common"
)

func TestApplyChangeSetsAbsoluteQuantity(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)
	ctx := context.Background()

	snap, err := svc.ApplyChange(ctx, "alice", 1, 2)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 1, snap.Cart.UniqueItems)
	assert.Equal(t, "alice", snap.Cart.UserID)

	snap, err = svc.ApplyChange(ctx, "alice", 1, 5)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 5, snap.Lines[0].Quantity, "quantity is replaced, not incremented")
	assert.Equal(t, 1, snap.Cart.UniqueItems)
}

func TestApplyChangeZeroRemovesLine(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)
	ctx := context.Background()

	_, err := svc.ApplyChange(ctx, "alice", 1, 2)
	require.NoError(t, err)
	snap, err := svc.ApplyChange(ctx, "alice", 2, 1)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Cart.UniqueItems)

	snap, err = svc.ApplyChange(ctx, "alice", 1, 0)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(2), snap.Lines[0].Product.ID)
	assert.Equal(t, 1, snap.Cart.UniqueItems)

	state := db.snapshot()
	assert.Len(t, state.items[snap.Cart.ID], 1)
	assert.Equal(t, int32(1), state.carts[snap.Cart.ID].UniqueItems)
}

func TestApplyChangeZeroOnAbsentLineIsNoop(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)

	snap, err := svc.ApplyChange(context.Background(), "bob", 3, 0)
	require.NoError(t, err)
	assert.NotZero(t, snap.Cart.ID)
	assert.Empty(t, snap.Lines)
	assert.Zero(t, snap.Cart.UniqueItems)
	assert.Nil(t, snap.PriceRange)
}

func TestApplyChangeUnknownProduct(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)

	_, err := svc.ApplyChange(context.Background(), "alice", 999, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cart.ErrNotFound))

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Empty(t, db.snapshot().users, "nothing is persisted for a rejected change")
}

func TestApplyChangeValidatesBeforeStoreAccess(t *testing.T) {
	cases := []struct {
		name      string
		userID    string
		productID int64
		quantity  int
		field     string
	}{
		{name: "negative quantity", userID: "alice", productID: 1, quantity: -1, field: "quantity"},
		{name: "empty user", userID: "  ", productID: 1, quantity: 1, field: "user_id"},
		{name: "zero product", userID: "alice", productID: 0, quantity: 1, field: "product_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := groceryDB()
			svc := cart.NewService(db)
			_, err := svc.ApplyChange(context.Background(), tc.userID, tc.productID, tc.quantity)
			require.ErrorIs(t, err, cart.ErrInvalidInput)

			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, map[string]any{"field": tc.field}, appErr.Details)
			assert.Zero(t, db.calls())
		})
	}
}

func TestApplyChangeRollsBackOnFailure(t *testing.T) {
	for _, op := range []string{"UpsertCartItem", "CountCartItems", "SetCartUniqueItems", "ListCartOffers"} {
		t.Run(op, func(t *testing.T) {
			db := groceryDB()
			svc := cart.NewService(db)
			ctx := context.Background()
			_, err := svc.ApplyChange(ctx, "alice", 1, 2)
			require.NoError(t, err)
			before := db.snapshot()

			db.failOn = op
			_, err = svc.ApplyChange(ctx, "alice", 2, 4)
			require.ErrorIs(t, err, errBoom)
			assert.NotErrorIs(t, err, cart.ErrNotFound)

			after := db.snapshot()
			assert.Equal(t, before.items, after.items)
			assert.Equal(t, before.carts, after.carts)
		})
	}
}

func TestApplyChangeCommitFailureLeavesNothing(t *testing.T) {
	db := groceryDB()
	db.failCommit = true
	svc := cart.NewService(db)

	_, err := svc.ApplyChange(context.Background(), "carol", 1, 1)
	require.Error(t, err)
	state := db.snapshot()
	assert.Empty(t, state.users)
	assert.Empty(t, state.carts)
}

func TestApplyChangeCancelledContext(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ApplyChange(ctx, "dave", 1, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, db.snapshot().carts)
}

func TestGetCreatesCartOnce(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)
	ctx := context.Background()

	first, err := svc.Get(ctx, "erin")
	require.NoError(t, err)
	second, err := svc.Get(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, first.Cart.ID, second.Cart.ID)
	assert.Len(t, db.snapshot().carts, 1)

	_, err = svc.Get(ctx, "")
	require.ErrorIs(t, err, cart.ErrInvalidInput)
}

func TestSnapshotPriceRange(t *testing.T) {
	db := groceryDB()
	db.addOffer(1, 20, "0.00")
	svc := cart.NewService(db)
	ctx := context.Background()

	_, err := svc.ApplyChange(ctx, "frank", 1, 1)
	require.NoError(t, err)
	_, err = svc.ApplyChange(ctx, "frank", 2, 3)
	require.NoError(t, err)
	snap, err := svc.ApplyChange(ctx, "frank", 3, 1)
	require.NoError(t, err)

	require.NotNil(t, snap.PriceRange)
	assert.True(t, snap.PriceRange.Min.Equal(decimal.Zero), "min %s", snap.PriceRange.Min)
	assert.True(t, snap.PriceRange.Max.Equal(decimal.RequireFromString("5")), "max %s", snap.PriceRange.Max)

	require.Len(t, snap.Lines, 3)
	apples := snap.Lines[0]
	require.NotNil(t, apples.Lowest)
	assert.True(t, apples.Lowest.Equal(decimal.Zero))
	assert.True(t, apples.Highest.Equal(decimal.RequireFromString("3")))

	coffee := snap.Lines[2]
	assert.Empty(t, coffee.Offers)
	assert.Nil(t, coffee.Lowest)
	assert.Nil(t, coffee.Highest)
}

func TestApplyChangeConcurrentSameUser(t *testing.T) {
	db := groceryDB()
	svc := cart.NewService(db)
	ctx := context.Background()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 30; i++ {
		productID := int64(i%3 + 1)
		qty := i % 4
		g.Go(func() error {
			if _, err := svc.ApplyChange(gctx, "grace", productID, qty); err != nil {
				return fmt.Errorf("product %d qty %d: %w", productID, qty, err)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	state := db.snapshot()
	require.Len(t, state.carts, 1)
	for id, c := range state.carts {
		assert.Equal(t, int32(len(state.items[id])), c.UniqueItems)
		for _, item := range state.items[id] {
			assert.GreaterOrEqual(t, item.Quantity, int32(1))
		}
	}
}
