package shopping_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grocer/internal/cart"
	"github.com/noah-isme/backend-grocer/internal/shopping"
)

func TestAggregateXY(t *testing.T) {
	aggs := shopping.Aggregate(xyCart())
	require.Len(t, aggs, 2)

	x := aggs[storeX.ID]
	require.NotNil(t, x)
	assert.True(t, x.Total.Equal(decimal.RequireFromString("11.00")), "X total %s", x.Total)
	require.Len(t, x.Lines, 2)
	assert.True(t, x.Lines[0].LineTotal.Equal(decimal.RequireFromString("6")))

	y := aggs[storeY.ID]
	require.NotNil(t, y)
	assert.True(t, y.Total.Equal(decimal.RequireFromString("5.00")), "Y total %s", y.Total)
	assert.Len(t, y.Matched, 1)
}

func TestAggregateEdgeCases(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		aggs := shopping.Aggregate(cart.Snapshot{})
		require.NotNil(t, aggs)
		assert.Empty(t, aggs)
	})

	t.Run("product without offers contributes nothing", func(t *testing.T) {
		snap := cart.Snapshot{Lines: []cart.Line{line(3, "Coffee", 4)}}
		assert.Empty(t, shopping.Aggregate(snap))
	})

	t.Run("zero price is valid", func(t *testing.T) {
		snap := cart.Snapshot{Lines: []cart.Line{line(1, "Apples", 3, offer(1, storeY, "0"))}}
		aggs := shopping.Aggregate(snap)
		require.Contains(t, aggs, storeY.ID)
		assert.True(t, aggs[storeY.ID].Total.IsZero())
		assert.Len(t, aggs[storeY.ID].Lines, 1)
	})

	t.Run("no intermediate rounding", func(t *testing.T) {
		snap := cart.Snapshot{Lines: []cart.Line{
			line(1, "Apples", 3, offer(1, storeX, "0.10")),
			line(2, "Bread", 7, offer(2, storeX, "0.01")),
		}}
		aggs := shopping.Aggregate(snap)
		assert.Equal(t, "0.37", aggs[storeX.ID].Total.StringFixed(2))
	})
}

func TestAggregateProperties(t *testing.T) {
	f := gofakeit.New(2024)
	stores := make([]cart.Store, 6)
	for i := range stores {
		stores[i] = cart.Store{
			ID:        int64(i + 1),
			Name:      f.Company(),
			Latitude:  decimal.NewFromFloat(f.Latitude()).Round(6),
			Longitude: decimal.NewFromFloat(f.Longitude()).Round(6),
		}
	}

	for round := 0; round < 50; round++ {
		var snap cart.Snapshot
		offered := map[int64]bool{}
		lineCount := f.IntRange(0, 8)
		for p := 1; p <= lineCount; p++ {
			productID := int64(p)
			var offers []cart.Offer
			for _, st := range stores {
				if f.Bool() {
					price := decimal.NewFromFloat(f.Float64Range(0, 50)).Round(2)
					offers = append(offers, cart.Offer{ProductID: productID, Store: st, Price: price})
					offered[st.ID] = true
				}
			}
			snap.Lines = append(snap.Lines, line(productID, f.Fruit(), f.IntRange(1, 9), offers...))
		}

		aggs := shopping.Aggregate(snap)
		for storeID, agg := range aggs {
			require.True(t, offered[storeID], "phantom store %d", storeID)
			require.NotEmpty(t, agg.Lines)
			sum := decimal.Zero
			for _, l := range agg.Lines {
				require.True(t, l.LineTotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
				sum = sum.Add(l.LineTotal)
			}
			require.True(t, agg.Total.Equal(sum), "store %d total %s recomputed %s", storeID, agg.Total, sum)
		}
		for storeID := range offered {
			require.Contains(t, aggs, storeID)
		}
	}
}
