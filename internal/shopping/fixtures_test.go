package shopping_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grocer/internal/cart"
)

var (
	storeX = cart.Store{ID: 10, Name: "Store X", Latitude: decimal.RequireFromString("-6.200000"), Longitude: decimal.RequireFromString("106.816666")}
	storeY = cart.Store{ID: 20, Name: "Store Y", Latitude: decimal.RequireFromString("-6.914744"), Longitude: decimal.RequireFromString("107.609810")}
)

func offer(productID int64, store cart.Store, price string) cart.Offer {
	return cart.Offer{ProductID: productID, Store: store, Price: decimal.RequireFromString(price), Stock: 7}
}

func line(productID int64, name string, qty int, offers ...cart.Offer) cart.Line {
	return cart.Line{ID: productID, Product: cart.Product{ID: productID, Name: name}, Quantity: qty, Offers: offers}
}

// xyCart holds Apples x2 (X 3.00) and Bread x1 (X 5.00, Y 5.00).
func xyCart() cart.Snapshot {
	return cart.Snapshot{
		Cart: cart.Cart{ID: 1, UserID: "alice", UniqueItems: 2},
		Lines: []cart.Line{
			line(1, "Apples", 2, offer(1, storeX, "3.00")),
			line(2, "Bread", 1, offer(2, storeX, "5.00"), offer(2, storeY, "5.00")),
		},
	}
}

type fakeLoader struct {
	mu    sync.Mutex
	carts map[int64]cart.Snapshot
	err   error
	calls int
}

func (f *fakeLoader) Load(_ context.Context, cartID int64) (cart.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return cart.Snapshot{}, f.err
	}
	snap, ok := f.carts[cartID]
	if !ok {
		return cart.Snapshot{}, cart.ErrNotFound
	}
	return snap, nil
}
