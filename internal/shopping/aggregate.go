package shopping

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grocer/internal/cart"
)

// Line is one cart product matched at a store.
type Line struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	Stock     int
}

// StoreAggregate is the per-store view of a cart.
type StoreAggregate struct {
	Store cart.Store
	Lines []Line
	Total decimal.Decimal
	// Distance is set in kilometres when an origin was supplied.
	Distance *float64
	Complete bool
	// Matched holds the cart product ids this store carries.
	Matched map[int64]struct{}
}

// Aggregate regroups the item-major snapshot by store. Every offer of every
// line lands in its store's bucket; products without offers land nowhere.
func Aggregate(snap cart.Snapshot) map[int64]*StoreAggregate {
	out := make(map[int64]*StoreAggregate)
	for _, line := range snap.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, offer := range line.Offers {
			agg, ok := out[offer.Store.ID]
			if !ok {
				agg = &StoreAggregate{
					Store:   offer.Store,
					Total:   decimal.Zero,
					Matched: make(map[int64]struct{}),
				}
				out[offer.Store.ID] = agg
			}
			lineTotal := offer.Price.Mul(qty)
			agg.Lines = append(agg.Lines, Line{
				ProductID: line.Product.ID,
				Name:      line.Product.Name,
				UnitPrice: offer.Price,
				Quantity:  line.Quantity,
				LineTotal: lineTotal,
				Stock:     offer.Stock,
			})
			agg.Total = agg.Total.Add(lineTotal)
			agg.Matched[line.Product.ID] = struct{}{}
		}
	}
	return out
}

// covers reports whether the store carries every product in want.
func (a *StoreAggregate) covers(want map[int64]struct{}) bool {
	for id := range want {
		if _, ok := a.Matched[id]; !ok {
			return false
		}
	}
	return true
}
