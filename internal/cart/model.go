package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grocer/internal/geo"
)

// Cart is the persisted cart header. A user owns exactly one cart.
type Cart struct {
	ID          int64
	UserID      string
	UniqueItems int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is the catalog entry a cart line refers to.
type Product struct {
	ID          int64
	Name        string
	Description string
	CategoryID  *int64
	ImageRef    *string
	Locale      string
}

// Store is the metadata of a store carrying an offer.
type Store struct {
	ID        int64
	Name      string
	Location  string
	Address   string
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
	ImageRef  *string
}

// Point converts the stored coordinates for distance computation.
func (s Store) Point() geo.Point {
	return geo.Point{Lat: s.Latitude.InexactFloat64(), Lon: s.Longitude.InexactFloat64()}
}

// Offer is the price and stock of a product at one store.
type Offer struct {
	ID        int64
	ProductID int64
	Store     Store
	Price     decimal.Decimal
	Stock     int
}

// Line is a cart item resolved to its product and every known offer.
type Line struct {
	ID       int64
	Product  Product
	Quantity int
	Offers   []Offer
	// Lowest and Highest are nil when the product has no offers.
	Lowest  *decimal.Decimal
	Highest *decimal.Decimal
}

// PriceRange is the lowest and highest unit price across offers.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Snapshot is a fully loaded cart.
type Snapshot struct {
	Cart       Cart
	Lines      []Line
	PriceRange *PriceRange
}

// ProductIDs returns the distinct product ids of the cart lines.
func (s Snapshot) ProductIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(s.Lines))
	for _, line := range s.Lines {
		ids[line.Product.ID] = struct{}{}
	}
	return ids
}

func priceBounds(offers []Offer) (lowest, highest *decimal.Decimal) {
	for i := range offers {
		p := offers[i].Price
		if lowest == nil || p.LessThan(*lowest) {
			v := p
			lowest = &v
		}
		if highest == nil || p.GreaterThan(*highest) {
			v := p
			highest = &v
		}
	}
	return lowest, highest
}

func snapshotRange(lines []Line) *PriceRange {
	var out *PriceRange
	for _, line := range lines {
		if line.Lowest == nil || line.Highest == nil {
			continue
		}
		if out == nil {
			out = &PriceRange{Min: *line.Lowest, Max: *line.Highest}
			continue
		}
		if line.Lowest.LessThan(out.Min) {
			out.Min = *line.Lowest
		}
		if line.Highest.GreaterThan(out.Max) {
			out.Max = *line.Highest
		}
	}
	return out
}
