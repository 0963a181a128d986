package cart

import (
	"time"

	"github.com/noah-isme/backend-grocer/internal/common"
)

// View is the JSON presentation of a Snapshot.
type View struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"userId"`
	UniqueItems int             `json:"uniqueItems"`
	Items       []LineView      `json:"items"`
	PriceRange  *PriceRangeView `json:"priceRange"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// LineView presents a cart line with its offers.
type LineView struct {
	ID           int64       `json:"id"`
	ProductID    int64       `json:"productId"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	ImageRef     *string     `json:"imageRef,omitempty"`
	Quantity     int         `json:"quantity"`
	LowestPrice  *float64    `json:"lowestPrice"`
	HighestPrice *float64    `json:"highestPrice"`
	Offers       []OfferView `json:"offers"`
}

// OfferView presents one store's price for a line.
type OfferView struct {
	StoreID   int64   `json:"storeId"`
	StoreName string  `json:"storeName"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// PriceRangeView presents the cart-wide price range.
type PriceRangeView struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewView renders a snapshot for the API.
func NewView(s Snapshot) View {
	items := make([]LineView, 0, len(s.Lines))
	for _, line := range s.Lines {
		offers := make([]OfferView, 0, len(line.Offers))
		for _, o := range line.Offers {
			offers = append(offers, OfferView{
				StoreID:   o.Store.ID,
				StoreName: o.Store.Name,
				Price:     common.Amount(o.Price),
				Stock:     o.Stock,
			})
		}
		items = append(items, LineView{
			ID:           line.ID,
			ProductID:    line.Product.ID,
			Name:         line.Product.Name,
			Description:  line.Product.Description,
			ImageRef:     line.Product.ImageRef,
			Quantity:     line.Quantity,
			LowestPrice:  common.AmountPtr(line.Lowest),
			HighestPrice: common.AmountPtr(line.Highest),
			Offers:       offers,
		})
	}
	v := View{
		ID:          s.Cart.ID,
		UserID:      s.Cart.UserID,
		UniqueItems: s.Cart.UniqueItems,
		Items:       items,
		UpdatedAt:   s.Cart.UpdatedAt,
	}
	if s.PriceRange != nil {
		v.PriceRange = &PriceRangeView{Min: common.Amount(s.PriceRange.Min), Max: common.Amount(s.PriceRange.Max)}
	}
	return v
}
