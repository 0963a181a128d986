package shopping

import (
	"math"

	"github.com/noah-isme/backend-grocer/internal/common"
)

// Result is the JSON presentation of one store aggregate.
type Result struct {
	StoreID    int64        `json:"storeId"`
	StoreName  string       `json:"storeName"`
	Location   string       `json:"location"`
	Address    string       `json:"address"`
	ImageRef   *string      `json:"imageRef,omitempty"`
	Latitude   float64      `json:"latitude"`
	Longitude  float64      `json:"longitude"`
	Total      float64      `json:"total"`
	DistanceKm *float64     `json:"distanceKm,omitempty"`
	Complete   bool         `json:"complete"`
	Items      []ResultItem `json:"items"`
}

// ResultItem is one product priced at a store.
type ResultItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Stock     int     `json:"stock"`
}

// NewResult renders an aggregate. Money is rounded to cents, distance to metres.
func NewResult(agg *StoreAggregate) Result {
	items := make([]ResultItem, 0, len(agg.Lines))
	for _, l := range agg.Lines {
		items = append(items, ResultItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: common.Amount(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: common.Amount(l.LineTotal),
			Stock:     l.Stock,
		})
	}
	r := Result{
		StoreID:   agg.Store.ID,
		StoreName: agg.Store.Name,
		Location:  agg.Store.Location,
		Address:   agg.Store.Address,
		ImageRef:  agg.Store.ImageRef,
		Latitude:  agg.Store.Latitude.InexactFloat64(),
		Longitude: agg.Store.Longitude.InexactFloat64(),
		Total:     common.Amount(agg.Total),
		Complete:  agg.Complete,
		Items:     items,
	}
	if agg.Distance != nil {
		d := math.Round(*agg.Distance*1000) / 1000
		r.DistanceKm = &d
	}
	return r
}
