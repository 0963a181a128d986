package stores

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-grocer/internal/common"
	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
	"github.com/noah-isme/backend-grocer/internal/geo"
)

type queryProvider interface {
	ListStores(ctx context.Context) ([]dbgen.Store, error)
}

// Store is the public store payload.
type Store struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	ImageRef   *string  `json:"imageRef,omitempty"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// Query filters the store directory.
type Query struct {
	Near     *geo.Point
	RadiusKm *float64
}

// Service lists stores.
type Service struct {
	Q queryProvider
}

// NewService constructs a store directory service.
func NewService(q queryProvider) *Service {
	return &Service{Q: q}
}

// ParseQuery reads near ("lat,lon") and radius (km) from query values.
func ParseQuery(values url.Values) (Query, error) {
	var q Query
	if raw := strings.TrimSpace(values.Get("near")); raw != "" {
		p, err := geo.ParsePoint(raw)
		if err != nil {
			return Query{}, common.BadRequest("near", "near must be \"lat,lon\"", err)
		}
		q.Near = &p
	}
	if raw := strings.TrimSpace(values.Get("radius")); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
			return Query{}, common.BadRequest("radius", "radius must be a non-negative number", err)
		}
		q.RadiusKm = &radius
	}
	if q.RadiusKm != nil && q.Near == nil {
		return Query{}, common.BadRequest("radius", "radius requires near", nil)
	}
	return q, nil
}

// List returns every store ordered by id, or by distance then id when Near is set.
func (s *Service) List(ctx context.Context, q Query) ([]Store, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("store service not configured")
	}
	if q.RadiusKm != nil && q.Near == nil {
		return nil, common.BadRequest("radius", "radius requires near", nil)
	}
	rows, err := s.Q.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	out := make([]Store, 0, len(rows))
	for _, row := range rows {
		out = append(out, Store{
			ID:        row.ID,
			Name:      row.Name,
			Location:  row.Location,
			Address:   row.Address,
			Latitude:  row.Latitude.InexactFloat64(),
			Longitude: row.Longitude.InexactFloat64(),
			ImageRef:  textPtr(row.ImageRef),
		})
	}
	if q.Near == nil {
		return out, nil
	}

	points := make(map[int64]geo.Point, len(out))
	for _, st := range out {
		points[st.ID] = geo.Point{Lat: st.Latitude, Lon: st.Longitude}
	}
	distances := geo.DistancesFrom(*q.Near, points)
	kept := out[:0]
	for _, st := range out {
		d := distances[st.ID]
		if q.RadiusKm != nil && d > *q.RadiusKm {
			continue
		}
		st.DistanceKm = &d
		kept = append(kept, st)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if *kept[i].DistanceKm != *kept[j].DistanceKm {
			return *kept[i].DistanceKm < *kept[j].DistanceKm
		}
		return kept[i].ID < kept[j].ID
	})
	return kept, nil
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
