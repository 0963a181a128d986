package shopping

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/backend-grocer/internal/geo"
)

// Request describes one shopping-results query.
type Request struct {
	CartID   int64
	UserID   string
	RadiusKm *float64
	Origin   *geo.Point
	StoreIDs []int64
}

// Validate checks the request without touching any data.
func (r Request) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return badRequest("user_id", "user_id is required", nil)
	}
	if r.CartID <= 0 {
		return badRequest("cart_id", "cart_id must be a positive integer", nil)
	}
	if r.RadiusKm != nil {
		if math.IsNaN(*r.RadiusKm) || math.IsInf(*r.RadiusKm, 0) || *r.RadiusKm < 0 {
			return badRequest("radius", "radius must be a non-negative number", nil)
		}
		if r.Origin == nil {
			return badRequest("radius", "radius requires user_location", ErrRadiusWithoutLocation)
		}
	}
	if r.Origin != nil && !r.Origin.Valid() {
		return badRequest("user_location", "user_location is out of range", geo.ErrInvalidPoint)
	}
	for _, id := range r.StoreIDs {
		if id <= 0 {
			return badRequest("store_ids", "store_ids must be positive integers", nil)
		}
	}
	return nil
}

// Policy builds the filter policy for the request.
func (r Request) Policy(requireComplete bool) Policy {
	p := Policy{
		RequireComplete: requireComplete,
		Origin:          r.Origin,
		RadiusKm:        r.RadiusKm,
	}
	if len(r.StoreIDs) > 0 {
		p.StoreIDs = make(map[int64]struct{}, len(r.StoreIDs))
		for _, id := range r.StoreIDs {
			p.StoreIDs[id] = struct{}{}
		}
	}
	return p
}

// ParseRequest reads cart_id, user_id, radius, user_location and store_ids.
// store_ids may be comma separated, repeated, or both.
func ParseRequest(values url.Values) (Request, error) {
	var req Request

	rawCart := strings.TrimSpace(values.Get("cart_id"))
	if rawCart == "" {
		return Request{}, badRequest("cart_id", "cart_id is required", nil)
	}
	cartID, err := strconv.ParseInt(rawCart, 10, 64)
	if err != nil || cartID <= 0 {
		return Request{}, badRequest("cart_id", "cart_id must be a positive integer", err)
	}
	req.CartID = cartID

	req.UserID = strings.TrimSpace(values.Get("user_id"))
	if req.UserID == "" {
		return Request{}, badRequest("user_id", "user_id is required", nil)
	}

	if raw := strings.TrimSpace(values.Get("user_location")); raw != "" {
		p, err := geo.ParsePoint(raw)
		if err != nil {
			return Request{}, badRequest("user_location", "user_location must be \"lat,lon\"", err)
		}
		req.Origin = &p
	}

	if raw := strings.TrimSpace(values.Get("radius")); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Request{}, badRequest("radius", "radius must be a non-negative number", err)
		}
		req.RadiusKm = &radius
	}

	for _, raw := range values["store_ids"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return Request{}, badRequest("store_ids", "store_ids must be comma separated integers", err)
			}
			req.StoreIDs = append(req.StoreIDs, id)
		}
	}

	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}
