package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/language"

	"github.com/noah-isme/backend-grocer/internal/common"
	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

type queryProvider interface {
	ListCategories(ctx context.Context, locale pgtype.Text) ([]dbgen.Category, error)
	SearchProducts(ctx context.Context, arg dbgen.SearchProductsParams) ([]dbgen.Product, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// SearchParams captures filters for product search.
type SearchParams struct {
	Query      string `json:"q,omitempty"`
	CategoryID *int64 `json:"category,omitempty"`
	Locale     string `json:"locale,omitempty"`
	Limit      int    `json:"limit"`
}

// Category represents the public category payload.
type Category struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Locale   string  `json:"locale"`
	ImageRef *string `json:"imageRef,omitempty"`
}

// Product represents a product search hit.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  *int64  `json:"categoryId,omitempty"`
	ImageRef    *string `json:"imageRef,omitempty"`
	Locale      string  `json:"locale"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// NormalizeLocale reduces a BCP-47 tag to its base language ("en-US" -> "en").
// An empty input yields an empty locale.
func NormalizeLocale(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", common.BadRequest("locale", "locale must be a BCP-47 language tag", err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// ParseSearchParams normalises raw query values into typed search filters.
func (s *Service) ParseSearchParams(values url.Values) (SearchParams, error) {
	params := SearchParams{
		Query: strings.TrimSpace(values.Get("q")),
		Limit: s.defaultLimit,
	}
	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return params, common.BadRequest("category", "category must be a positive integer", err)
		}
		params.CategoryID = &id
	}
	if params.Query == "" && params.CategoryID == nil {
		return params, common.BadRequest("q", "q or category is required", nil)
	}
	locale, err := NormalizeLocale(values.Get("locale"))
	if err != nil {
		return params, err
	}
	params.Locale = locale
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return params, common.BadRequest("limit", "limit must be a positive integer", err)
		}
		params.Limit = limit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

// ListCategories returns categories, optionally restricted to one locale.
func (s *Service) ListCategories(ctx context.Context, locale string) ([]Category, error) {
	locale, err := NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	key := "catalog:categories:" + valueOr(locale, "all")
	var cached []Category
	if s.lookup(ctx, "categories", key, &cached) {
		return cached, nil
	}

	rows, err := s.queries.ListCategories(ctx, optionalText(locale))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	result := make([]Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, Category{
			ID:       row.ID,
			Name:     row.Name,
			Locale:   row.Locale,
			ImageRef: textPtr(row.ImageRef),
		})
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, result)
	}
	return result, nil
}

// Search returns products whose name or description contains the query,
// filtered by category and locale.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]Product, error) {
	if strings.TrimSpace(params.Query) == "" && params.CategoryID == nil {
		return nil, common.BadRequest("q", "q or category is required", nil)
	}
	if params.Limit < 1 || params.Limit > s.maxLimit {
		params.Limit = s.defaultLimit
	}
	key := searchCacheKey(params)
	var cached []Product
	if s.lookup(ctx, "search", key, &cached) {
		return cached, nil
	}

	arg := dbgen.SearchProductsParams{
		Query:      optionalText(strings.TrimSpace(params.Query)),
		Locale:     optionalText(params.Locale),
		LimitValue: int32(params.Limit),
	}
	if params.CategoryID != nil {
		arg.CategoryID = pgtype.Int8{Int64: *params.CategoryID, Valid: true}
	}
	rows, err := s.queries.SearchProducts(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	result := make([]Product, 0, len(rows))
	for _, row := range rows {
		p := Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			ImageRef:    textPtr(row.ImageRef),
			Locale:      row.Locale,
		}
		if row.CategoryID.Valid {
			id := row.CategoryID.Int64
			p.CategoryID = &id
		}
		result = append(result, p)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, result)
	}
	return result, nil
}

// lookup reads key from the cache. Cache failures count as misses.
func (s *Service) lookup(ctx context.Context, cache, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dst)
	hit := err == nil && ok
	if obs.CatalogCacheTotal != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		obs.CatalogCacheTotal.WithLabelValues(cache, result).Inc()
	}
	return hit
}

func searchCacheKey(params SearchParams) string {
	params.Query = strings.ToLower(strings.TrimSpace(params.Query))
	raw, _ := json.Marshal(params)
	return "catalog:search:" + common.Sha256Hex(string(raw))
}

func optionalText(v string) pgtype.Text {
	if v == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: v, Valid: true}
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
