package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"time"

	"github.com/gamedistrict/storefront/internal/cache"
	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/pricing"
	"github.com/gamedistrict/storefront/internal/query"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Per-kind read policies. Anything a client names that is not listed here
// is silently dropped by the translator, so adding a column is an explicit
// decision, never an accident.
var gameListPolicy = &query.Whitelist{
	Filterable: map[string]query.Field{
		"platform":  {Column: "platform", Type: query.TypeText},
		"category":  {Column: "category", Type: query.TypeText},
		"sold":      {Column: "sold", Type: query.TypeNumber},
		"createdAt": {Column: "created_at", Type: query.TypeTime},
	},
	Sortable: map[string]query.Field{
		"name":      {Column: "name", Type: query.TypeText},
		"sold":      {Column: "sold", Type: query.TypeNumber},
		"rating":    {Column: "rating", Type: query.TypeNumber},
		"createdAt": {Column: "created_at", Type: query.TypeTime},
	},
	Selectable: map[string]bool{
		"name": true, "slug": true, "description": true, "platform": true,
		"category": true, "photo": true, "variants": true, "discountPercent": true,
		"offerStart": true, "offerEnd": true, "stock": true, "sold": true,
		"rating": true, "isFeatured": true, "createdAt": true,
	},
}

var deviceListPolicy = &query.Whitelist{
	Filterable: map[string]query.Field{
		"condition": {Column: "condition", Type: query.TypeText},
		"price":     {Column: "final_price", Type: query.TypeNumber},
		"sold":      {Column: "sold", Type: query.TypeNumber},
		"createdAt": {Column: "created_at", Type: query.TypeTime},
	},
	Sortable: map[string]query.Field{
		"name":      {Column: "name", Type: query.TypeText},
		"price":     {Column: "final_price", Type: query.TypeNumber},
		"sold":      {Column: "sold", Type: query.TypeNumber},
		"createdAt": {Column: "created_at", Type: query.TypeTime},
	},
	Selectable: map[string]bool{
		"name": true, "slug": true, "description": true, "condition": true,
		"photo": true, "basePrice": true, "finalPrice": true, "discountPercent": true,
		"offerStart": true, "offerEnd": true, "stock": true, "sold": true,
		"isFeatured": true, "createdAt": true,
	},
}

var bestSellerPolicy = &query.Whitelist{
	Filterable: map[string]query.Field{
		"sold":      {Column: "sold", Type: query.TypeNumber},
		"createdAt": {Column: "created_at", Type: query.TypeTime},
	},
	Sortable: map[string]query.Field{
		"name": {Column: "name", Type: query.TypeText},
		"sold": {Column: "sold", Type: query.TypeNumber},
	},
	Selectable: map[string]bool{
		"name": true, "slug": true, "photo": true, "variants": true,
		"basePrice": true, "finalPrice": true, "discountPercent": true,
		"sold": true, "rating": true,
	},
}

const bestSellerLimit = 10

type CatalogService interface {
	CreateGame(ctx context.Context, req *models.CreateGameRequest) (*models.CatalogItem, error)
	UpdateGame(ctx context.Context, id uuid.UUID, req *models.UpdateGameRequest) (*models.CatalogItem, error)
	CreateDevice(ctx context.Context, req *models.CreateDeviceRequest) (*models.CatalogItem, error)
	UpdateDevice(ctx context.Context, id uuid.UUID, req *models.UpdateDeviceRequest) (*models.CatalogItem, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	GetItemBySlug(ctx context.Context, kind models.ItemKind, slug string) (*models.CatalogItem, error)
	ListItems(ctx context.Context, kind models.ItemKind, params url.Values, activeOnly bool) ([]*models.CatalogItem, *query.Query, error)
	ListFeatured(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error)
	ListOffers(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error)
	ListBestSellers(ctx context.Context, kind models.ItemKind, params url.Values) ([]*models.CatalogItem, *query.Query, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	DeactivateItem(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo      repository.CatalogRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewCatalogService(repo repository.CatalogRepository, cacheStore cache.Cache) CatalogService {
	return &catalogService{
		repo:      repo,
		cache:     cacheStore,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *catalogService) CreateGame(ctx context.Context, req *models.CreateGameRequest) (*models.CatalogItem, error) {

	if err := validateOfferWindow(req.OfferStart, req.OfferEnd); err != nil {
		return nil, err
	}

	variants := req.Variants
	if err := recomputeVariantPrices(&variants, req.DiscountPercent); err != nil {
		return nil, err
	}

	item := &models.CatalogItem{
		ID:              uuid.New(),
		Kind:            models.ItemKindGame,
		Name:            req.Name,
		Slug:            utils.Slugify(req.Name),
		Description:     s.sanitizer.Sanitize(req.Description),
		Platform:        req.Platform,
		Category:        req.Category,
		Photo:           req.Photo,
		Variants:        &variants,
		DiscountPercent: req.DiscountPercent,
		OfferStart:      req.OfferStart,
		OfferEnd:        req.OfferEnd,
		Stock:           req.Stock,
		IsActive:        true,
		IsFeatured:      req.IsFeatured,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, appErrors.DatabaseError("Failed to create game").WithError(err)
	}

	return item, nil
}

func (s *catalogService) UpdateGame(ctx context.Context, id uuid.UUID, req *models.UpdateGameRequest) (*models.CatalogItem, error) {

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, appErrors.NotFoundError("Game not found").WithError(err)
	}

	if item.Kind != models.ItemKindGame {
		return nil, appErrors.NotFoundError("Game not found")
	}

	oldSlug := item.Slug

	if req.Name != nil {
		item.Name = *req.Name
		item.Slug = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		item.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Platform != nil {
		item.Platform = *req.Platform
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Photo != nil {
		item.Photo = *req.Photo
	}
	if req.Variants != nil {
		item.Variants = req.Variants
	}
	if req.DiscountPercent != nil {
		item.DiscountPercent = *req.DiscountPercent
	}
	if req.OfferStart != nil {
		item.OfferStart = req.OfferStart
	}
	if req.OfferEnd != nil {
		item.OfferEnd = req.OfferEnd
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.IsFeatured != nil {
		item.IsFeatured = *req.IsFeatured
	}

	if err := validateOfferWindow(item.OfferStart, item.OfferEnd); err != nil {
		return nil, err
	}

	// prices are always recomputed from base price and discount, even when
	// only one of the two changed
	if err := recomputeVariantPrices(item.Variants, item.DiscountPercent); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Game not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update game").WithError(err)
	}

	s.invalidate(ctx, item, oldSlug)

	return item, nil
}

func (s *catalogService) CreateDevice(ctx context.Context, req *models.CreateDeviceRequest) (*models.CatalogItem, error) {

	if err := validateOfferWindow(req.OfferStart, req.OfferEnd); err != nil {
		return nil, err
	}

	item := &models.CatalogItem{
		ID:              uuid.New(),
		Kind:            models.ItemKindDevice,
		Name:            req.Name,
		Slug:            utils.Slugify(req.Name),
		Description:     s.sanitizer.Sanitize(req.Description),
		Condition:       req.Condition,
		Photo:           req.Photo,
		BasePrice:       req.BasePrice,
		FinalPrice:      pricing.FinalPrice(req.BasePrice, req.DiscountPercent),
		DiscountPercent: req.DiscountPercent,
		OfferStart:      req.OfferStart,
		OfferEnd:        req.OfferEnd,
		Stock:           req.Stock,
		IsActive:        true,
		IsFeatured:      req.IsFeatured,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, appErrors.DatabaseError("Failed to create device").WithError(err)
	}

	return item, nil
}

func (s *catalogService) UpdateDevice(ctx context.Context, id uuid.UUID, req *models.UpdateDeviceRequest) (*models.CatalogItem, error) {

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, appErrors.NotFoundError("Device not found").WithError(err)
	}

	if item.Kind != models.ItemKindDevice {
		return nil, appErrors.NotFoundError("Device not found")
	}

	oldSlug := item.Slug

	if req.Name != nil {
		item.Name = *req.Name
		item.Slug = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		item.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Condition != nil {
		item.Condition = *req.Condition
	}
	if req.Photo != nil {
		item.Photo = *req.Photo
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}
	if req.DiscountPercent != nil {
		item.DiscountPercent = *req.DiscountPercent
	}
	if req.OfferStart != nil {
		item.OfferStart = req.OfferStart
	}
	if req.OfferEnd != nil {
		item.OfferEnd = req.OfferEnd
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.IsFeatured != nil {
		item.IsFeatured = *req.IsFeatured
	}

	if err := validateOfferWindow(item.OfferStart, item.OfferEnd); err != nil {
		return nil, err
	}

	item.FinalPrice = pricing.FinalPrice(item.BasePrice, item.DiscountPercent)

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Device not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update device").WithError(err)
	}

	s.invalidate(ctx, item, oldSlug)

	return item, nil
}

func (s *catalogService) GetItemByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {

	key := cache.Key(cache.ItemKeyPrefix, id.String())

	cached := &models.CatalogItem{}
	if found, err := s.cache.Get(ctx, key, cached); err == nil && found {
		return cached, nil
	}

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, appErrors.NotFoundError("Item not found").WithError(err)
	}

	_ = s.cache.Set(ctx, key, item, 0)

	return item, nil
}

func (s *catalogService) GetItemBySlug(ctx context.Context, kind models.ItemKind, slug string) (*models.CatalogItem, error) {

	key := slugKey(kind, slug)

	cached := &models.CatalogItem{}
	if found, err := s.cache.Get(ctx, key, cached); err == nil && found {
		return cached, nil
	}

	item, err := s.repo.GetItemBySlug(ctx, kind, slug)
	if err != nil {
		return nil, appErrors.NotFoundError("Item not found").WithError(err)
	}

	_ = s.cache.Set(ctx, key, item, 0)

	return item, nil
}

func (s *catalogService) ListItems(ctx context.Context, kind models.ItemKind, params url.Values, activeOnly bool) ([]*models.CatalogItem, *query.Query, error) {

	q := query.Translate(params, policyFor(kind))

	items, err := s.repo.ListItems(ctx, kind, activeOnly, q)
	if err != nil {
		return nil, nil, appErrors.DatabaseError("Failed to fetch items").WithError(err)
	}

	return items, q, nil
}

func (s *catalogService) ListFeatured(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error) {

	items, err := s.repo.ListFeatured(ctx, kind)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch featured items").WithError(err)
	}

	return items, nil
}

func (s *catalogService) ListOffers(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error) {

	items, err := s.repo.ListOffers(ctx, kind, time.Now())
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch offers").WithError(err)
	}

	return items, nil
}

func (s *catalogService) ListBestSellers(ctx context.Context, kind models.ItemKind, params url.Values) ([]*models.CatalogItem, *query.Query, error) {

	if params.Get("sort") == "" {
		params.Set("sort", "-sold")
	}

	q := query.Translate(params, bestSellerPolicy)
	if params.Get("limit") == "" {
		q.Limit = bestSellerLimit
	}

	items, err := s.repo.ListBestSellers(ctx, kind, q)
	if err != nil {
		return nil, nil, appErrors.DatabaseError("Failed to fetch best sellers").WithError(err)
	}

	return items, q, nil
}

func (s *catalogService) ToggleActive(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, appErrors.NotFoundError("Item not found").WithError(err)
	}

	item.IsActive = !item.IsActive

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, appErrors.DatabaseError("Failed to update item").WithError(err)
	}

	s.invalidate(ctx, item, item.Slug)

	return item, nil
}

func (s *catalogService) ToggleFeatured(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, appErrors.NotFoundError("Item not found").WithError(err)
	}

	item.IsFeatured = !item.IsFeatured

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, appErrors.DatabaseError("Failed to update item").WithError(err)
	}

	s.invalidate(ctx, item, item.Slug)

	return item, nil
}

// DeactivateItem is a soft delete: the row survives so that order snapshots
// and sold counters keep their referent.
func (s *catalogService) DeactivateItem(ctx context.Context, id uuid.UUID) error {

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return appErrors.NotFoundError("Item not found").WithError(err)
	}

	if !item.IsActive {
		return nil
	}

	item.IsActive = false

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return appErrors.DatabaseError("Failed to deactivate item").WithError(err)
	}

	s.invalidate(ctx, item, item.Slug)

	return nil
}

func (s *catalogService) invalidate(ctx context.Context, item *models.CatalogItem, oldSlug string) {
	_ = s.cache.Delete(ctx, cache.Key(cache.ItemKeyPrefix, item.ID.String()))
	_ = s.cache.Delete(ctx, slugKey(item.Kind, item.Slug))

	if oldSlug != item.Slug {
		_ = s.cache.Delete(ctx, slugKey(item.Kind, oldSlug))
	}
}

func slugKey(kind models.ItemKind, slug string) string {
	return cache.Key(cache.SlugKeyPrefix, string(kind)+":"+slug)
}

func policyFor(kind models.ItemKind) *query.Whitelist {
	if kind == models.ItemKindDevice {
		return deviceListPolicy
	}

	return gameListPolicy
}

// recomputeVariantPrices derives finalPrice for every enabled variant and
// zeroes disabled ones. At least one variant must be enabled, and an enabled
// variant must carry a base price.
func recomputeVariantPrices(variants *models.GameVariants, discountPercent int) error {

	if variants == nil || !variants.AnyEnabled() {
		return appErrors.ValidationError("At least one price variant must be enabled")
	}

	for _, v := range []*models.PriceVariant{&variants.Primary, &variants.Secondary} {

		if !v.Enabled {
			v.BasePrice = 0
			v.FinalPrice = 0

			continue
		}

		if v.BasePrice <= 0 {
			return appErrors.ValidationError("An enabled variant requires a base price")
		}

		v.FinalPrice = pricing.FinalPrice(v.BasePrice, discountPercent)
	}

	return nil
}

func validateOfferWindow(start, end *time.Time) error {

	if (start == nil) != (end == nil) {
		return appErrors.ValidationError("Offer window requires both a start and an end date")
	}

	if start != nil && !end.After(*start) {
		return appErrors.ValidationError("Offer end date must be after the start date")
	}

	return nil
}
