// Package resolver turns a scanned storefront URL into a normalized
// price/stock record.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/kioskops/price-resolver/internal/config"
	"github.com/kioskops/price-resolver/internal/models"
	"github.com/kioskops/price-resolver/internal/vtex"
)

// CommerceClient is the slice of the platform client the resolver needs.
type CommerceClient interface {
	SKUByID(ctx context.Context, skuID int64) (*vtex.SKU, error)
	SearchBySlug(ctx context.Context, slug string) ([]vtex.SearchProduct, error)
	SearchByText(ctx context.Context, query string) ([]vtex.SearchProduct, error)
	PriceBySKU(ctx context.Context, skuID int64, salesChannel string) (*vtex.PriceQuote, error)
	Simulate(ctx context.Context, itemID, seller, salesChannel string) (*vtex.PriceQuote, error)
	StockBySKU(ctx context.Context, skuID int64) (quantity int, found bool, err error)
}

// Service handles the per-request resolution flow for one store.
type Service struct {
	client CommerceClient
	store  config.StoreConfig
	logger *slog.Logger
}

// NewService creates a resolver service
func NewService(client CommerceClient, store config.StoreConfig, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Resolve validates the URL against the store domain and runs the configured
// resolution strategy.
func (s *Service) Resolve(ctx context.Context, rawURL string) (*models.ResolveResult, error) {
	if err := ValidateDomain(rawURL, s.store.Domain); err != nil {
		return nil, err
	}

	if s.store.Strategy == config.StrategySlug {
		return s.resolveBySlug(ctx, rawURL)
	}
	return s.resolveBySKU(ctx, rawURL)
}

// resolveBySKU: numeric id from the URL, SKU metadata, direct pricing record.
func (s *Service) resolveBySKU(ctx context.Context, rawURL string) (*models.ResolveResult, error) {
	skuID, err := ExtractSKUID(rawURL)
	if err != nil {
		return nil, err
	}

	sku, err := s.client.SKUByID(ctx, skuID)
	if err != nil {
		return nil, err
	}

	name := sku.DisplayName()
	if name == "" {
		name = fmt.Sprintf("SKU %d", skuID)
	}

	quote, err := s.client.PriceBySKU(ctx, skuID, s.store.SalesChannel)
	if err != nil {
		return nil, err
	}

	result := &models.ResolveResult{
		SKUID:        skuID,
		ProductName:  name,
		ImageURL:     sku.ImageURL,
		SellingPrice: toCents(quote.Selling),
		ListPrice:    toCentsPtr(quote.List),
		Currency:     s.store.Currency,
		Source:       models.SourcePricingAPI,
	}

	s.attachStock(ctx, skuID, result)
	return result, nil
}

// resolveBySlug: slug from the URL path, catalog lookup, order simulation
// with optional fallback to the catalog offer price.
func (s *Service) resolveBySlug(ctx context.Context, rawURL string) (*models.ResolveResult, error) {
	slug, err := ExtractSlug(rawURL)
	if err != nil {
		return nil, err
	}

	product, err := s.lookupProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(product.Items) == 0 {
		return nil, &vtex.UpstreamError{
			Endpoint: "catalog_search",
			Status:   http.StatusOK,
			Detail:   "product has no purchasable items",
		}
	}

	item := product.Items[0]
	skuID, err := strconv.ParseInt(item.ItemID, 10, 64)
	if err != nil {
		return nil, &vtex.UpstreamError{
			Endpoint: "catalog_search",
			Status:   http.StatusOK,
			Detail:   "product item has no numeric identifier",
		}
	}

	seller := s.store.DefaultSeller
	var offer *vtex.CommertialOffer
	if len(item.Sellers) > 0 {
		seller = item.Sellers[0].SellerID
		offer = &item.Sellers[0].CommertialOffer
	}

	var imageURL string
	if len(item.Images) > 0 {
		imageURL = item.Images[0].ImageURL
	}

	result := &models.ResolveResult{
		SKUID:       skuID,
		Slug:        slug,
		ProductName: product.ProductName,
		Seller:      seller,
		ImageURL:    imageURL,
		Currency:    s.store.Currency,
	}

	quote, err := s.client.Simulate(ctx, item.ItemID, seller, s.store.SalesChannel)
	switch {
	case err == nil:
		result.SellingPrice = toCents(quote.Selling)
		result.ListPrice = toCentsPtr(quote.List)
		result.Source = models.SourceSimulation
	case s.canFallBack(err, offer):
		// Only a rejection from the simulation endpoint itself is eligible;
		// anything else propagates untouched.
		s.logger.Warn("simulation rejected, using catalog offer price",
			"slug", slug,
			"skuId", skuID,
			"error", err,
		)
		result.SellingPrice = toCents(offer.Price)
		result.ListPrice = toCentsPtr(offer.ListPrice)
		result.Source = models.SourceCatalogOffer
	default:
		return nil, err
	}

	s.attachStock(ctx, skuID, result)
	return result, nil
}

// lookupProduct finds the catalog entry for a slug: exact slug search first,
// then free-text search preferring an exact link-text match over the first hit.
func (s *Service) lookupProduct(ctx context.Context, slug string) (*vtex.SearchProduct, error) {
	products, err := s.client.SearchBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return &products[0], nil
	}

	products, err = s.client.SearchByText(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, &vtex.NotFoundError{Reason: "product not found"}
	}

	for i := range products {
		if products[i].LinkText == slug {
			return &products[i], nil
		}
	}
	return &products[0], nil
}

func (s *Service) canFallBack(err error, offer *vtex.CommertialOffer) bool {
	if !s.store.SimulationFallback || offer == nil || offer.Price <= 0 {
		return false
	}
	// Type-based check: only the simulation call can produce an
	// UpstreamError here, earlier failures return before it runs.
	var upstream *vtex.UpstreamError
	return errors.As(err, &upstream)
}

// attachStock fills in the best-effort inventory fields. Stock must never
// block a price response: every failure leaves the fields absent.
func (s *Service) attachStock(ctx context.Context, skuID int64, result *models.ResolveResult) {
	if !s.store.StockEnabled {
		return
	}

	quantity, found, err := s.client.StockBySKU(ctx, skuID)
	if err != nil {
		s.logger.Warn("stock lookup failed", "skuId", skuID, "error", err)
		return
	}
	if !found {
		return
	}

	inStock := quantity > 0
	result.AvailableQuantity = &quantity
	result.InStock = &inStock
}

// toCents converts a major-unit amount to minor units, rounding half away
// from zero. Each price field is converted independently.
func toCents(major float64) int64 {
	return int64(math.Round(major * 100))
}

func toCentsPtr(major *float64) *int64 {
	if major == nil {
		return nil
	}
	cents := toCents(*major)
	return &cents
}
