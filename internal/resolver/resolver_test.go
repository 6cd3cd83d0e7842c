package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/kioskops/price-resolver/internal/config"
	"github.com/kioskops/price-resolver/internal/vtex"
	"github.com/kioskops/price-resolver/pkg/logger"
)

// fakeClient implements CommerceClient and records which calls were made.
type fakeClient struct {
	sku      *vtex.SKU
	skuErr   error
	slugHits []vtex.SearchProduct
	slugErr  error
	textHits []vtex.SearchProduct
	textErr  error
	price    *vtex.PriceQuote
	priceErr error
	sim      *vtex.PriceQuote
	simErr   error

	stockQty   int
	stockFound bool
	stockErr   error

	calls []string
}

func (f *fakeClient) SKUByID(_ context.Context, _ int64) (*vtex.SKU, error) {
	f.calls = append(f.calls, "sku")
	return f.sku, f.skuErr
}

func (f *fakeClient) SearchBySlug(_ context.Context, _ string) ([]vtex.SearchProduct, error) {
	f.calls = append(f.calls, "search_slug")
	return f.slugHits, f.slugErr
}

func (f *fakeClient) SearchByText(_ context.Context, _ string) ([]vtex.SearchProduct, error) {
	f.calls = append(f.calls, "search_text")
	return f.textHits, f.textErr
}

func (f *fakeClient) PriceBySKU(_ context.Context, _ int64, _ string) (*vtex.PriceQuote, error) {
	f.calls = append(f.calls, "price")
	return f.price, f.priceErr
}

func (f *fakeClient) Simulate(_ context.Context, _, _, _ string) (*vtex.PriceQuote, error) {
	f.calls = append(f.calls, "simulate")
	return f.sim, f.simErr
}

func (f *fakeClient) StockBySKU(_ context.Context, _ int64) (int, bool, error) {
	f.calls = append(f.calls, "stock")
	return f.stockQty, f.stockFound, f.stockErr
}

func (f *fakeClient) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func storeConfig(strategy string) config.StoreConfig {
	return config.StoreConfig{
		Domain:             storeDomain,
		SalesChannel:       "1",
		DefaultSeller:      "1",
		Currency:           "ARS",
		Strategy:           strategy,
		SimulationFallback: true,
		StockEnabled:       true,
	}
}

func newTestService(client *fakeClient, store config.StoreConfig) *Service {
	return NewService(client, store, logger.New("error"))
}

func floatPtr(v float64) *float64 { return &v }

func TestResolveBySKU_Success(t *testing.T) {
	client := &fakeClient{
		sku:        &vtex.SKU{ID: 12345, NameComplete: "Zapatilla Runner Azul 42", Name: "Zapatilla Runner"},
		price:      &vtex.PriceQuote{Selling: 199.9},
		stockQty:   7,
		stockFound: true,
	}
	svc := newTestService(client, storeConfig(config.StrategySKU))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/p?skuId=12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SKUID != 12345 {
		t.Errorf("skuId = %d, want 12345", result.SKUID)
	}
	if result.ProductName != "Zapatilla Runner Azul 42" {
		t.Errorf("productName = %q", result.ProductName)
	}
	if result.SellingPrice != 19990 {
		t.Errorf("sellingPrice = %d, want 19990", result.SellingPrice)
	}
	if result.ListPrice != nil {
		t.Errorf("listPrice = %v, want nil", *result.ListPrice)
	}
	if result.AvailableQuantity == nil || *result.AvailableQuantity != 7 {
		t.Errorf("availableQuantity = %v, want 7", result.AvailableQuantity)
	}
	if result.InStock == nil || !*result.InStock {
		t.Errorf("inStock = %v, want true", result.InStock)
	}
	if result.Currency != "ARS" {
		t.Errorf("currency = %q, want ARS", result.Currency)
	}
	if result.Source != "pricing_api" {
		t.Errorf("source = %q, want pricing_api", result.Source)
	}
}

func TestResolveBySKU_ListPriceConverted(t *testing.T) {
	client := &fakeClient{
		sku:   &vtex.SKU{ID: 42, Name: "Remera"},
		price: &vtex.PriceQuote{Selling: 99.5, List: floatPtr(249.99)},
	}
	svc := newTestService(client, storeConfig(config.StrategySKU))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/p?skuId=42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SellingPrice != 9950 {
		t.Errorf("sellingPrice = %d, want 9950", result.SellingPrice)
	}
	if result.ListPrice == nil || *result.ListPrice != 24999 {
		t.Errorf("listPrice = %v, want 24999", result.ListPrice)
	}
}

func TestResolveBySKU_NameFallback(t *testing.T) {
	client := &fakeClient{
		sku:   &vtex.SKU{ID: 9},
		price: &vtex.PriceQuote{Selling: 10},
	}
	svc := newTestService(client, storeConfig(config.StrategySKU))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/p?skuId=9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ProductName != "SKU 9" {
		t.Errorf("productName = %q, want SKU 9", result.ProductName)
	}
}

func TestResolve_DomainErrorMakesNoUpstreamCalls(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client, storeConfig(config.StrategySKU))

	_, err := svc.Resolve(context.Background(), "https://www.evil.com/p?skuId=12345")

	var badInput *BadInputError
	if !errors.As(err, &badInput) {
		t.Fatalf("expected BadInputError, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no upstream calls, got %v", client.calls)
	}
}

func TestResolveBySKU_StockFailureDoesNotBlockPrice(t *testing.T) {
	client := &fakeClient{
		sku:      &vtex.SKU{ID: 12345, Name: "Zapatilla"},
		price:    &vtex.PriceQuote{Selling: 199.9},
		stockErr: &vtex.UpstreamError{Endpoint: "inventory", Status: 500, Detail: "boom"},
	}
	svc := newTestService(client, storeConfig(config.StrategySKU))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/p?skuId=12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AvailableQuantity != nil || result.InStock != nil {
		t.Errorf("stock fields should be absent, got qty=%v inStock=%v", result.AvailableQuantity, result.InStock)
	}
	if result.SellingPrice != 19990 {
		t.Errorf("sellingPrice = %d, want 19990", result.SellingPrice)
	}
}

func TestResolveBySKU_StockDisabled(t *testing.T) {
	store := storeConfig(config.StrategySKU)
	store.StockEnabled = false
	client := &fakeClient{
		sku:        &vtex.SKU{ID: 12345, Name: "Zapatilla"},
		price:      &vtex.PriceQuote{Selling: 10},
		stockQty:   3,
		stockFound: true,
	}
	svc := newTestService(client, store)

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/p?skuId=12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.called("stock") {
		t.Error("stock lookup should not run when disabled")
	}
	if result.AvailableQuantity != nil || result.InStock != nil {
		t.Error("stock fields should be absent when lookup is disabled")
	}
}

func searchProduct(linkText, itemID string, sellers []vtex.SearchSeller) vtex.SearchProduct {
	return vtex.SearchProduct{
		ProductID:   "100",
		ProductName: "Zapatilla Runner",
		LinkText:    linkText,
		Items: []vtex.SearchItem{
			{
				ItemID:  itemID,
				Images:  []vtex.SearchImage{{ImageURL: "https://img.example/" + itemID + ".jpg"}},
				Sellers: sellers,
			},
		},
	}
}

func TestResolveBySlug_Simulation(t *testing.T) {
	sellers := []vtex.SearchSeller{
		{SellerID: "9", CommertialOffer: vtex.CommertialOffer{Price: 100, IsAvailable: true}},
	}
	client := &fakeClient{
		slugHits:   []vtex.SearchProduct{searchProduct("zapatilla-runner", "321", sellers)},
		sim:        &vtex.PriceQuote{Selling: 89.5, List: floatPtr(120)},
		stockQty:   2,
		stockFound: true,
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/Zapatilla-Runner/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Slug != "zapatilla-runner" {
		t.Errorf("slug = %q", result.Slug)
	}
	if result.SKUID != 321 {
		t.Errorf("skuId = %d, want 321", result.SKUID)
	}
	if result.Seller != "9" {
		t.Errorf("seller = %q, want 9", result.Seller)
	}
	if result.ImageURL != "https://img.example/321.jpg" {
		t.Errorf("imageUrl = %q", result.ImageURL)
	}
	if result.SellingPrice != 8950 {
		t.Errorf("sellingPrice = %d, want 8950", result.SellingPrice)
	}
	if result.ListPrice == nil || *result.ListPrice != 12000 {
		t.Errorf("listPrice = %v, want 12000", result.ListPrice)
	}
	if result.Source != "simulation" {
		t.Errorf("source = %q, want simulation", result.Source)
	}
}

func TestResolveBySlug_TextSearchFallbackPrefersExactMatch(t *testing.T) {
	sellers := []vtex.SearchSeller{
		{SellerID: "1", CommertialOffer: vtex.CommertialOffer{Price: 50}},
	}
	client := &fakeClient{
		textHits: []vtex.SearchProduct{
			searchProduct("zapatilla-runner-kids", "111", sellers),
			searchProduct("zapatilla-runner", "222", sellers),
		},
		sim: &vtex.PriceQuote{Selling: 45},
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !client.called("search_text") {
		t.Fatal("expected free-text search fallback")
	}
	if result.SKUID != 222 {
		t.Errorf("skuId = %d, want exact link-text match 222", result.SKUID)
	}
}

func TestResolveBySlug_TextSearchFallbackFirstResult(t *testing.T) {
	sellers := []vtex.SearchSeller{
		{SellerID: "1", CommertialOffer: vtex.CommertialOffer{Price: 50}},
	}
	client := &fakeClient{
		textHits: []vtex.SearchProduct{
			searchProduct("zapatilla-trail", "111", sellers),
			searchProduct("zapatilla-urbana", "222", sellers),
		},
		sim: &vtex.PriceQuote{Selling: 45},
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SKUID != 111 {
		t.Errorf("skuId = %d, want first result 111", result.SKUID)
	}
}

func TestResolveBySlug_NotFound(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	_, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")

	var notFound *vtex.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveBySlug_NoItems(t *testing.T) {
	client := &fakeClient{
		slugHits: []vtex.SearchProduct{{ProductID: "100", ProductName: "Sin items", LinkText: "sin-items"}},
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	_, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/sin-items/p")

	var upstream *vtex.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestResolveBySlug_SimulationRejectionFallsBackToOffer(t *testing.T) {
	sellers := []vtex.SearchSeller{
		{SellerID: "9", CommertialOffer: vtex.CommertialOffer{Price: 100, ListPrice: floatPtr(130), IsAvailable: true}},
	}
	client := &fakeClient{
		slugHits: []vtex.SearchProduct{searchProduct("zapatilla-runner", "321", sellers)},
		simErr:   &vtex.UpstreamError{Endpoint: "simulation", Status: 500, Detail: "rejected"},
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SellingPrice != 10000 {
		t.Errorf("sellingPrice = %d, want catalog offer 10000", result.SellingPrice)
	}
	if result.ListPrice == nil || *result.ListPrice != 13000 {
		t.Errorf("listPrice = %v, want 13000", result.ListPrice)
	}
	if result.Source != "catalog_offer" {
		t.Errorf("source = %q, want catalog_offer", result.Source)
	}
}

func TestResolveBySlug_FallbackDisabledPropagates(t *testing.T) {
	store := storeConfig(config.StrategySlug)
	store.SimulationFallback = false
	sellers := []vtex.SearchSeller{
		{SellerID: "9", CommertialOffer: vtex.CommertialOffer{Price: 100}},
	}
	client := &fakeClient{
		slugHits: []vtex.SearchProduct{searchProduct("zapatilla-runner", "321", sellers)},
		simErr:   &vtex.UpstreamError{Endpoint: "simulation", Status: 500, Detail: "rejected"},
	}
	svc := newTestService(client, store)

	_, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")

	var upstream *vtex.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestResolveBySlug_OtherErrorNeverTriggersFallback(t *testing.T) {
	sellers := []vtex.SearchSeller{
		{SellerID: "9", CommertialOffer: vtex.CommertialOffer{Price: 100}},
	}
	client := &fakeClient{
		slugHits: []vtex.SearchProduct{searchProduct("zapatilla-runner", "321", sellers)},
		simErr:   errors.New("context canceled"),
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	_, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	var upstream *vtex.UpstreamError
	if errors.As(err, &upstream) {
		t.Fatal("non-upstream error must not be reclassified")
	}
}

func TestResolveBySlug_NoSellersUsesDefault(t *testing.T) {
	client := &fakeClient{
		slugHits: []vtex.SearchProduct{searchProduct("zapatilla-runner", "321", nil)},
		sim:      &vtex.PriceQuote{Selling: 70},
	}
	svc := newTestService(client, storeConfig(config.StrategySlug))

	result, err := svc.Resolve(context.Background(), "https://www.tiendacolucci.com.ar/zapatilla-runner/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Seller != "1" {
		t.Errorf("seller = %q, want configured default 1", result.Seller)
	}
}
