package models

// ResolveRequest is the body of POST /resolve: the raw URL read from a QR code.
type ResolveRequest struct {
	URL string `json:"url"`
}

// ResolveResult is the normalized price/stock record returned to the kiosk.
// All monetary amounts are integers in minor currency units (cents).
//
// ListPrice, AvailableQuantity and InStock are pointers: upstream may not
// provide them, and "unknown" must stay distinguishable from zero.
type ResolveResult struct {
	SKUID             int64  `json:"skuId,omitempty"`
	Slug              string `json:"slug,omitempty"`
	ProductName       string `json:"productName"`
	Seller            string `json:"seller,omitempty"`
	ImageURL          string `json:"imageUrl,omitempty"`
	SellingPrice      int64  `json:"sellingPrice"`
	ListPrice         *int64 `json:"listPrice"`
	AvailableQuantity *int   `json:"availableQuantity"`
	InStock           *bool  `json:"inStock"`
	Currency          string `json:"currency"`
	Source            string `json:"source"`
}

// Source tags describing which pricing path produced a result.
const (
	SourcePricingAPI   = "pricing_api"   // direct pricing endpoint
	SourceSimulation   = "simulation"    // checkout order simulation
	SourceCatalogOffer = "catalog_offer" // catalog offer price, simulation rejected
)
