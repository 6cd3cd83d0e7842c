package vtex

import "encoding/json"

// SKU is the private catalog record for a stock keeping unit.
type SKU struct {
	ID           int64  `json:"Id"`
	ProductID    int64  `json:"ProductId"`
	Name         string `json:"Name"`
	NameComplete string `json:"NameComplete"`
	IsActive     bool   `json:"IsActive"`
	ImageURL     string `json:"ImageUrl"`
}

// DisplayName returns the most descriptive name the catalog provides.
func (s *SKU) DisplayName() string {
	if s.NameComplete != "" {
		return s.NameComplete
	}
	return s.Name
}

// SearchProduct is one entry of the public catalog search response.
type SearchProduct struct {
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	LinkText    string       `json:"linkText"`
	Items       []SearchItem `json:"items"`
}

type SearchItem struct {
	ItemID  string         `json:"itemId"`
	Name    string         `json:"name"`
	Images  []SearchImage  `json:"images"`
	Sellers []SearchSeller `json:"sellers"`
}

type SearchImage struct {
	ImageURL string `json:"imageUrl"`
}

type SearchSeller struct {
	SellerID string `json:"sellerId"`
	// The platform spells it this way on the wire.
	CommertialOffer CommertialOffer `json:"commertialOffer"`
}

type CommertialOffer struct {
	Price       float64  `json:"Price"`
	ListPrice   *float64 `json:"ListPrice"`
	IsAvailable bool     `json:"IsAvailable"`
}

// PriceQuote is the normalized outcome of either pricing path.
// Amounts are major currency units as delivered by the platform;
// List is nil when no list price is configured.
type PriceQuote struct {
	Selling float64
	List    *float64
}

// priceResponse is the direct pricing API payload. Stores differ in field
// casing; encoding/json matches struct fields case-insensitively, which
// covers basePrice/BasePrice and friends with a single set of tags.
type priceResponse struct {
	ItemID      string       `json:"itemId"`
	BasePrice   *float64     `json:"basePrice"`
	ListPrice   *float64     `json:"listPrice"`
	FixedPrices []fixedPrice `json:"fixedPrices"`
}

type fixedPrice struct {
	TradePolicyID tradePolicy `json:"tradePolicyId"`
	Value         *float64    `json:"value"`
	ListPrice     *float64    `json:"listPrice"`
}

// tradePolicy tolerates both string and numeric wire encodings.
type tradePolicy string

func (t *tradePolicy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = tradePolicy(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = tradePolicy(n.String())
	return nil
}

// simulationRequest is the checkout order-simulation body: a single item at
// quantity one, which is all a price check needs.
type simulationRequest struct {
	Items []simulationItem `json:"items"`
}

type simulationItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Seller   string `json:"seller"`
}

type simulationResponse struct {
	Items []simulationResponseItem `json:"items"`
}

type simulationResponseItem struct {
	ID           string   `json:"id"`
	Price        *float64 `json:"price"`
	ListPrice    *float64 `json:"listPrice"`
	SellingPrice *float64 `json:"sellingPrice"`
}

// inventoryResponse is the logistics balance payload: one entry per warehouse.
type inventoryResponse struct {
	Balance []warehouseBalance `json:"balance"`
}

type warehouseBalance struct {
	WarehouseID       string `json:"warehouseId"`
	TotalQuantity     *int   `json:"totalQuantity"`
	AvailableQuantity *int   `json:"availableQuantity"`
}
