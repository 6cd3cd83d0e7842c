package vtex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	endpointPricing    = "pricing"
	endpointSimulation = "simulation"
)

// PriceBySKU reads the direct pricing record for a SKU and selects the
// price applicable to the given sales channel: the fixed price whose trade
// policy matches the channel when one exists, else the base price.
func (c *Client) PriceBySKU(ctx context.Context, skuID int64, salesChannel string) (*PriceQuote, error) {
	path := fmt.Sprintf("/api/pricing/prices/%d", skuID)

	resp, err := c.do(ctx, endpointPricing, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Reason: "SKU has no price configured"}
	}
	if !isSuccess(resp.StatusCode) {
		return nil, upstreamStatusError(endpointPricing, resp)
	}

	var pr priceResponse
	if err := decodeJSON(endpointPricing, resp, &pr); err != nil {
		return nil, err
	}

	var fixed *fixedPrice
	for i := range pr.FixedPrices {
		if string(pr.FixedPrices[i].TradePolicyID) == salesChannel {
			fixed = &pr.FixedPrices[i]
			break
		}
	}

	selling := pr.BasePrice
	list := pr.ListPrice
	if fixed != nil {
		if fixed.Value != nil {
			selling = fixed.Value
		}
		if fixed.ListPrice != nil {
			list = fixed.ListPrice
		}
	}

	if selling == nil {
		return nil, &NotFoundError{Reason: "SKU has no price configured"}
	}

	return &PriceQuote{Selling: *selling, List: list}, nil
}

// Simulate runs a checkout order simulation for one unit of the item and
// returns the computed price after promotions. A rejection or an unusable
// payload surfaces as *UpstreamError, which callers may treat as grounds
// for a fallback price.
func (c *Client) Simulate(ctx context.Context, itemID, seller, salesChannel string) (*PriceQuote, error) {
	body, err := json.Marshal(simulationRequest{
		Items: []simulationItem{{ID: itemID, Quantity: 1, Seller: seller}},
	})
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpointSimulation, Detail: err.Error()}
	}

	path := "/api/checkout/pub/orderForms/simulation?sc=" + url.QueryEscape(salesChannel)
	resp, err := c.do(ctx, endpointSimulation, http.MethodPost, path, bytes.NewReader(body), true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, upstreamStatusError(endpointSimulation, resp)
	}

	var sim simulationResponse
	if err := decodeJSON(endpointSimulation, resp, &sim); err != nil {
		return nil, err
	}
	if len(sim.Items) == 0 {
		return nil, &UpstreamError{
			Endpoint: endpointSimulation,
			Status:   resp.StatusCode,
			Detail:   "simulation returned no items",
		}
	}

	item := sim.Items[0]
	selling := item.SellingPrice
	if selling == nil {
		selling = item.Price
	}
	if selling == nil {
		return nil, &UpstreamError{
			Endpoint: endpointSimulation,
			Status:   resp.StatusCode,
			Detail:   "simulation returned no price",
		}
	}

	return &PriceQuote{Selling: *selling, List: item.ListPrice}, nil
}
