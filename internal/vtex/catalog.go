package vtex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	endpointSKU    = "catalog_sku"
	endpointSearch = "catalog_search"
)

// SKUByID fetches the private catalog record for a SKU.
// A 404 from the platform means the SKU does not exist.
func (c *Client) SKUByID(ctx context.Context, skuID int64) (*SKU, error) {
	path := fmt.Sprintf("/api/catalog_system/pvt/sku/stockkeepingunitbyid/%d", skuID)

	resp, err := c.do(ctx, endpointSKU, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Reason: "SKU does not exist"}
	}
	if !isSuccess(resp.StatusCode) {
		return nil, upstreamStatusError(endpointSKU, resp)
	}

	var sku SKU
	if err := decodeJSON(endpointSKU, resp, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

// SearchBySlug queries the public catalog search for the product whose page
// link text matches the slug. An empty slice means no match; the caller
// decides whether to fall back to free-text search.
func (c *Client) SearchBySlug(ctx context.Context, slug string) ([]SearchProduct, error) {
	path := fmt.Sprintf("/api/catalog_system/pub/products/search/%s/p", url.PathEscape(slug))
	return c.search(ctx, path)
}

// SearchByText queries the public free-text catalog search.
func (c *Client) SearchByText(ctx context.Context, query string) ([]SearchProduct, error) {
	path := "/api/catalog_system/pub/products/search?ft=" + url.QueryEscape(query)
	return c.search(ctx, path)
}

func (c *Client) search(ctx context.Context, path string) ([]SearchProduct, error) {
	// Public endpoint, no credentials.
	resp, err := c.do(ctx, endpointSearch, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	// The search API answers 206 when paginating; any 2xx is usable.
	if !isSuccess(resp.StatusCode) {
		return nil, upstreamStatusError(endpointSearch, resp)
	}

	var products []SearchProduct
	if err := decodeJSON(endpointSearch, resp, &products); err != nil {
		return nil, err
	}
	return products, nil
}
