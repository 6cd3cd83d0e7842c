package vtex

import (
	"context"
	"fmt"
	"net/http"
)

const endpointInventory = "inventory"

// StockBySKU sums the per-warehouse inventory balance for a SKU, preferring
// each warehouse's total quantity over its available quantity.
//
// found is false when the account lacks logistics permissions (403), the
// SKU has no balance record (404), or no warehouse reports a usable
// quantity. Callers treat !found and errors alike as "stock unknown".
func (c *Client) StockBySKU(ctx context.Context, skuID int64) (quantity int, found bool, err error) {
	path := fmt.Sprintf("/api/logistics/pvt/inventory/skus/%d", skuID)

	resp, err := c.do(ctx, endpointInventory, http.MethodGet, path, nil, true)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if !isSuccess(resp.StatusCode) {
		return 0, false, upstreamStatusError(endpointInventory, resp)
	}

	var inv inventoryResponse
	if err := decodeJSON(endpointInventory, resp, &inv); err != nil {
		return 0, false, err
	}

	total := 0
	for _, b := range inv.Balance {
		switch {
		case b.TotalQuantity != nil:
			total += *b.TotalQuantity
			found = true
		case b.AvailableQuantity != nil:
			total += *b.AvailableQuantity
			found = true
		}
	}

	return total, found, nil
}
