package resolver

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Query parameter names carrying a SKU id, in preference order. The storefront
// emits several casings depending on which template printed the QR code.
var skuParamNames = []string{
	"skuId",
	"skuid",
	"itemId",
	"item_id",
	"ITEM_ID",
	"SkuId",
	"ItemId",
}

// skuPathPattern finds a numeric id adjacent to a recognized keyword anywhere
// in path+query, e.g. /sku/12345 or item-12345.
var skuPathPattern = regexp.MustCompile(`(?i)(?:sku|skuid|item|itemid|item_id)[=/\-](\d+)`)

// slugDisallowed matches everything a product slug may not contain.
var slugDisallowed = regexp.MustCompile(`[^a-z0-9\-_.]+`)

// ValidateDomain checks that the URL belongs to the configured store: the
// host must equal the store domain or be a subdomain of it.
func ValidateDomain(rawURL, storeDomain string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &BadInputError{Reason: "invalid URL"}
	}

	host := strings.ToLower(u.Host)
	if host == "" {
		return &BadInputError{Reason: "URL has no host"}
	}

	domain := strings.ToLower(storeDomain)
	if host == domain || strings.HasSuffix(host, "."+domain) {
		return nil
	}

	return &BadInputError{Reason: "domain not allowed"}
}

// ExtractSKUID pulls a numeric SKU id out of the URL: recognized query
// parameters first, then the keyword pattern over path and query.
func ExtractSKUID(rawURL string) (int64, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, &BadInputError{Reason: "invalid URL"}
	}

	qs := u.Query()
	for _, name := range skuParamNames {
		values, ok := qs[name]
		if !ok || len(values) == 0 {
			continue
		}
		if v := values[0]; isDigits(v) {
			id, err := strconv.ParseInt(v, 10, 64)
			if err == nil {
				return id, nil
			}
		}
	}

	if m := skuPathPattern.FindStringSubmatch(u.Path + "?" + u.RawQuery); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			return id, nil
		}
	}

	return 0, &BadInputError{Reason: "no SKU identifier found in URL"}
}

// ExtractSlug derives a normalized product slug from the first path segment:
// lowercased, restricted to [a-z0-9-_.].
func ExtractSlug(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &BadInputError{Reason: "invalid URL"}
	}

	segment := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}

	slug := slugDisallowed.ReplaceAllString(strings.ToLower(segment), "")
	if slug == "" {
		return "", &BadInputError{Reason: "no product slug found in URL"}
	}

	return slug, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
