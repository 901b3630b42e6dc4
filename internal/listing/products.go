// Package listing filters, sorts and pages the collections shown by the
// product and user list commands.
package listing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storefront-dev/storefront/internal/cli/client"
)

// DefaultPageSize is used when ProductQuery.PageSize is not positive
const DefaultPageSize = 20

// ProductSort selects the order of a product page
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortName      ProductSort = "name"
)

// ProductSorts lists the accepted sort keys
var ProductSorts = []ProductSort{SortNewest, SortPriceAsc, SortPriceDesc, SortName}

// ParseProductSort accepts a sort key; empty means newest
func ParseProductSort(s string) (ProductSort, error) {
	if s == "" {
		return SortNewest, nil
	}
	for _, candidate := range ProductSorts {
		if ProductSort(strings.ToLower(s)) == candidate {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q (expected one of newest, price-asc, price-desc, name)", s)
}

// ProductQuery describes the filters of a product list view. Nil price bounds
// are open.
type ProductQuery struct {
	Search   string
	Category string
	Status   string
	MinPrice *float64
	MaxPrice *float64
	Sort     ProductSort
	Page     int
	PageSize int
}

// ProductPage is one page of a filtered product list
type ProductPage struct {
	Items      []client.Product
	Total      int
	Page       int
	TotalPages int
}

// FilterProducts applies q to products without modifying the input slice
func FilterProducts(products []client.Product, q ProductQuery) ProductPage {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]client.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if q.Status != "" && !strings.EqualFold(productStatus(p), q.Status) {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		if search != "" {
			hay := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
			if !strings.Contains(hay, search) {
				continue
			}
		}
		matched = append(matched, p)
	}

	sortProducts(matched, q.Sort)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := (len(matched) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return ProductPage{
		Items:      matched[start:end],
		Total:      len(matched),
		Page:       page,
		TotalPages: totalPages,
	}
}

// Categories returns the distinct categories present in products, sorted
func Categories(products []client.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

func productStatus(p client.Product) string {
	if p.Status == "" {
		return "ACTIVE"
	}
	return p.Status
}

func sortProducts(products []client.Product, by ProductSort) {
	var less func(a, b client.Product) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b client.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b client.Product) bool { return a.Price > b.Price }
	case SortName:
		less = func(a, b client.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b client.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}
