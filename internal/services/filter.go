// internal/services/filter.go
package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/javajoker/techstore-backend/internal/models"
)

// CatalogStats summarises a displayed set. It is always derived, never stored.
type CatalogStats struct {
	Count        int             `json:"count"`
	TotalStock   int             `json:"total_stock"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// ApplyFilter keeps the products matching both the category and the query.
// CategoryAll matches every product; any other value must equal the product's
// category exactly, so unknown categories yield an empty result. The query is
// a case-insensitive substring of title or description; "" matches everything.
// Source order is preserved and all is never modified.
func ApplyFilter(all []models.Product, category, query string) []models.Product {
	query = strings.ToLower(query)

	filtered := make([]models.Product, 0, len(all))
	for _, p := range all {
		if category != models.CategoryAll && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// DisplayPrice converts a source price into the display currency.
func DisplayPrice(price float64, multiplier decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(multiplier)
}

// ComputeStats counts the set, sums its stock and averages its display price.
// The average of an empty set is zero.
func ComputeStats(products []models.Product, multiplier decimal.Decimal) CatalogStats {
	stats := CatalogStats{Count: len(products), AveragePrice: decimal.Zero}
	if len(products) == 0 {
		return stats
	}

	sum := decimal.Zero
	for _, p := range products {
		stats.TotalStock += p.Stock
		sum = sum.Add(DisplayPrice(p.Price, multiplier))
	}
	stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(products))))
	return stats
}
