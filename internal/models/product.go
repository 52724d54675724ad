// internal/models/product.go
package models

// CategoryAll is the filter sentinel matching every category.
const CategoryAll = "all"

// Product is immutable once the catalog has been loaded.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

func (p Product) StockLevel() StockLevel {
	switch {
	case p.Stock < 10:
		return StockLevelLow
	case p.Stock < 30:
		return StockLevelMedium
	default:
		return StockLevelHigh
	}
}
