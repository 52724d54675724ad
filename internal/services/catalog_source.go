// internal/services/catalog_source.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/javajoker/techstore-backend/internal/config"
	"github.com/javajoker/techstore-backend/internal/models"
)

// CatalogSource returns the products of one category in source order.
type CatalogSource interface {
	FetchCategory(ctx context.Context, category string) ([]models.Product, error)
}

// DummyJSONSource reads categories from a dummyjson.com compatible API.
type DummyJSONSource struct {
	baseURL string
	client  *http.Client
}

type dummyJSONProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
}

type dummyJSONResponse struct {
	Products []dummyJSONProduct `json:"products"`
}

func NewDummyJSONSource(cfg config.CatalogConfig) *DummyJSONSource {
	return &DummyJSONSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *DummyJSONSource) FetchCategory(ctx context.Context, category string) ([]models.Product, error) {
	endpoint := fmt.Sprintf("%s/products/category/%s", s.baseURL, url.PathEscape(category))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d for %s", resp.StatusCode, category)
	}

	var body dummyJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]models.Product, 0, len(body.Products))
	for _, p := range body.Products {
		products = append(products, models.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Thumbnail:   p.Thumbnail,
			Price:       p.Price,
			Rating:      p.Rating,
			Category:    category,
		})
	}

	return products, nil
}
