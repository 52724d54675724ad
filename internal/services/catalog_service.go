// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/techstore-backend/internal/models"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrProductNotFound    = errors.New("product not found")
)

// CatalogService is the shared catalog store. It is populated at most once;
// after a successful load the product set never changes.
type CatalogService struct {
	source     CatalogSource
	categories []string
	stockFn    func() int

	mu       sync.RWMutex
	products []models.Product
	loaded   bool
}

type RatingHighlight struct {
	ProductID int     `json:"product_id"`
	Label     string  `json:"label"`
	Rating    float64 `json:"rating"`
}

func NewCatalogService(source CatalogSource, categories []string) *CatalogService {
	return &CatalogService{
		source:     source,
		categories: append([]string(nil), categories...),
		stockFn:    randomStock,
	}
}

// randomStock yields a stock quantity in [5, 54].
func randomStock() int {
	return rand.Intn(50) + 5
}

// Load fetches every category concurrently and publishes the joined result
// only if all fetches succeed. Products keep category order, not completion order.
func (s *CatalogService) Load(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}

	results := make([][]models.Product, len(s.categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range s.categories {
		i, category := i, category
		g.Go(func() error {
			products, err := s.source.FetchCategory(gctx, category)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", category, err)
			}
			results[i] = products
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	var all []models.Product
	for i, products := range results {
		for _, p := range products {
			p.Category = s.categories[i]
			p.Stock = s.stockFn()
			all = append(all, p)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	s.products = all
	s.loaded = true

	logrus.WithFields(logrus.Fields{
		"products":   len(all),
		"categories": s.categories,
	}).Info("Catalog loaded")

	return nil
}

// LoadWithRetry calls Load up to attempts times, waiting delay between tries.
func (s *CatalogService) LoadWithRetry(ctx context.Context, attempts int, delay time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = s.Load(ctx); err == nil {
			return nil
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt":  attempt,
			"attempts": attempts,
		}).Warn("Catalog load failed")

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrCatalogUnavailable, ctx.Err())
		case <-time.After(delay):
		}
	}
	return err
}

func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Products returns the full catalog. Callers must treat the slice as read-only.
func (s *CatalogService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

func (s *CatalogService) Find(id int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
}

func (s *CatalogService) Categories() []string {
	return append([]string(nil), s.categories...)
}

// RatingHighlights returns the ratings of the first limit catalog products,
// labelled with a shortened title for charting.
func (s *CatalogService) RatingHighlights(limit int) []RatingHighlight {
	products := s.Products()
	if limit > len(products) {
		limit = len(products)
	}

	highlights := make([]RatingHighlight, 0, limit)
	for _, p := range products[:limit] {
		highlights = append(highlights, RatingHighlight{
			ProductID: p.ID,
			Label:     truncate(p.Title, 15) + "...",
			Rating:    p.Rating,
		})
	}
	return highlights
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
