package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/techstore-backend/internal/models"
)

// phonesFirstSource answers smartphones before laptops.
type phonesFirstSource struct {
	phonesDone chan struct{}
}

func (s *phonesFirstSource) FetchCategory(ctx context.Context, category string) ([]models.Product, error) {
	if category == "smartphones" {
		defer close(s.phonesDone)
		return scenarioProducts()["smartphones"], nil
	}
	select {
	case <-s.phonesDone:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return scenarioProducts()["laptops"], nil
}

type flakySource struct {
	mu       sync.Mutex
	failures int
	attempts int
}

func (s *flakySource) FetchCategory(_ context.Context, category string) ([]models.Product, error) {
	if category == "laptops" {
		s.mu.Lock()
		s.attempts++
		attempt := s.attempts
		s.mu.Unlock()
		if attempt <= s.failures {
			return nil, errBoom
		}
	}
	return scenarioProducts()[category], nil
}

func TestCatalogLoadKeepsCategoryOrder(t *testing.T) {
	catalog := NewCatalogService(&phonesFirstSource{phonesDone: make(chan struct{})}, []string{"laptops", "smartphones"})
	catalog.stockFn = func() int { return 7 }

	require.NoError(t, catalog.Load(context.Background()))

	products := catalog.Products()
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "laptops", products[0].Category)
	assert.Equal(t, 2, products[1].ID)
	assert.Equal(t, "smartphones", products[1].Category)
	assert.Equal(t, 7, products[1].Stock)
	assert.True(t, catalog.Loaded())
}

func TestCatalogLoadIsAllOrNothing(t *testing.T) {
	source := &fakeSource{
		products: scenarioProducts(),
		errs:     map[string]error{"smartphones": errBoom},
	}
	catalog := NewCatalogService(source, []string{"laptops", "smartphones"})

	err := catalog.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCatalogUnavailable))
	assert.True(t, errors.Is(err, errBoom))
	assert.Empty(t, catalog.Products())
	assert.False(t, catalog.Loaded())

	// a later reload succeeds once the source recovers
	source.errs = nil
	require.NoError(t, catalog.Load(context.Background()))
	assert.Len(t, catalog.Products(), 2)
}

func TestCatalogLoadIsSetOnce(t *testing.T) {
	source := &fakeSource{products: scenarioProducts()}
	catalog := NewCatalogService(source, []string{"laptops", "smartphones"})

	require.NoError(t, catalog.Load(context.Background()))
	first := catalog.Products()

	source.products = map[string][]models.Product{"laptops": {{ID: 9}}}
	require.NoError(t, catalog.Load(context.Background()))

	assert.Equal(t, first, catalog.Products())
	assert.Equal(t, 2, source.calls)
}

func TestCatalogLoadWithRetry(t *testing.T) {
	source := &flakySource{failures: 2}
	catalog := NewCatalogService(source, []string{"laptops", "smartphones"})

	require.NoError(t, catalog.LoadWithRetry(context.Background(), 3, time.Millisecond))
	assert.Equal(t, 3, source.attempts)
	assert.Len(t, catalog.Products(), 2)
}

func TestCatalogLoadWithRetryGivesUp(t *testing.T) {
	source := &flakySource{failures: 10}
	catalog := NewCatalogService(source, []string{"laptops", "smartphones"})

	err := catalog.LoadWithRetry(context.Background(), 2, time.Millisecond)

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Equal(t, 2, source.attempts)
	assert.False(t, catalog.Loaded())
}

func TestCatalogRandomStockRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		stock := randomStock()
		require.GreaterOrEqual(t, stock, 5)
		require.LessOrEqual(t, stock, 54)
	}
}

func TestCatalogFind(t *testing.T) {
	catalog := loadedCatalog()

	p, err := catalog.Find(2)
	require.NoError(t, err)
	assert.Equal(t, "B", p.Title)

	_, err = catalog.Find(404)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogRatingHighlights(t *testing.T) {
	source := &fakeSource{products: map[string][]models.Product{
		"laptops": {
			{ID: 1, Title: "Apple MacBook Pro 14 Inch Space Grey", Rating: 4.5},
			{ID: 2, Title: "Short", Rating: 3},
		},
	}}
	catalog := NewCatalogService(source, []string{"laptops"})
	require.NoError(t, catalog.Load(context.Background()))

	highlights := catalog.RatingHighlights(5)

	require.Len(t, highlights, 2)
	assert.Equal(t, "Apple MacBook P...", highlights[0].Label)
	assert.Equal(t, 4.5, highlights[0].Rating)
	assert.Equal(t, "Short...", highlights[1].Label)
}
