package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javajoker/techstore-backend/internal/models"
)

var testMultiplier = decimal.RequireFromString("5.5")

// fakeSource serves fixed products per category. A category listed in wait
// blocks until the channel is closed.
type fakeSource struct {
	mu       sync.Mutex
	products map[string][]models.Product
	errs     map[string]error
	wait     map[string]chan struct{}
	calls    int
}

func (f *fakeSource) FetchCategory(ctx context.Context, category string) ([]models.Product, error) {
	f.mu.Lock()
	f.calls++
	gate := f.wait[category]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := f.errs[category]; err != nil {
		return nil, err
	}
	return f.products[category], nil
}

func scenarioProducts() map[string][]models.Product {
	return map[string][]models.Product{
		"laptops": {
			{ID: 1, Title: "A", Description: "Thin laptop", Price: 100, Rating: 4.5},
		},
		"smartphones": {
			{ID: 2, Title: "B", Description: "Small phone", Price: 50, Rating: 4.1},
		},
	}
}

func loadedCatalog() *CatalogService {
	catalog := NewCatalogService(&fakeSource{products: scenarioProducts()}, []string{"laptops", "smartphones"})
	catalog.stockFn = func() int { return 10 }
	if err := catalog.Load(context.Background()); err != nil {
		panic(err)
	}
	return catalog
}

type fakeTask struct {
	delay   time.Duration
	task    func()
	stopped bool
	ran     bool
}

// fakeScheduler only runs tasks when RunAll is called.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (f *fakeScheduler) Schedule(delay time.Duration, task func()) CancelFunc {
	t := &fakeTask{delay: delay, task: task}
	f.mu.Lock()
	f.tasks = append(f.tasks, t)
	f.mu.Unlock()

	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if t.ran || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

func (f *fakeScheduler) RunAll() {
	f.mu.Lock()
	var due []*fakeTask
	for _, t := range f.tasks {
		if !t.ran && !t.stopped {
			t.ran = true
			due = append(due, t)
		}
	}
	f.mu.Unlock()

	for _, t := range due {
		t.task()
	}
}

func (f *fakeScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tasks {
		if !t.ran && !t.stopped {
			n++
		}
	}
	return n
}

type fakePayments struct {
	err       error
	payloads  []string
	discarded int
}

func (f *fakePayments) GenerateArtifact(_ context.Context, payload string) (*PaymentArtifact, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return &PaymentArtifact{Payload: payload, ContentType: "image/png", Image: []byte("png")}, nil
}

func (f *fakePayments) DiscardArtifact(_ context.Context, _ *PaymentArtifact) {
	f.discarded++
}

type recordingNotifier struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingNotifier) Notify(_ uuid.UUID, key string, _ ...interface{}) {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
}

type recordingOrders struct {
	mu      sync.Mutex
	records []*models.OrderRecord
	err     error
}

func (r *recordingOrders) Save(_ context.Context, record *models.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

var errBoom = errors.New("boom")

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
}
