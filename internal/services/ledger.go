// internal/services/ledger.go
package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/javajoker/techstore-backend/internal/models"
)

const orderNumberBase = 1000

// OrderLedger holds completed orders, most recent first. Orders are never
// updated or removed once appended.
type OrderLedger struct {
	orders []models.Order
	now    func() time.Time
}

func NewOrderLedger(now func() time.Time, seed ...models.Order) *OrderLedger {
	if now == nil {
		now = time.Now
	}
	return &OrderLedger{
		orders: append([]models.Order(nil), seed...),
		now:    now,
	}
}

// Append records the snapshot as a new Processing order at the front.
// The id is derived from the ledger length before the append.
func (l *OrderLedger) Append(snapshot CartSnapshot) models.Order {
	order := models.Order{
		ID:     orderNumberBase + len(l.orders) + 1,
		Date:   l.now().Format(models.DateLayout),
		Items:  snapshot.Items(),
		Total:  snapshot.Total,
		Status: models.OrderStatusProcessing,
	}
	l.orders = append([]models.Order{order}, l.orders...)
	return order
}

func (l *OrderLedger) List() []models.Order {
	return append([]models.Order(nil), l.orders...)
}

func (l *OrderLedger) Get(id int) (models.Order, bool) {
	for _, o := range l.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

func (l *OrderLedger) Len() int {
	return len(l.orders)
}

// SeedOrders are the demo orders every new storefront starts with, in the
// order the storefront has always listed them.
func SeedOrders() []models.Order {
	return []models.Order{
		{ID: 1001, Date: "2025-11-10", Items: 2, Total: decimal.RequireFromString("5499.00"), Status: models.OrderStatusDelivered},
		{ID: 1002, Date: "2025-11-12", Items: 1, Total: decimal.RequireFromString("2799.00"), Status: models.OrderStatusInTransit},
		{ID: 1003, Date: "2025-11-13", Items: 3, Total: decimal.RequireFromString("8997.00"), Status: models.OrderStatusProcessing},
	}
}
