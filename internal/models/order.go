// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format orders carry.
const DateLayout = "2006-01-02"

type Order struct {
	ID     int             `json:"id"`
	Date   string          `json:"date"`
	Items  int             `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Status OrderStatus     `json:"status"`
}

// OrderRecord is the archived copy of a settled order.
type OrderRecord struct {
	BaseModel
	SessionID   uuid.UUID       `json:"session_id" gorm:"type:uuid;not null;index"`
	OrderNumber int             `json:"order_number" gorm:"not null;index"`
	OrderDate   string          `json:"order_date" gorm:"size:10;not null"`
	Items       int             `json:"items" gorm:"not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);default:'processing';index"`
	ProductIDs  pq.Int64Array   `json:"product_ids" gorm:"type:bigint[]"`
	Payload     string          `json:"payload" gorm:"size:255"`
}
