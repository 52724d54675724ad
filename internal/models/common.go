// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Color is the badge color the storefront uses for the status.
func (s OrderStatus) Color() string {
	switch s {
	case OrderStatusDelivered:
		return "#10b981"
	case OrderStatusInTransit:
		return "#3b82f6"
	default:
		return "#fbbf24"
	}
}

type CheckoutState string

const (
	CheckoutStateIdle            CheckoutState = "idle"
	CheckoutStateAwaitingPayment CheckoutState = "awaiting_payment"
	CheckoutStateSettled         CheckoutState = "settled"
	CheckoutStateCancelled       CheckoutState = "cancelled"
	CheckoutStateFailed          CheckoutState = "failed"
)

type StockLevel string

const (
	StockLevelLow    StockLevel = "low"
	StockLevelMedium StockLevel = "medium"
	StockLevelHigh   StockLevel = "high"
)
