// internal/services/order_repository.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/techstore-backend/internal/models"
)

// OrderRepository archives settled orders outside the in-memory ledger.
type OrderRepository interface {
	Save(ctx context.Context, record *models.OrderRecord) error
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Save(ctx context.Context, record *models.OrderRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to archive order %d: %w", record.OrderNumber, err)
	}
	return nil
}
