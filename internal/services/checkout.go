// internal/services/checkout.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/models"
)

// Checkout moves idle -> awaiting_payment -> settled. A pending checkout can
// also be cancelled, and fails when no payment artifact can be produced.
type Checkout struct {
	ID        uuid.UUID            `json:"id"`
	State     models.CheckoutState `json:"state"`
	Items     int                  `json:"items"`
	Total     decimal.Decimal      `json:"total"`
	Payload   string               `json:"payload,omitempty"`
	StartedAt time.Time            `json:"started_at"`
	SettleAt  time.Time            `json:"settle_at"`
	OrderID   int                  `json:"order_id,omitempty"`
	Failure   string               `json:"failure,omitempty"`
	Artifact  *PaymentArtifact     `json:"artifact,omitempty"`

	snapshot CartSnapshot
	cancel   CancelFunc
}

func (c *Checkout) clone() *Checkout {
	cp := *c
	cp.snapshot = CartSnapshot{}
	cp.cancel = nil
	return &cp
}

// startCheckout is ignored for an empty cart. A checkout already awaiting
// payment is returned as is instead of starting a second one.
func (s *Storefront) startCheckout(ctx context.Context, _ Command) (Result, error) {
	if s.cart.Len() == 0 {
		return Result{}, nil
	}
	if s.cartLocked() {
		return Result{CartCount: s.cart.Len(), Checkout: s.checkout.clone()}, nil
	}

	now := s.deps.Now()
	snapshot := s.cart.Snapshot()
	checkout := &Checkout{
		ID:        uuid.New(),
		State:     models.CheckoutStateIdle,
		Items:     snapshot.Items(),
		Total:     snapshot.Total,
		Payload:   PaymentPayload(snapshot.Total, s.deps.Settings.MerchantName, now),
		StartedAt: now,
		snapshot:  snapshot,
	}
	s.checkout = checkout

	artifact, err := s.deps.Payments.GenerateArtifact(ctx, checkout.Payload)
	if err != nil {
		checkout.State = models.CheckoutStateFailed
		checkout.Failure = err.Error()
		logrus.WithError(err).WithField("checkout_id", checkout.ID).Error("Checkout failed")
		return Result{CartCount: s.cart.Len(), Checkout: checkout.clone()}, fmt.Errorf("%w: %w", ErrPaymentArtifact, err)
	}

	checkout.Artifact = artifact
	checkout.State = models.CheckoutStateAwaitingPayment
	checkout.SettleAt = now.Add(s.deps.Settings.SettlementDelay)

	id := checkout.ID
	checkout.cancel = s.deps.Scheduler.Schedule(s.deps.Settings.SettlementDelay, func() {
		s.settle(id)
	})

	logrus.WithFields(logrus.Fields{
		"session_id":  s.ID,
		"checkout_id": checkout.ID,
		"items":       checkout.Items,
		"total":       checkout.Total.StringFixed(2),
	}).Info("Checkout awaiting payment")

	return Result{Changed: true, CartCount: s.cart.Len(), Checkout: checkout.clone()}, nil
}

func (s *Storefront) cancelCheckout(ctx context.Context, _ Command) (Result, error) {
	if !s.cartLocked() {
		return Result{CartCount: s.cart.Len()}, nil
	}

	s.abandonCheckout(ctx)
	s.notify(i18n.KeyCheckoutCancelled)
	return Result{Changed: true, CartCount: s.cart.Len(), Checkout: s.checkout.clone()}, nil
}

// abandonCheckout requires mu and a checkout awaiting payment.
func (s *Storefront) abandonCheckout(ctx context.Context) {
	checkout := s.checkout
	if checkout.cancel != nil {
		checkout.cancel()
		checkout.cancel = nil
	}
	checkout.State = models.CheckoutStateCancelled
	s.deps.Payments.DiscardArtifact(ctx, checkout.Artifact)

	logrus.WithFields(logrus.Fields{
		"session_id":  s.ID,
		"checkout_id": checkout.ID,
	}).Info("Checkout cancelled")
}

// settle commits the captured snapshot as an order and empties the cart. It
// does nothing unless checkout id is still awaiting payment.
func (s *Storefront) settle(id uuid.UUID) {
	s.mu.Lock()

	checkout := s.checkout
	if checkout == nil || checkout.ID != id || checkout.State != models.CheckoutStateAwaitingPayment {
		s.mu.Unlock()
		return
	}

	order := s.ledger.Append(checkout.snapshot)
	checkout.State = models.CheckoutStateSettled
	checkout.OrderID = order.ID
	checkout.cancel = nil
	s.cart.Clear()
	s.notify(i18n.KeyOrderPlaced)

	record := &models.OrderRecord{
		SessionID:   s.ID,
		OrderNumber: order.ID,
		OrderDate:   order.Date,
		Items:       order.Items,
		Total:       order.Total,
		Status:      order.Status,
		ProductIDs:  checkout.snapshot.ProductIDs(),
		Payload:     checkout.Payload,
	}
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id": s.ID,
		"order_id":   order.ID,
		"items":      order.Items,
		"total":      order.Total.StringFixed(2),
	}).Info("Order placed")

	if s.deps.Orders != nil {
		if err := s.deps.Orders.Save(context.Background(), record); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to archive order")
		}
	}
}
