// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

const qrCodeSize = 200

// PaymentArtifactGenerator turns an opaque payment payload into something a
// customer can scan.
type PaymentArtifactGenerator interface {
	GenerateArtifact(ctx context.Context, payload string) (*PaymentArtifact, error)
	DiscardArtifact(ctx context.Context, artifact *PaymentArtifact)
}

type PaymentArtifact struct {
	Payload     string `json:"payload"`
	ContentType string `json:"content_type"`
	URL         string `json:"url,omitempty"`
	Key         string `json:"-"`
	Image       []byte `json:"-"`
}

// PaymentService renders payment payloads as PNG QR codes and, when storage is
// enabled, publishes them.
type PaymentService struct {
	storage *StorageService
	size    int
}

func NewPaymentService(storage *StorageService) *PaymentService {
	return &PaymentService{
		storage: storage,
		size:    qrCodeSize,
	}
}

// PaymentPayload builds the PIX-style payload: PIX:<total>:<merchant>:<unix ms>.
func PaymentPayload(total decimal.Decimal, merchant string, at time.Time) string {
	return fmt.Sprintf("PIX:%s:%s:%d", total.StringFixed(2), merchant, at.UnixMilli())
}

func (s *PaymentService) GenerateArtifact(ctx context.Context, payload string) (*PaymentArtifact, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	artifact := &PaymentArtifact{
		Payload:     payload,
		ContentType: "image/png",
		Image:       png,
	}

	if s.storage.Enabled() {
		key := fmt.Sprintf("payments/%s.png", uuid.NewString())
		result, err := s.storage.Upload(ctx, key, png, artifact.ContentType)
		if err != nil {
			// the in-memory image is still served
			logrus.WithError(err).Warn("Failed to publish payment artifact")
		} else {
			artifact.URL = result.URL
			artifact.Key = result.Key
		}
	}

	return artifact, nil
}

func (s *PaymentService) DiscardArtifact(ctx context.Context, artifact *PaymentArtifact) {
	if artifact == nil || artifact.Key == "" {
		return
	}
	if err := s.storage.Delete(ctx, artifact.Key); err != nil {
		logrus.WithError(err).WithField("key", artifact.Key).Warn("Failed to delete payment artifact")
	}
}
