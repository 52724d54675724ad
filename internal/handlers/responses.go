// internal/handlers/responses.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/models"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type ProductResponse struct {
	ID           int               `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Thumbnail    string            `json:"thumbnail"`
	Category     string            `json:"category"`
	Price        float64           `json:"price"`
	DisplayPrice string            `json:"display_price"`
	Rating       float64           `json:"rating"`
	Stock        int               `json:"stock"`
	StockLevel   models.StockLevel `json:"stock_level"`
}

type StatsResponse struct {
	Count        int    `json:"count"`
	TotalStock   int    `json:"total_stock"`
	AveragePrice string `json:"average_price"`
}

type CatalogResponse struct {
	Category       string            `json:"category"`
	Query          string            `json:"query"`
	CurrencySymbol string            `json:"currency_symbol"`
	Products       []ProductResponse `json:"products"`
	Stats          StatsResponse     `json:"stats"`
}

type CartLineResponse struct {
	Index        int    `json:"index"`
	ProductID    int    `json:"product_id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	DisplayPrice string `json:"display_price"`
}

type CartResponse struct {
	Lines          []CartLineResponse `json:"lines"`
	Count          int                `json:"count"`
	Total          string             `json:"total"`
	CurrencySymbol string             `json:"currency_symbol"`
	Locked         bool               `json:"locked"`
	Message        string             `json:"message,omitempty"`
}

type CheckoutResponse struct {
	ID        string               `json:"id"`
	State     models.CheckoutState `json:"state"`
	Items     int                  `json:"items"`
	Total     string               `json:"total"`
	Payload   string               `json:"payload,omitempty"`
	QRCodeURL string               `json:"qr_code_url,omitempty"`
	StartedAt time.Time            `json:"started_at"`
	SettleAt  *time.Time           `json:"settle_at,omitempty"`
	OrderID   int                  `json:"order_id,omitempty"`
	Failure   string               `json:"failure,omitempty"`
	Message   string               `json:"message,omitempty"`
}

type OrderResponse struct {
	ID          int                `json:"id"`
	Date        string             `json:"date"`
	Items       int                `json:"items"`
	Total       string             `json:"total"`
	Status      models.OrderStatus `json:"status"`
	StatusColor string             `json:"status_color"`
}

func formatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func toProductResponse(p models.Product, multiplier decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Thumbnail:    p.Thumbnail,
		Category:     p.Category,
		Price:        p.Price,
		DisplayPrice: formatMoney(services.DisplayPrice(p.Price, multiplier)),
		Rating:       p.Rating,
		Stock:        p.Stock,
		StockLevel:   p.StockLevel(),
	}
}

func toProductResponses(products []models.Product, multiplier decimal.Decimal) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p, multiplier))
	}
	return responses
}

func toCartResponse(view services.CartView, settings services.StorefrontSettings) CartResponse {
	lines := make([]CartLineResponse, 0, len(view.Lines))
	for i, line := range view.Lines {
		lines = append(lines, CartLineResponse{
			Index:        i,
			ProductID:    line.ProductID,
			Title:        line.Title,
			Thumbnail:    line.Thumbnail,
			DisplayPrice: formatMoney(line.DisplayPrice(settings.Multiplier)),
		})
	}

	return CartResponse{
		Lines:          lines,
		Count:          view.Count,
		Total:          formatMoney(view.Total),
		CurrencySymbol: settings.CurrencySymbol,
		Locked:         view.Locked,
	}
}

func toCheckoutResponse(checkout *services.Checkout) CheckoutResponse {
	resp := CheckoutResponse{
		ID:        checkout.ID.String(),
		State:     checkout.State,
		Items:     checkout.Items,
		Total:     formatMoney(checkout.Total),
		Payload:   checkout.Payload,
		StartedAt: checkout.StartedAt,
		OrderID:   checkout.OrderID,
		Failure:   checkout.Failure,
	}
	if !checkout.SettleAt.IsZero() {
		settleAt := checkout.SettleAt
		resp.SettleAt = &settleAt
	}
	if checkout.Artifact != nil {
		resp.QRCodeURL = checkout.Artifact.URL
	}
	return resp
}

func toOrderResponse(order models.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		Date:        order.Date,
		Items:       order.Items,
		Total:       formatMoney(order.Total),
		Status:      order.Status,
		StatusColor: order.Status.Color(),
	}
}

// storefrontErrorResponse maps service errors onto the response envelope.
func storefrontErrorResponse(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrCartLocked):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCartLocked))
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrCheckoutNotFound):
		utils.NotFoundResponse(c, i18n.KeyCheckoutNotFound)
	case errors.Is(err, services.ErrCatalogUnavailable):
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyCatalogUnavailable))
	case errors.Is(err, services.ErrPaymentArtifact):
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyPaymentFailed))
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
