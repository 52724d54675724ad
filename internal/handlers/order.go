// internal/handlers/order.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// GET /orders
// Newest first.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	orders := storefront.Orders()

	page := utils.Paginate(orders, params)
	responses := make([]OrderResponse, 0, len(page))
	for _, order := range page {
		responses = append(responses, toOrderResponse(order))
	}

	result := utils.CreatePaginationResult(responses, int64(len(orders)), params)
	if len(orders) == 0 {
		utils.SetPaginationHeaders(c, result)
		utils.SuccessResponseWithMeta(c, responses, gin.H{
			"message": i18n.T(lang, i18n.KeyOrderHistoryEmpty),
		})
		return
	}
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "order ID"), nil)
		return
	}

	order, ok := storefront.Order(id)
	if !ok {
		utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
		return
	}

	utils.SuccessResponseWithMeta(c, toOrderResponse(order), gin.H{
		"tracking": i18n.T(lang, i18n.KeyOrderTrackingPending),
	})
}
