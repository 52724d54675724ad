// internal/handlers/cart.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type AddCartItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	resp := toCartResponse(storefront.Cart(), storefront.Settings())
	if resp.Count == 0 {
		resp.Message = i18n.T(lang, i18n.KeyCartEmpty)
	}
	utils.SuccessResponse(c, resp)
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	_, err := storefront.Dispatch(c.Request.Context(), services.Command{
		Action:    services.ActionAddToCart,
		ProductID: req.ProductID,
	})
	if err != nil {
		storefrontErrorResponse(c, err)
		return
	}

	resp := toCartResponse(storefront.Cart(), storefront.Settings())
	resp.Message = i18n.T(lang, i18n.KeyCartItemAdded)
	utils.CreatedResponse(c, resp)
}

// DELETE /cart/items/:index
// An index outside the cart leaves it unchanged and still succeeds.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "index"), nil)
		return
	}

	result, err := storefront.Dispatch(c.Request.Context(), services.Command{
		Action: services.ActionRemoveFromCart,
		Index:  index,
	})
	if err != nil {
		storefrontErrorResponse(c, err)
		return
	}

	resp := toCartResponse(storefront.Cart(), storefront.Settings())
	if result.Changed {
		resp.Message = i18n.T(lang, i18n.KeyCartItemRemoved)
	}
	utils.SuccessResponse(c, resp)
}
