// internal/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type CheckoutHandler struct{}

func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

// POST /checkout
// An empty cart starts nothing and answers 204.
func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	result, err := storefront.Dispatch(c.Request.Context(), services.Command{Action: services.ActionCheckout})
	if err != nil {
		if errors.Is(err, services.ErrPaymentArtifact) && result.Checkout != nil {
			resp := toCheckoutResponse(result.Checkout)
			resp.Message = i18n.T(lang, i18n.KeyPaymentFailed)
			utils.ErrorResponse(c, http.StatusInternalServerError, "PAYMENT_FAILED", resp.Message, resp)
			return
		}
		storefrontErrorResponse(c, err)
		return
	}

	if result.Checkout == nil {
		c.Status(http.StatusNoContent)
		return
	}

	resp := toCheckoutResponse(result.Checkout)
	resp.Message = i18n.T(lang, i18n.KeyCheckoutStarted)
	if result.Changed {
		utils.CreatedResponse(c, resp)
		return
	}
	utils.SuccessResponse(c, resp)
}

// GET /checkout
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	checkout, err := storefront.Checkout()
	if err != nil {
		storefrontErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, toCheckoutResponse(checkout))
}

// DELETE /checkout
func (h *CheckoutHandler) CancelCheckout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	result, err := storefront.Dispatch(c.Request.Context(), services.Command{Action: services.ActionCancelCheckout})
	if err != nil {
		storefrontErrorResponse(c, err)
		return
	}

	if !result.Changed {
		utils.NotFoundResponse(c, i18n.KeyCheckoutNotFound)
		return
	}

	resp := toCheckoutResponse(result.Checkout)
	resp.Message = i18n.T(lang, i18n.KeyCheckoutCancelled)
	utils.SuccessResponse(c, resp)
}

// GET /checkout/qrcode.png
func (h *CheckoutHandler) GetQRCode(c *gin.Context) {
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	checkout, err := storefront.Checkout()
	if err != nil {
		storefrontErrorResponse(c, err)
		return
	}
	if checkout.Artifact == nil || len(checkout.Artifact.Image) == 0 {
		utils.NotFoundResponse(c, i18n.KeyCheckoutNotFound)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, checkout.Artifact.ContentType, checkout.Artifact.Image)
}
