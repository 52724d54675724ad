// internal/handlers/filter.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type UpdateFiltersRequest struct {
	Category *string `json:"category" validate:"omitempty,max=64,no_control"`
	Query    *string `json:"query" validate:"omitempty,max=200,no_control"`
}

type FilterHandler struct{}

func NewFilterHandler() *FilterHandler {
	return &FilterHandler{}
}

// PUT /filters
// Omitted fields keep their current value.
func (h *FilterHandler) UpdateFilters(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ctx := c.Request.Context()
	if req.Category != nil {
		if _, err := storefront.Dispatch(ctx, services.Command{Action: services.ActionSetCategory, Category: *req.Category}); err != nil {
			storefrontErrorResponse(c, err)
			return
		}
	}
	if req.Query != nil {
		if _, err := storefront.Dispatch(ctx, services.Command{Action: services.ActionSearch, Query: *req.Query}); err != nil {
			storefrontErrorResponse(c, err)
			return
		}
	}

	view := storefront.Catalog()
	settings := storefront.Settings()
	utils.SuccessResponse(c, CatalogResponse{
		Category:       view.Category,
		Query:          view.Query,
		CurrencySymbol: settings.CurrencySymbol,
		Products:       toProductResponses(view.Products, settings.Multiplier),
		Stats: StatsResponse{
			Count:        view.Stats.Count,
			TotalStock:   view.Stats.TotalStock,
			AveragePrice: formatMoney(view.Stats.AveragePrice),
		},
	})
}
