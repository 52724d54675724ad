// internal/handlers/catalog.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

const ratingHighlightCount = 5

type CatalogHandler struct {
	catalogService *services.CatalogService
	settings       services.StorefrontSettings
}

func NewCatalogHandler(catalogService *services.CatalogService, settings services.StorefrontSettings) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		settings:       settings,
	}
}

// GET /catalog
// Returns the products displayed under the session's filter, with stats.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	view := storefront.Catalog()
	utils.SuccessResponseWithMeta(c, CatalogResponse{
		Category:       view.Category,
		Query:          view.Query,
		CurrencySymbol: h.settings.CurrencySymbol,
		Products:       toProductResponses(view.Products, h.settings.Multiplier),
		Stats: StatsResponse{
			Count:        view.Stats.Count,
			TotalStock:   view.Stats.TotalStock,
			AveragePrice: formatMoney(view.Stats.AveragePrice),
		},
	}, gin.H{"catalog_loaded": h.catalogService.Loaded()})
}

// POST /catalog/reload
func (h *CatalogHandler) ReloadCatalog(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.catalogService.Load(c.Request.Context()); err != nil {
		_ = c.Error(err)
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyCatalogUnavailable))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCatalogReloaded),
		"products": len(h.catalogService.Products()),
	})
}

// GET /catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": h.catalogService.Categories(),
	})
}

// GET /catalog/ratings
func (h *CatalogHandler) GetRatingHighlights(c *gin.Context) {
	utils.SuccessResponse(c, h.catalogService.RatingHighlights(ratingHighlightCount))
}

// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product ID"), nil)
		return
	}

	product, err := h.catalogService.Find(id)
	if err != nil {
		storefrontErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, toProductResponse(product, h.settings.Multiplier))
}
