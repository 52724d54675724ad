// internal/handlers/location.go
package handlers

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/techstore-backend/internal/config"
	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

// ReverseGeocoder is satisfied by services.GeocodingService.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Resolved  bool    `json:"resolved"`
	Message   string  `json:"message,omitempty"`
}

type LocationHandler struct {
	geocoder ReverseGeocoder
	config   config.GeocodingConfig
}

func NewLocationHandler(geocoder ReverseGeocoder, cfg config.GeocodingConfig) *LocationHandler {
	return &LocationHandler{
		geocoder: geocoder,
		config:   cfg,
	}
}

// GET /location?lat=&lng=
// Without coordinates the store's default location is used. When the address
// cannot be resolved the coordinates themselves are returned.
func (h *LocationHandler) GetLocation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	lat, lng := h.config.DefaultLat, h.config.DefaultLng
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		parsedLat, latErr := strconv.ParseFloat(latStr, 64)
		parsedLng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil || !validCoordinate(parsedLat, 90) || !validCoordinate(parsedLng, 180) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "coordinates"), nil)
			return
		}
		lat, lng = parsedLat, parsedLng
	}

	resp := LocationResponse{Latitude: lat, Longitude: lng}
	address, err := h.geocoder.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"lat": lat,
			"lng": lng,
		}).Warn("Reverse geocoding failed")
		resp.Address = services.FormatCoordinates(lat, lng)
		resp.Message = i18n.T(lang, i18n.KeyLocationUnresolved)
	} else {
		resp.Address = address
		resp.Resolved = true
	}

	utils.SuccessResponse(c, resp)
}

// validCoordinate rejects NaN and infinities, which ParseFloat accepts.
func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}
