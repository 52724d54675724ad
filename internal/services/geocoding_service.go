// internal/services/geocoding_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/javajoker/techstore-backend/internal/config"
)

// GeocodingService resolves coordinates to a readable address using a
// Nominatim compatible reverse geocoding API.
type GeocodingService struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

type nominatimAddress struct {
	Road          string `json:"road"`
	Street        string `json:"street"`
	HouseNumber   string `json:"house_number"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Country       string `json:"country"`
}

type nominatimResponse struct {
	Address *nominatimAddress `json:"address"`
}

func NewGeocodingService(cfg config.GeocodingConfig) *GeocodingService {
	return &GeocodingService{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *GeocodingService) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("zoom", "10")
	query.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	return formatAddress(body.Address, lat, lng), nil
}

// formatAddress joins street, neighbourhood, city and country with " - ".
// When none are known the coordinates are returned instead.
func formatAddress(addr *nominatimAddress, lat, lng float64) string {
	if addr == nil {
		addr = &nominatimAddress{}
	}

	var parts []string

	if street := firstNonEmpty(addr.Road, addr.Street); street != "" {
		if addr.HouseNumber != "" {
			street += " " + addr.HouseNumber
		}
		parts = append(parts, street)
	}

	if area := firstNonEmpty(addr.Neighbourhood, addr.Suburb); area != "" {
		parts = append(parts, area)
	}

	if city := firstNonEmpty(addr.City, addr.Town, addr.Village); city != "" {
		if addr.State != "" {
			city += ", " + addr.State
		}
		parts = append(parts, city)
	}

	if addr.Country != "" {
		parts = append(parts, addr.Country)
	}

	if len(parts) == 0 {
		return FormatCoordinates(lat, lng)
	}
	return strings.Join(parts, " - ")
}

func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
