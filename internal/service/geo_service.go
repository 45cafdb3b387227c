package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/port"
)

// GeoService proxies the upstream geodata APIs. When the caller is an
// authenticated user, weather and air-quality results are additionally
// written onto the user's record as a best-effort side write: a failed
// cache write is logged and never fails the request.
type GeoService struct {
	weather port.WeatherProvider
	air     port.AirQualityProvider
	tiles   port.TileProvider
	users   port.UserStore
	sites   port.SiteStore
}

// NewGeoService creates a new geo-query gateway.
func NewGeoService(weather port.WeatherProvider, air port.AirQualityProvider, tiles port.TileProvider, users port.UserStore, sites port.SiteStore) *GeoService {
	return &GeoService{
		weather: weather,
		air:     air,
		tiles:   tiles,
		users:   users,
		sites:   sites,
	}
}

// GetWeather proxies a current-weather lookup and returns the raw
// upstream payload unchanged.
func (s *GeoService) GetWeather(ctx context.Context, user *domain.User, city string) (json.RawMessage, error) {
	if city == "" {
		return nil, port.Validation("city is required")
	}

	data, err := s.weather.CurrentWeather(ctx, city)
	if err != nil {
		return nil, &port.UpstreamError{Provider: "openweather", Err: err}
	}

	if user != nil {
		check := &domain.GeoCheck{City: city, Data: data, CheckedAt: time.Now()}
		if err := s.users.UpdateLastWeatherCheck(ctx, user.ID, check); err != nil {
			slog.Warn("failed to cache weather check", "user_id", user.ID, "error", err)
		}
	}
	return data, nil
}

// GetAirQuality proxies an air-pollution lookup by coordinates.
func (s *GeoService) GetAirQuality(ctx context.Context, user *domain.User, lat, lon string) (json.RawMessage, error) {
	if lat == "" || lon == "" {
		return nil, port.Validation("lat and lon are required")
	}

	data, err := s.air.AirPollution(ctx, lat, lon)
	if err != nil {
		return nil, &port.UpstreamError{Provider: "openweather", Err: err}
	}

	if user != nil {
		check := &domain.GeoCheck{Lat: lat, Lon: lon, Data: data, CheckedAt: time.Now()}
		if err := s.users.UpdateLastAirQualityCheck(ctx, user.ID, check); err != nil {
			slog.Warn("failed to cache air quality check", "user_id", user.ID, "error", err)
		}
	}
	return data, nil
}

// GetNasaTile proxies a GIBS WMS tile request and returns the PNG bytes.
func (s *GeoService) GetNasaTile(ctx context.Context, layer, date string) ([]byte, error) {
	if layer == "" || date == "" {
		return nil, port.Validation("layer and date are required")
	}

	tile, err := s.tiles.Tile(ctx, layer, date)
	if err != nil {
		return nil, &port.UpstreamError{Provider: "nasa-gibs", Err: err}
	}
	return tile, nil
}

// ListSites returns the read-only map-marker sites.
func (s *GeoService) ListSites(ctx context.Context) ([]domain.Site, error) {
	return s.sites.ListSites(ctx)
}
