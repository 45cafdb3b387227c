package handler

import (
	"github.com/airsightlab/airsight-backend/internal/middleware"
	"github.com/airsightlab/airsight-backend/internal/service"
	"github.com/gofiber/fiber/v3"
)

// GeoHandler handles the geodata proxy endpoints. Routes run behind
// optional auth: anonymous callers get the payload, authenticated callers
// additionally get the result cached on their record.
type GeoHandler struct {
	geoService *service.GeoService
}

// NewGeoHandler creates a new geo handler.
func NewGeoHandler(geoService *service.GeoService) *GeoHandler {
	return &GeoHandler{geoService: geoService}
}

// Register sets up geo routes on the api group.
func (h *GeoHandler) Register(api fiber.Router) {
	api.Get("/weather", h.Weather)
	api.Get("/air-quality", h.AirQuality)
	api.Get("/nasa-heatmap", h.NasaHeatmap)
	api.Get("/sites", h.Sites)
}

// Weather proxies a current-weather lookup by city.
func (h *GeoHandler) Weather(c fiber.Ctx) error {
	data, err := h.geoService.GetWeather(c.Context(), middleware.GetUser(c), c.Query("city"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// AirQuality proxies an air-pollution lookup by coordinates.
func (h *GeoHandler) AirQuality(c fiber.Ctx) error {
	data, err := h.geoService.GetAirQuality(c.Context(), middleware.GetUser(c), c.Query("lat"), c.Query("lon"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// NasaHeatmap proxies a GIBS imagery tile, binary passthrough.
func (h *GeoHandler) NasaHeatmap(c fiber.Ctx) error {
	tile, err := h.geoService.GetNasaTile(c.Context(), c.Query("layer"), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(tile)
}

// Sites returns the read-only map markers.
func (h *GeoHandler) Sites(c fiber.Ctx) error {
	sites, err := h.geoService.ListSites(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sites)
}
