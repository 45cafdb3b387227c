package port

import (
	"context"
	"encoding/json"
)

// WeatherProvider proxies current-weather lookups by city name. The
// returned payload is the provider's raw JSON, passed through unchanged.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (json.RawMessage, error)
}

// AirQualityProvider proxies air-pollution lookups by coordinates.
type AirQualityProvider interface {
	AirPollution(ctx context.Context, lat, lon string) (json.RawMessage, error)
}

// TileProvider fetches a rendered imagery tile for a layer and date.
// The result is a binary PNG passed through to the caller.
type TileProvider interface {
	Tile(ctx context.Context, layer, date string) ([]byte, error)
}
