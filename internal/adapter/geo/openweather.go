package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// OpenWeatherClient calls the OpenWeather current-weather and
// air-pollution APIs with a server-held key. Payloads are returned raw;
// their shape belongs to the provider.
type OpenWeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewOpenWeatherClient creates a new OpenWeather-backed client.
func NewOpenWeatherClient(baseURL, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// CurrentWeather fetches current weather for a city, metric units.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, city string) (json.RawMessage, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	return c.get(ctx, "/data/2.5/weather", params)
}

// AirPollution fetches air-quality data for a coordinate pair.
func (c *OpenWeatherClient) AirPollution(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	params := url.Values{
		"lat":   {lat},
		"lon":   {lon},
		"appid": {c.apiKey},
	}
	return c.get(ctx, "/data/2.5/air_pollution", params)
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather API error (%d): %s", resp.StatusCode, string(body))
	}
	return json.RawMessage(body), nil
}
