package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// NasaGIBSClient fetches rendered imagery tiles from the NASA GIBS WMS
// endpoint. Tiles are whole-world 512x512 PNGs for a layer and date.
type NasaGIBSClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNasaGIBSClient creates a new GIBS WMS client.
func NewNasaGIBSClient(baseURL string) *NasaGIBSClient {
	return &NasaGIBSClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Tile performs a WMS GetMap request and returns the PNG bytes unchanged.
func (c *NasaGIBSClient) Tile(ctx context.Context, layer, date string) ([]byte, error) {
	params := url.Values{
		"service":     {"WMS"},
		"request":     {"GetMap"},
		"version":     {"1.3.0"},
		"layers":      {layer},
		"styles":      {""},
		"format":      {"image/png"},
		"transparent": {"true"},
		"height":      {"512"},
		"width":       {"512"},
		"crs":         {"EPSG:4326"},
		"bbox":        {"-180,-90,180,90"},
		"time":        {date},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
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
		return nil, fmt.Errorf("gibs API error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
