package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/airsightlab/airsight-backend/internal/domain"
)

const (
	facebookAuthURL    = "https://www.facebook.com/v18.0/dialog/oauth"
	facebookTokenURL   = "https://graph.facebook.com/v18.0/oauth/access_token"
	facebookProfileURL = "https://graph.facebook.com/me"
)

// FacebookProvider implements port.OAuthProvider for Facebook Login.
// It is only registered when client credentials are configured.
type FacebookProvider struct {
	clientID     string
	clientSecret string
	redirectURL  string
	httpClient   *http.Client
}

// NewFacebookProvider creates a new Facebook OAuth2 provider.
func NewFacebookProvider(clientID, clientSecret, redirectURL string) *FacebookProvider {
	return &FacebookProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		httpClient:   &http.Client{},
	}
}

// ProviderName returns "facebook".
func (f *FacebookProvider) ProviderName() string {
	return "facebook"
}

// AuthURL returns the Facebook Login dialog URL.
func (f *FacebookProvider) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {f.clientID},
		"redirect_uri":  {f.redirectURL},
		"response_type": {"code"},
		"scope":         {"email,public_profile"},
		"state":         {state},
	}
	return fmt.Sprintf("%s?%s", facebookAuthURL, params.Encode())
}

// ExchangeCode exchanges an authorization code for tokens. Facebook takes
// the exchange parameters in the query string of a GET request.
func (f *FacebookProvider) ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error) {
	params := url.Values{
		"code":          {code},
		"client_id":     {f.clientID},
		"client_secret": {f.clientSecret},
		"redirect_uri":  {f.redirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookTokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("facebook: create token request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook: token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("facebook: token exchange failed (%d): %s", resp.StatusCode, string(body))
	}

	var tokenResp domain.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("facebook: decode token response: %w", err)
	}

	return &tokenResp, nil
}

// GetProfile fetches the Facebook user profile using an access token.
func (f *FacebookProvider) GetProfile(ctx context.Context, accessToken string) (*domain.OAuthProfile, error) {
	params := url.Values{
		"fields":       {"id,name,email,picture"},
		"access_token": {accessToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookProfileURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("facebook: create profile request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook: fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("facebook: profile fetch failed (%d): %s", resp.StatusCode, string(body))
	}

	var profile struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("facebook: decode profile: %w", err)
	}

	return &domain.OAuthProfile{
		Provider:   "facebook",
		ProviderID: profile.ID,
		Email:      profile.Email,
		Name:       profile.Name,
		AvatarURL:  profile.Picture.Data.URL,
	}, nil
}
