// Package github resolves a GitHub OAuth authorization code into a user
// identity. The provider-specific protocol stays behind the IdentityProvider
// interface so the rest of the server never sees OAuth details.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
)

// Identity is the provider-side view of a user, as returned by Resolve.
type Identity struct {
	GithubID  int64
	Login     string
	Name      string
	AvatarURL string
}

// IdentityProvider exchanges an authorization code for a user identity.
type IdentityProvider interface {
	Resolve(ctx context.Context, code string) (*Identity, error)
}

// Client implements IdentityProvider against the GitHub OAuth and REST APIs.
type Client struct {
	clientID      string
	clientSecret  string
	oauthEndpoint string
	apiEndpoint   string
	httpClient    *http.Client
}

// NewClient constructs a Client. The endpoints are configurable so tests can
// point them at a local httptest server; pass the production values
// "https://github.com/login/oauth" and "https://api.github.com" otherwise.
func NewClient(clientID, clientSecret, oauthEndpoint, apiEndpoint string) *Client {
	return &Client{
		clientID:      clientID,
		clientSecret:  clientSecret,
		oauthEndpoint: oauthEndpoint,
		apiEndpoint:   apiEndpoint,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Resolve exchanges the authorization code for an access token, then fetches
// the user profile. A code GitHub rejects yields common.ErrorUnauthorized.
func (c *Client) Resolve(ctx context.Context, code string) (*Identity, error) {
	token, err := c.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return c.fetchUser(ctx, token)
}

func (c *Client) exchangeCode(ctx context.Context, code string) (string, error) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.oauthEndpoint+"/access_token?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}

	var tr accessTokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	// GitHub reports a bad or expired code as a 200 with an error field.
	if tr.AccessToken == "" {
		return "", common.ErrorUnauthorized
	}

	return tr.AccessToken, nil
}

func (c *Client) fetchUser(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiEndpoint+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("building user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrorUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching user: unexpected status %d", resp.StatusCode)
	}

	var ur userResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if ur.ID == 0 || ur.Login == "" {
		return nil, fmt.Errorf("fetching user: incomplete profile")
	}

	return &Identity{
		GithubID:  ur.ID,
		Login:     ur.Login,
		Name:      ur.Name,
		AvatarURL: ur.AvatarURL,
	}, nil
}
