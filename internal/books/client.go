package books

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"billmunshi/internal/config"
	"billmunshi/internal/domain"
)

// Client posts journals to the cloud accounting API using an OAuth refresh
// token grant. Access tokens are cached and refreshed once on a 401 before
// the request is replayed.
type Client struct {
	baseURL        string
	tokenURL       string
	organizationID string
	clientID       string
	clientSecret   string
	refreshToken   string
	httpClient     *http.Client

	mu          sync.Mutex
	accessToken string
}

// NewClient creates a journal poster from the books config.
func NewClient(cfg *config.BooksConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		tokenURL:       cfg.TokenURL,
		organizationID: cfg.OrganizationID,
		clientID:       cfg.ClientID,
		clientSecret:   cfg.ClientSecret,
		refreshToken:   cfg.RefreshToken,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

// PostJournal sends one journal payload. Transport failures and non-2xx
// responses surface as SyncTransportError so callers can leave the bill
// status untouched and retry safely.
func (c *Client) PostJournal(ctx context.Context, payload []byte) error {
	status, err := c.post(ctx, payload)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		log.Printf("books.PostJournal: access token rejected, refreshing")
		if rerr := c.refreshAccessToken(ctx); rerr != nil {
			return &domain.SyncTransportError{Err: fmt.Errorf("refreshing token: %w", rerr)}
		}
		status, err = c.post(ctx, payload)
		if err != nil {
			return err
		}
	}
	if status < 200 || status >= 300 {
		return &domain.SyncTransportError{StatusCode: status, Err: fmt.Errorf("journal rejected")}
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) (int, error) {
	endpoint := fmt.Sprintf("%s/journals?organization_id=%s", c.baseURL, url.QueryEscape(c.organizationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, &domain.SyncTransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.currentToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &domain.SyncTransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) refreshAccessToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("refresh_token", c.refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return fmt.Errorf("unmarshaling token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("token endpoint returned empty access token")
	}

	c.mu.Lock()
	c.accessToken = tokenResp.AccessToken
	c.mu.Unlock()
	return nil
}
