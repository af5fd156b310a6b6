package wake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultManagementURL = "https://api.supabase.com"

var ErrNotConfigured = errors.New("wake endpoint not configured")

// Client sends the restore request for a paused project. It fires exactly one
// request per Wake call: no polling, no retry. Success means the request was
// accepted, not that the backend is ready.
type Client struct {
	baseURL     string
	projectRef  string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, projectRef, accessToken string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultManagementURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:     baseURL,
		projectRef:  strings.TrimSpace(projectRef),
		accessToken: strings.TrimSpace(accessToken),
		httpClient:  httpClient,
	}
}

func (c *Client) Wake(ctx context.Context) error {
	if c.projectRef == "" || c.accessToken == "" {
		return ErrNotConfigured
	}

	reqURL := c.baseURL + "/v1/projects/" + url.PathEscape(c.projectRef) + "/restore"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send restore request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("restore returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
