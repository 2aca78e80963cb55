// Package leakosint wraps the LeakOSINT search API. Results are opaque JSON;
// the bot renders them without interpreting their structure.
package leakosint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	BaseURL    string
	APIToken   string
	Limit      int
	Lang       string
	HTTPClient *http.Client
}

type searchRequest struct {
	Token   string `json:"token"`
	Request string `json:"request"`
	Limit   int    `json:"limit"`
	Lang    string `json:"lang"`
	Type    string `json:"type"`
}

func NewClient(baseURL, apiToken string, limit int, lang string) *Client {
	return &Client{
		BaseURL:  baseURL,
		APIToken: apiToken,
		Limit:    limit,
		Lang:     lang,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search posts the query and returns the raw JSON result.
func (c *Client) Search(query string) (json.RawMessage, error) {
	reqBody := searchRequest{
		Token:   c.APIToken,
		Request: query,
		Limit:   c.Limit,
		Lang:    c.Lang,
		Type:    "json",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api error: %s (status: %d)", string(respBody), resp.StatusCode)
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("api returned invalid JSON")
	}

	return json.RawMessage(respBody), nil
}
