package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/xd-ai/gemini-chat/src/search"
)

const (
	defaultBaseURL = "https://serpapi.com/search"
	maxResults     = 5
)

// Client queries SerpAPI's Google engine for organic results.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// Fetch returns up to 5 snippets for query. An empty apiKey short-circuits
// to search.ErrUnavailable without touching the network, and every provider
// failure is folded into the same sentinel so the turn can proceed.
func (c *Client) Fetch(ctx context.Context, query, apiKey string) ([]search.Snippet, error) {
	if apiKey == "" {
		return nil, search.ErrUnavailable
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", apiKey)
	params.Set("num", "5")
	params.Set("hl", "en")
	params.Set("gl", "us")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("serpapi: request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("serpapi: status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", search.ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}

	snippets := make([]search.Snippet, 0, maxResults)
	for _, item := range result.OrganicResults {
		if len(snippets) == maxResults {
			break
		}
		snippets = append(snippets, search.Snippet{
			Title:   item.Title,
			Excerpt: item.Snippet,
			Source:  item.Link,
		})
	}
	return snippets, nil
}
