package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xd-ai/gemini-chat/src/ai/core"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

func init() {
	core.RegisterProvider("gemini", newClient, "google")
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		defaults: core.Options{
			Model:        valueOrDefault(cfg.Model, "gemini-1.5-flash"),
			SystemPrompt: cfg.SystemPrompt,
			Temperature:  cfg.Temperature,
		},
	}, nil
}

func (c *client) Generate(ctx context.Context, prompt string, opts core.Options) (string, error) {
	merged := c.merge(opts)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
	}
	if merged.SystemPrompt != "" {
		payload["system_instruction"] = map[string]interface{}{
			"parts": []map[string]string{{"text": merged.SystemPrompt}},
		}
	}
	genCfg := map[string]interface{}{}
	if merged.Temperature != 0 {
		genCfg["temperature"] = merged.Temperature
	}
	if merged.MaxOutputTokens != 0 {
		genCfg["maxOutputTokens"] = merged.MaxOutputTokens
	}
	if len(genCfg) > 0 {
		payload["generationConfig"] = genCfg
	}

	b, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, merged.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(b))
	if err != nil {
		return "", &core.ProviderError{Provider: "gemini", Category: core.CategoryNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &core.ProviderError{Provider: "gemini", Category: core.CategoryNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &core.ProviderError{Provider: "gemini", Category: core.CategoryNetwork, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &core.ProviderError{
			Provider: "gemini",
			Category: core.CategoryForStatus(resp.StatusCode),
			Status:   resp.StatusCode,
			Message:  apiErrorMessage(body),
		}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &core.ProviderError{Provider: "gemini", Category: core.CategoryProvider, Message: "unparseable response"}
	}
	if len(result.Candidates) == 0 {
		return "", &core.ProviderError{Provider: "gemini", Category: core.CategoryProvider, Message: "no candidates in response"}
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()
	if text == "" {
		return "", &core.ProviderError{Provider: "gemini", Category: core.CategoryProvider, Message: "empty completion"}
	}
	return text, nil
}

// apiErrorMessage pulls the human-readable message out of an error body,
// falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return string(body)
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxOutputTokens != 0 {
		out.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}
