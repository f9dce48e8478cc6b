// Package insights assembles a business-metrics summary and asks an external
// AI gateway for free-text recommendations.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const systemPrompt = "You are a business intelligence analyst for a restaurant. " +
	"Provide clear, actionable insights in 3-5 bullet points."

// ClientConfig configures the AI gateway client.
type ClientConfig struct {
	// Endpoint is the full URL of an OpenAI-compatible chat completions API.
	Endpoint string
	// APIKey is sent as a bearer token.
	APIKey string
	// Model names the model to use.
	Model string
	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat completions gateway.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a gateway client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends the prompt to the gateway and returns the first choice's
// message content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "call gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("gateway returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}

	content, err := extractContent(raw)
	if err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	return content, nil
}

// extractContent pulls choices[0].message.content out of a chat completions
// response without materializing the whole document.
func extractContent(raw []byte) (string, error) {
	var content string
	d := jx.DecodeBytes(raw)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "choices" {
			return d.Skip()
		}
		first := true
		return d.Arr(func(d *jx.Decoder) error {
			if !first {
				return d.Skip()
			}
			first = false
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "message" {
					return d.Skip()
				}
				return d.Obj(func(d *jx.Decoder, key string) error {
					if key != "content" {
						return d.Skip()
					}
					s, err := d.Str()
					if err != nil {
						return err
					}
					content = s
					return nil
				})
			})
		})
	}); err != nil {
		return "", err
	}
	if content == "" {
		return "", errors.New("no insights in gateway response")
	}
	return content, nil
}
