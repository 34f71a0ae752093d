// Package upstream implements assistant.Provider against an
// OpenAI-compatible chat completions gateway and against the Gemini API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
)

// maxErrorBody bounds how much of a failed response is kept for logs.
const maxErrorBody = 4 << 10

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Gateway talks to a chat completions endpoint with bearer auth.
type Gateway struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// NewGateway returns a Gateway. A nil client means http.DefaultClient;
// request deadlines come from the caller's context.
func NewGateway(url, apiKey, model string, client *http.Client) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{url: url, apiKey: apiKey, model: model, client: client}
}

func (g *Gateway) Stream(ctx context.Context, p assistant.Prompt) (io.ReadCloser, error) {
	resp, err := g.do(ctx, p, true)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (g *Gateway) Complete(ctx context.Context, p assistant.Prompt) (string, error) {
	resp, err := g.do(ctx, p, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", assistant.ErrNoContent
	}
	return cr.Choices[0].Message.Content, nil
}

func (g *Gateway) do(ctx context.Context, p assistant.Prompt, stream bool) (*http.Response, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gateway api key is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Stream: stream,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, assistant.NewUpstreamError(resp.StatusCode, string(b))
	}
	return resp, nil
}
