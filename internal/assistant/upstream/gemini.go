package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/assistant/sse"
	"google.golang.org/genai"
)

// models is the part of *genai.Models that Gemini uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Gemini calls the Gemini API directly and re-emits streamed output in the
// chat-completion chunk format, so clients see one wire format whichever
// provider is configured.
type Gemini struct {
	models models
	model  string
}

var newGenaiClient = genai.NewClient

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := newGenaiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{models: client.Models, model: geminiModel(model)}, nil
}

// geminiModel drops the vendor prefix gateway model ids carry.
func geminiModel(model string) string {
	return strings.TrimPrefix(model, "google/")
}

func (g *Gemini) config(p assistant.Prompt) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
	}
}

func (g *Gemini) Complete(ctx context.Context, p assistant.Prompt) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(p.User), g.config(p))
	if err != nil {
		return "", mapGenaiError(err)
	}
	text := resp.Text()
	if text == "" {
		return "", assistant.ErrNoContent
	}
	return text, nil
}

// Stream pulls the first response synchronously so an immediate upstream
// failure surfaces as an error instead of a broken stream.
func (g *Gemini) Stream(ctx context.Context, p assistant.Prompt) (io.ReadCloser, error) {
	next, stop := iter.Pull2(g.models.GenerateContentStream(ctx, g.model, genai.Text(p.User), g.config(p)))

	first, err, ok := next()
	if err != nil {
		stop()
		return nil, mapGenaiError(err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer stop()
		resp := first
		for ok {
			if err != nil {
				pw.CloseWithError(mapGenaiError(err))
				return
			}
			if text := resp.Text(); text != "" {
				if werr := sse.WriteChunk(pw, text); werr != nil {
					return
				}
			}
			resp, err, ok = next()
		}
		if werr := sse.WriteDone(pw); werr != nil {
			return
		}
		pw.Close()
	}()
	return pr, nil
}

func mapGenaiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return assistant.NewUpstreamError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return assistant.NewUpstreamError(apiErrPtr.Code, apiErrPtr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &assistant.UpstreamError{Kind: assistant.KindUpstream, Status: http.StatusBadGateway, Body: err.Error()}
}
