package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/logging"
)

// AssistantService relays assistant requests to the configured provider.
// It keeps no state between requests.
type AssistantService struct {
	provider assistant.Provider
	timeout  time.Duration
	log      logging.Logger
}

func NewAssistantService(p assistant.Provider, timeout time.Duration, log logging.Logger) *AssistantService {
	return &AssistantService{provider: p, timeout: timeout, log: log}
}

func (s *AssistantService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *AssistantService) prompt(req *assistant.Request) (assistant.Prompt, error) {
	if err := req.Validate(); err != nil {
		return assistant.Prompt{}, err
	}
	return assistant.BuildPrompt(req)
}

// cancelOnClose releases the request context once the stream is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// Stream answers a streaming action. The returned body carries upstream
// SSE bytes unchanged and must be closed by the caller.
func (s *AssistantService) Stream(ctx context.Context, req *assistant.Request) (io.ReadCloser, error) {
	if !req.Action.Streams() && req.Action.Valid() {
		return nil, fmt.Errorf("action %q is not streamed", req.Action)
	}
	p, err := s.prompt(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	body, err := s.provider.Stream(ctx, p)
	if err != nil {
		cancel()
		s.log.Error(ctx, "assistant upstream failed", "action", string(req.Action), "error", err)
		return nil, err
	}
	s.log.Debug(ctx, "assistant stream opened", "action", string(req.Action), "entries", len(req.Entries))
	return &cancelOnClose{ReadCloser: body, cancel: cancel}, nil
}

// InterviewPrep asks for interview questions and returns them validated.
func (s *AssistantService) InterviewPrep(ctx context.Context, req *assistant.Request) (*assistant.InterviewPrep, error) {
	if req.Action != assistant.ActionInterviewPrep && req.Action.Valid() {
		return nil, fmt.Errorf("action %q is streamed", req.Action)
	}
	p, err := s.prompt(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, err := s.provider.Complete(ctx, p)
	if err != nil {
		s.log.Error(ctx, "assistant upstream failed", "action", string(req.Action), "error", err)
		return nil, err
	}

	out, err := assistant.ParseInterviewPrep(raw)
	if err != nil {
		s.log.Warn(ctx, "interview prep not parseable", "error", err, "length", len(raw))
		return nil, err
	}
	return out, nil
}
