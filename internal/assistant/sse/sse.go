// Package sse reads and writes the chat-completion chunk stream used by
// the assistant relay: "data: {json}" lines carrying
// choices[0].delta.content, terminated by "data: [DONE]".
package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	dataPrefix = "data: "
	doneToken  = "[DONE]"
)

// ErrMalformed is wrapped by LineError.
var ErrMalformed = errors.New("malformed stream payload")

// LineError reports a complete data line whose payload is not valid JSON.
// Lines are only parsed once their terminating newline has arrived, so
// this is never a line split across reads.
type LineError struct {
	Line string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformed, e.Err)
}

func (e *LineError) Unwrap() error { return ErrMalformed }

// StreamError is an error object sent in-band by the provider.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return "stream error: " + e.Message
}

type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ProgressFunc receives the accumulated text after every appended fragment.
type ProgressFunc func(partial string)

const readSize = 4 << 10

// Consume reads body until [DONE] or EOF and returns the concatenated delta
// content. onProgress may be nil.
//
// body is always closed. Cancelling ctx closes it early; the partial text
// is then discarded and ctx.Err() returned.
func Consume(ctx context.Context, body io.ReadCloser, onProgress ProgressFunc) (string, error) {
	defer body.Close()
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	c := consumer{onProgress: onProgress}
	buf := make([]byte, readSize)

	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			c.pending = append(c.pending, buf[:n]...)
			done, err := c.drain(false)
			if err != nil {
				return "", err
			}
			if done {
				return c.text.String(), nil
			}
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if rerr == io.EOF {
			if _, err := c.drain(true); err != nil {
				return "", err
			}
			return c.text.String(), nil
		}
		if rerr != nil {
			return "", fmt.Errorf("read stream: %w", rerr)
		}
	}
}

type consumer struct {
	pending    []byte
	text       bytes.Buffer
	onProgress ProgressFunc
}

// drain handles every complete line in pending. At EOF the unterminated
// remainder is handled as a final line.
func (c *consumer) drain(eof bool) (bool, error) {
	for {
		i := bytes.IndexByte(c.pending, '\n')
		if i < 0 {
			break
		}
		line := c.pending[:i]
		c.pending = c.pending[i+1:]

		done, err := c.line(line)
		if err != nil || done {
			return done, err
		}
	}

	if eof && len(c.pending) > 0 {
		line := c.pending
		c.pending = nil
		return c.line(line)
	}
	return false, nil
}

func (c *consumer) line(raw []byte) (bool, error) {
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	if len(bytes.TrimSpace(raw)) == 0 || raw[0] == ':' {
		return false, nil
	}
	if !bytes.HasPrefix(raw, []byte(dataPrefix)) {
		return false, nil
	}

	payload := bytes.TrimSpace(raw[len(dataPrefix):])
	if string(payload) == doneToken {
		return true, nil
	}

	var ch chunk
	if err := json.Unmarshal(payload, &ch); err != nil {
		return false, &LineError{Line: string(raw), Err: err}
	}
	if ch.Error != nil {
		return false, &StreamError{Message: ch.Error.Message}
	}
	if len(ch.Choices) == 0 || ch.Choices[0].Delta.Content == "" {
		return false, nil
	}

	c.text.WriteString(ch.Choices[0].Delta.Content)
	if c.onProgress != nil {
		c.onProgress(c.text.String())
	}
	return false, nil
}
