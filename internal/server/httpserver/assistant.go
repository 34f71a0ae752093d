package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/gin-gonic/gin"
)

const relayBufferSize = 4 << 10

// handleAssistant relays smart-search and insights as an SSE passthrough
// and answers interview-prep with validated JSON.
func (s *Server) handleAssistant(c *gin.Context) {
	var req assistant.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(c, err)
		return
	}

	if !req.Action.Streams() {
		out, err := s.svc.Assistant.InterviewPrep(c.Request.Context(), &req)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	body, err := s.svc.Assistant.Stream(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer body.Close()

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	buf := make([]byte, relayBufferSize)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				s.logger.Debug(c.Request.Context(), "client went away", "error", werr)
				return
			}
			c.Writer.Flush()
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) && c.Request.Context().Err() == nil {
				s.logger.Warn(c.Request.Context(), "upstream stream broke", "error", rerr)
			}
			return
		}
	}
}
