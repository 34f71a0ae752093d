package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/gin-gonic/gin"
)

// parseFailureMessage is what clients see when an assistant payload could
// not be recovered.
const parseFailureMessage = "Failed to parse AI response as JSON"

// statusFor maps an error to the HTTP status and the message returned in
// the {"error": ...} body.
func statusFor(err error) (int, string) {
	var (
		ve *common.ValidationError
		ue *assistant.UpstreamError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &ue):
		return ue.Kind.HTTPStatus(), ue.Error()
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, common.ErrorAlreadyExists.Error()
	case errors.Is(err, common.ErrParse):
		return http.StatusInternalServerError, parseFailureMessage
	case errors.Is(err, assistant.ErrNoContent):
		return http.StatusInternalServerError, assistant.ErrNoContent.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, assistant.KindUpstream.Message()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

// writeError aborts the request with the mapped status and logs server-side
// failures.
func (s *Server) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badBody(err error) error {
	return common.NewValidationError("body", "invalid request body: "+err.Error())
}
