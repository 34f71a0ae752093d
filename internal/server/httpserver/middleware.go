package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "userID"

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

// cors allows any origin and answers preflight requests with an empty 200.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// requireAuth verifies the bearer access token and stores the user id.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			s.writeError(c, common.ErrorUnauthorized)
			return
		}
		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// requireID answers 404 for an :id path segment that is not a uuid, so
// malformed ids never reach the database.
func (s *Server) requireID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param("id")); err != nil {
			s.writeError(c, common.ErrorNotFound)
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
