package httpserver

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/services"
	"github.com/dmitrijs2005/learnjournal/internal/streak"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleStreak(c *gin.Context) {
	stats, err := s.svc.Streak.Stats(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleStreakWindow(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(streak.DefaultWindowDays)))
	if err != nil {
		s.writeError(c, common.NewValidationError("days", "must be an integer"))
		return
	}
	window, err := s.svc.Streak.Window(c.Request.Context(), userID(c), days)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, window)
}

func (s *Server) handleSubscriptionStatus(c *gin.Context) {
	st, err := s.svc.Subscriptions.Status(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var in services.SubscriptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	sub, err := s.svc.Subscriptions.Subscribe(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) handleUnsubscribe(c *gin.Context) {
	if err := s.svc.Subscriptions.Unsubscribe(c.Request.Context(), userID(c), c.Query("endpoint")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCheckReminders(c *gin.Context) {
	res, err := s.svc.Reminders.Check(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleExport(c *gin.Context) {
	out, err := s.svc.Export.Export(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
