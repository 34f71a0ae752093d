package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	u, err := s.svc.Users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	pair, err := s.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	pair, err := s.svc.Users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (s *Server) handleLogout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	if err := s.svc.Users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
