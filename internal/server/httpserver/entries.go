package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleListEntries(c *gin.Context) {
	list, err := s.svc.Entries.List(c.Request.Context(), userID(c), models.EntryFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetEntry(c *gin.Context) {
	e, err := s.svc.Entries.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleCreateEntry(c *gin.Context) {
	var in services.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	e, err := s.svc.Entries.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) handleUpdateEntry(c *gin.Context) {
	var in services.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	e, err := s.svc.Entries.Update(c.Request.Context(), userID(c), c.Param("id"), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(c *gin.Context) {
	if err := s.svc.Entries.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
