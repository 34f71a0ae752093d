package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/learnjournal/internal/server/services"
	"github.com/gin-gonic/gin"
)

type topicRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type tagRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListTopics(c *gin.Context) {
	list, err := s.svc.Topics.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	t, err := s.svc.Topics.Create(c.Request.Context(), userID(c), req.Name, req.Color)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleDeleteTopic(c *gin.Context) {
	if err := s.svc.Topics.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListTags(c *gin.Context) {
	list, err := s.svc.Tags.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// handleCreateTag returns 200 with the existing tag when the name is taken.
func (s *Server) handleCreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	t, err := s.svc.Tags.Create(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	if err := s.svc.Tags.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListFavorites(c *gin.Context) {
	list, err := s.svc.Favorites.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	var in services.FavoriteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeError(c, badBody(err))
		return
	}
	f, err := s.svc.Favorites.Add(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	if err := s.svc.Favorites.Remove(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
