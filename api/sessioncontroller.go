package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsrag/config"
	"newsrag/types"
)

// RegisterSessionRoutes registers session history endpoints.
func (s *Server) RegisterSessionRoutes(r *gin.Engine) {
	g := r.Group("/session")
	g.GET("/history", s.handleSessionHistory)
	g.GET("/clear-history", s.handleClearHistory)
}

// handleSessionHistory returns the current session's query history.
func (s *Server) handleSessionHistory(c *gin.Context) {
	sessionID := s.ensureSession(c)

	history, err := s.sessions.History(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []types.SessionEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session history retrieved successfully",
		"history": history,
	})
}

// handleClearHistory drops the session's stored history and expires the
// session cookie.
func (s *Server) handleClearHistory(c *gin.Context) {
	if sessionID, err := c.Cookie(config.SessionCookie); err == nil && sessionID != "" {
		if err := s.sessions.Clear(c.Request.Context(), sessionID); err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.SetCookie(config.SessionCookie, "", -1, "/", "", false, true)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session cleared successfully",
	})
}
