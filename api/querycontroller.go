package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsrag/orchestrator"
)

// RegisterQueryRoutes registers the chatbot query endpoint.
func (s *Server) RegisterQueryRoutes(r *gin.Engine) {
	g := r.Group("/query")
	g.POST("/chatbot", s.handleQueryChatbot)
}

// QueryRequest is the body of POST /query/chatbot.
type QueryRequest struct {
	QueryText        string `json:"queryText"`
	NumberOfPassages int    `json:"numberOfPassages"`
}

// handleQueryChatbot answers a query cache-first and records the
// exchange in the caller's session history.
func (s *Server) handleQueryChatbot(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Query text is required and must be a string")
		return
	}

	ctx := c.Request.Context()
	sessionID := s.ensureSession(c)

	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		// A lost history degrades the session, not the answer
		log.Printf("Failed to load session history: %v", err)
		history = nil
	}

	result, history, err := s.orch.Handle(ctx, req.QueryText, req.NumberOfPassages, history)
	if err != nil {
		if errors.Is(err, orchestrator.ErrEmptyQuery) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if result.NoResults {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "No relevant passages found",
			"answer":  result.Answer,
		})
		return
	}

	if err := s.sessions.SaveHistory(ctx, sessionID, history); err != nil {
		log.Printf("Failed to save session history: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Query processed successfully",
		"query":           result.Query,
		"passages":        result.Passages,
		"answer":          result.Answer,
		"servedFromCache": result.ServedFromCache,
	})
}
